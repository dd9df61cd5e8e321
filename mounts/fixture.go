package mounts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackfish212/adbfs/types"
)

var _ types.Transport = (*FixtureTransport)(nil)

// CommandResult is the canned outcome of one RunCommand verb.
type CommandResult struct {
	ExitCode int
	Stderr   string
	Err      error
}

// FixtureTransport is an in-memory transport that serves literal "ls"
// text and records every call. Listings pass through the same output
// filter as ADBTransport. Directories without a registered listing are
// empty.
type FixtureTransport struct {
	mu       sync.Mutex
	listings map[string]string
	failures map[string]error
	results  map[string]CommandResult
	delay    time.Duration

	listCalls []string
	commands  [][]string
}

// NewFixtureTransport creates an empty fixture transport.
func NewFixtureTransport() *FixtureTransport {
	return &FixtureTransport{
		listings: make(map[string]string),
		failures: make(map[string]error),
		results:  make(map[string]CommandResult),
	}
}

// AddListing registers the raw recursive listing returned for dir. Use ""
// or "/" for the whole-device scan.
func (f *FixtureTransport) AddListing(dir, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings[normPath(dir)] = raw
	slog.Debug("fixture: added listing", "dir", dir, "size", len(raw))
}

// FailListing makes ListDirectory(dir) return err.
func (f *FixtureTransport) FailListing(dir string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[normPath(dir)] = err
}

// SetResult sets the outcome of RunCommand calls whose first argument is verb.
func (f *FixtureTransport) SetResult(verb string, r CommandResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[verb] = r
}

// SetDelay makes every call block for d or until the context is done.
func (f *FixtureTransport) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

func (f *FixtureTransport) wait(ctx context.Context) error {
	f.mu.Lock()
	d := f.delay
	f.mu.Unlock()
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FixtureTransport) ListDirectory(ctx context.Context, dir string) (string, error) {
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	key := normPath(dir)
	f.listCalls = append(f.listCalls, "/"+key)
	if err, ok := f.failures[key]; ok {
		return "", err
	}
	return filterOutput(f.listings[key])
}

func (f *FixtureTransport) RunCommand(ctx context.Context, argv []string) (int, string, error) {
	if err := f.wait(ctx); err != nil {
		return -1, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.commands = append(f.commands, append([]string(nil), argv...))
	if len(argv) == 0 {
		return 0, "", nil
	}
	r := f.results[argv[0]]
	return r.ExitCode, r.Stderr, r.Err
}

// ListCalls returns the directories listed so far, in call order.
func (f *FixtureTransport) ListCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listCalls...)
}

// Commands returns the argv of every RunCommand call so far.
func (f *FixtureTransport) Commands() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]string, len(f.commands))
	for i, c := range f.commands {
		out[i] = append([]string(nil), c...)
	}
	return out
}
