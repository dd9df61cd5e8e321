package mounts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/rwtodd/Go.Sed/sed"

	"github.com/jackfish212/adbfs/types"
)

var _ types.Transport = (*ADBTransport)(nil)

// outputFilter is the sed program applied to raw "adb shell" output: older
// devices terminate lines with CRLF, and the per-directory "total" lines
// carry nothing.
const outputFilter = `s/\r$//
/^total [0-9][0-9]*$/d
`

// waitDelay bounds how long a killed adb may keep its output pipes open.
const waitDelay = 2 * time.Second

// ADBOptions configures an ADBTransport.
type ADBOptions struct {
	Binary    string // adb executable, default "adb"
	Serial    string // optional device serial, passed as -s
	LsCommand string // device command producing the recursive listing

	// AllowPartial accepts a listing that exited non-zero but printed
	// records, as ls does for unreadable directories without root.
	AllowPartial bool
}

// ADBTransport runs adb on the host for every call.
type ADBTransport struct {
	opts ADBOptions
}

// NewADBTransport creates a transport that shells out to adb.
func NewADBTransport(opts ADBOptions) *ADBTransport {
	if opts.Binary == "" {
		opts.Binary = "adb"
	}
	if opts.LsCommand == "" {
		opts.LsCommand = "busybox ls -lAenR"
	}
	return &ADBTransport{opts: opts}
}

func (a *ADBTransport) args(argv []string) []string {
	if a.opts.Serial == "" {
		return argv
	}
	return append([]string{"-s", a.opts.Serial}, argv...)
}

// run executes adb and returns stdout, stderr and the exit code. err is
// non-nil only when adb could not be run or the context expired.
func (a *ADBTransport) run(ctx context.Context, argv []string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, a.opts.Binary, a.args(argv)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	slog.Debug("adb: exec", "binary", a.opts.Binary, "args", argv)
	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return stdout.String(), stderr.String(), -1, fmt.Errorf("%w: %v", types.ErrTimeout, ctx.Err())
	}
	if ctx.Err() != nil {
		return stdout.String(), stderr.String(), -1, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return stdout.String(), stderr.String(), exitErr.ExitCode(), nil
		}
		return stdout.String(), stderr.String(), -1, err
	}
	return stdout.String(), stderr.String(), 0, nil
}

// ListDirectory returns the recursive listing of dir, or of "/" when dir is
// empty.
//
// Any non-zero exit is a transport failure unless AllowPartial is set;
// even then, errors reported by adb itself or a failure with no output
// at all are not accepted. The returned text has LF line endings and no
// "total" lines.
func (a *ADBTransport) ListDirectory(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		dir = "/"
	}
	cmdline := a.opts.LsCommand + " " + ShellQuote(dir)
	stdout, stderr, code, err := a.run(ctx, []string{"shell", cmdline})
	if err != nil {
		return "", &types.TransportError{Op: "list", Path: dir, ExitCode: code, Stderr: stderr, Err: err}
	}
	if code != 0 {
		if !a.opts.AllowPartial || isAdbError(stderr) || strings.TrimSpace(stdout) == "" {
			return "", &types.TransportError{Op: "list", Path: dir, ExitCode: code, Stderr: stderr}
		}
		slog.Warn("adb: listing incomplete", "dir", dir, "exit", code, "stderr", firstLine(stderr))
	}
	return filterOutput(stdout)
}

// RunCommand runs "adb argv..." and reports its exit code and error output.
func (a *ADBTransport) RunCommand(ctx context.Context, argv []string) (int, string, error) {
	_, stderr, code, err := a.run(ctx, argv)
	if err != nil {
		return code, stderr, &types.TransportError{Op: strings.Join(argv[:min(len(argv), 2)], " "), Stderr: stderr, Err: err}
	}
	return code, stderr, nil
}

func filterOutput(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	engine, err := sed.New(strings.NewReader(outputFilter))
	if err != nil {
		return "", fmt.Errorf("adb: output filter: %w", err)
	}
	out, err := engine.RunString(raw)
	if err != nil {
		return "", fmt.Errorf("adb: output filter: %w", err)
	}
	return out, nil
}

// isAdbError reports whether stderr holds an error from the adb client
// itself, e.g. "error: no devices/emulators found".
func isAdbError(stderr string) bool {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "error:") || strings.HasPrefix(line, "adb: error:") {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
