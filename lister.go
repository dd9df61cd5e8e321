package adbfs

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackfish212/adbfs/types"
)

var (
	// perms links uid gid size <Mon> <day> <HH:MM:SS> <year> name[ -> target]
	recordRe = regexp.MustCompile(`^([-bcdlps][-rwxsStT]{9})[.+@]?\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s+([A-Za-z]{3}\s+\d{1,2}\s+\d{1,2}:\d{2}:\d{2}\s+\d{4})\s+(.+)$`)
	headerRe = regexp.MustCompile(`^(?:\./)?(.*):$`)
)

// Listing is the result of one device scan: the flat entry table in
// discovery order and the index of symlink entries keyed by Filepath.
type Listing struct {
	Entries []*Entry
	Links   map[string]*Entry
}

// Lister turns the raw recursive "ls" output of a Transport into a Listing.
// A Lister is single-use per List call and not safe for concurrent use.
type Lister struct {
	transport Transport
	cfg       Config
	skip      map[string]bool
}

// NewLister creates a Lister reading from t.
func NewLister(t Transport, cfg Config) *Lister {
	return &Lister{transport: t, cfg: cfg, skip: cfg.SkipSet()}
}

type scanState struct {
	listing *Listing
	seen    map[string]bool
	skipped []string // directories whose subtrees are ignored
	scanned []string // directories already covered by a scoped call
	calls   int
}

func (s *scanState) isSkipped(dir string) bool {
	for _, d := range s.skipped {
		if isUnder(dir, d) {
			return true
		}
	}
	return false
}

func (s *scanState) isScanned(dir string) bool {
	for _, d := range s.scanned {
		if isUnder(dir, d) {
			return true
		}
	}
	return false
}

// List scans the whole device and returns the raw, unnormalized listing.
// Any transport or parse failure aborts the scan.
func (l *Lister) List(ctx context.Context) (*Listing, error) {
	st := &scanState{
		listing: &Listing{Links: make(map[string]*Entry)},
		seen:    make(map[string]bool),
	}
	if err := l.scan(ctx, st, "", true); err != nil {
		return nil, err
	}
	slog.Debug("adbfs: listing complete",
		"entries", len(st.listing.Entries),
		"links", len(st.listing.Links),
		"calls", st.calls,
	)
	return st.listing, nil
}

func (l *Lister) scan(ctx context.Context, st *scanState, dir string, root bool) error {
	raw, err := l.call(ctx, dir)
	st.calls++
	if err != nil {
		return err
	}

	currentDir := "/"
	if dir != "" {
		currentDir = CleanPath(dir)
	}
	skipping := st.isSkipped(currentDir)

	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()

		m := recordRe.FindStringSubmatch(line)
		if m == nil {
			if h := headerRe.FindStringSubmatch(line); h != nil {
				currentDir = CleanPath(h[1])
				skipping = st.isSkipped(currentDir)
			}
			continue
		}
		if skipping {
			continue
		}

		e, err := parseRecord(m)
		if err != nil {
			return withLine(err, line)
		}
		if e.Name == "." || e.Name == ".." {
			continue
		}
		// Only top-level entries are system directories; /sdcard/proc is user data.
		if currentDir == "/" && l.skip[baseNameOf(e.Name)] {
			if types.TypeOf(e.Perms) == types.TypeDir {
				st.skipped = append(st.skipped, path.Join(currentDir, e.Name))
			}
			slog.Debug("adbfs: skipping system entry", "dir", currentDir, "name", e.Name)
			continue
		}
		if err := e.Update(currentDir); err != nil {
			return withLine(err, line)
		}
		if st.seen[e.Filepath] {
			continue
		}
		st.seen[e.Filepath] = true

		st.listing.Entries = append(st.listing.Entries, e)
		if e.IsSymlink() {
			st.listing.Links[e.Filepath] = e
		}

		if root && l.cfg.Rescan && e.IsDir() && !st.isScanned(e.Filepath) {
			st.scanned = append(st.scanned, e.Filepath)
			if err := l.scan(ctx, st, e.Filepath, false); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return &types.TransportError{Op: "list", Path: currentDir, Err: err}
	}
	return nil
}

// call issues one bounded listing request.
func (l *Lister) call(ctx context.Context, dir string) (string, error) {
	if l.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.cfg.Timeout)
		defer cancel()
	}

	slog.Debug("adbfs: listing", "dir", dir)
	raw, err := l.transport.ListDirectory(ctx, dir)
	if err == nil {
		return raw, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", &types.TransportError{Op: "list", Path: dir, Err: types.ErrTimeout}
	}
	var te *types.TransportError
	if errors.As(err, &te) {
		return "", err
	}
	return "", &types.TransportError{Op: "list", Path: dir, Err: err}
}

// parseRecord builds an Entry from a recordRe match.
func parseRecord(m []string) (*Entry, error) {
	links, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, &types.ParseError{Field: "links", Value: m[2], Err: err}
	}
	uid, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, &types.ParseError{Field: "uid", Value: m[3], Err: err}
	}
	gid, err := strconv.Atoi(m[4])
	if err != nil {
		return nil, &types.ParseError{Field: "gid", Value: m[4], Err: err}
	}
	size, err := strconv.ParseInt(m[5], 10, 64)
	if err != nil {
		return nil, &types.ParseError{Field: "size", Value: m[5], Err: err}
	}
	return &Entry{
		Perms:    m[1],
		Links:    links,
		UID:      uid,
		GID:      gid,
		Size:     size,
		DateTime: m[6],
		Name:     m[7],
	}, nil
}

// baseNameOf strips a raw " -> target" suffix so skip matching sees the
// link's own name.
func baseNameOf(name string) string {
	if before, _, ok := strings.Cut(name, " -> "); ok {
		return before
	}
	return name
}

func withLine(err error, line string) error {
	var pe *types.ParseError
	if errors.As(err, &pe) && pe.Line == "" {
		pe.Line = line
	}
	return err
}
