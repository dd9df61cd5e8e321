package adbfs

import (
	"log/slog"
	"path"
	"strings"

	"github.com/jackfish212/adbfs/types"
)

// Normalize resolves every symlink registered in l.Links to the entry at
// the end of its chain and rewrites its target relative to the link's own
// directory. Links whose chain ends outside the table are removed from
// l.Entries. A chain that revisits a link fails with a *types.CycleError
// and leaves the listing untouched.
//
// On success l.Links is emptied, so calling Normalize again is a no-op.
func Normalize(l *Listing) error {
	if len(l.Links) == 0 {
		return nil
	}

	index := make(map[string]int, len(l.Entries))
	for i, e := range l.Entries {
		if _, ok := index[e.Filepath]; !ok {
			index[e.Filepath] = i
		}
	}

	// Resolve everything against the original absolute targets before
	// rewriting any of them.
	resolved := make(map[int]string)
	var drop []int
	for i, e := range l.Entries {
		if !e.IsSymlink() || l.Links[e.Filepath] != e {
			continue
		}
		final, err := resolveChain(l.Links, e)
		if err != nil {
			return err
		}
		if j, ok := index[final]; ok {
			resolved[i] = l.Entries[j].Filepath
			continue
		}
		slog.Debug("adbfs: dropping link", "path", e.Filepath, "target", e.LinkTarget, "final", final, "reason", types.ErrUnresolvedLink)
		drop = append(drop, i)
	}

	for i, target := range resolved {
		e := l.Entries[i]
		e.LinkTarget = target
		e.MakeLinkRelative()
	}

	for k := len(drop) - 1; k >= 0; k-- {
		i := drop[k]
		l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
	}

	clear(l.Links)
	return nil
}

// resolveChain follows e through links until it reaches a path that is not
// itself a registered link.
func resolveChain(links map[string]*Entry, e *Entry) (string, error) {
	visited := map[string]bool{e.Filepath: true}
	chain := []string{e.Filepath}

	target := e.LinkTarget
	for {
		next, ok := links[target]
		if !ok {
			return target, nil
		}
		chain = append(chain, target)
		if visited[target] {
			return "", &types.CycleError{Start: e.Filepath, Chain: chain}
		}
		visited[target] = true

		target = next.LinkTarget
		if !strings.HasPrefix(target, "/") {
			target = path.Join(next.Dirname, target)
		}
	}
}
