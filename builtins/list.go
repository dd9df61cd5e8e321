package builtins

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/jackfish212/adbfs"
	"github.com/jackfish212/adbfs/mounts"
	"github.com/jackfish212/adbfs/types"
)

// builtinList scans the device, normalizes its symlinks and renders the
// table. Nothing is written unless the whole listing succeeded.
func builtinList(env *Env) ExecFunc {
	return func(ctx context.Context, args []string) (io.ReadCloser, error) {
		listing, err := adbfs.NewLister(env.Transport, env.Config).List(ctx)
		if err != nil {
			return nil, err
		}
		if err := adbfs.Normalize(listing); err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := adbfs.WriteListing(&buf, listing.Entries); err != nil {
			return nil, err
		}

		if env.Config.Snapshot != "" {
			if err := saveSnapshot(ctx, env.Config.Snapshot, listing.Entries); err != nil {
				slog.Warn("builtins: snapshot not saved", "path", env.Config.Snapshot, "error", err)
			}
		}
		return io.NopCloser(&buf), nil
	}
}

func saveSnapshot(ctx context.Context, dbPath string, entries []*types.Entry) error {
	snap, err := mounts.NewSQLiteSnapshot(dbPath)
	if err != nil {
		return err
	}
	defer snap.Close()
	return snap.Save(ctx, entries)
}
