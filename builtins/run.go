package builtins

import (
	"context"
	"fmt"
	"io"

	"github.com/jackfish212/adbfs/types"
)

// builtinRun always fails: executing device files is not offered.
func builtinRun(_ *Env) ExecFunc {
	return func(ctx context.Context, args []string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("run %s: %w", args[1], types.ErrNotSupported)
	}
}
