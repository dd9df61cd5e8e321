package builtins

import (
	"context"
	"io"

	"github.com/jackfish212/adbfs/mounts"
)

// builtinRmdir only removes empty directories; the device's rmdir reports
// anything else on stderr.
func builtinRmdir(env *Env) ExecFunc {
	return func(ctx context.Context, args []string) (io.ReadCloser, error) {
		target := devicePath(args[1])
		if err := mutate(ctx, env, "rmdir", target, []string{"shell", "rmdir " + mounts.ShellQuote(target)}); err != nil {
			return nil, err
		}
		return empty(), nil
	}
}
