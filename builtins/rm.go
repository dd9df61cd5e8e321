package builtins

import (
	"context"
	"io"

	"github.com/jackfish212/adbfs/mounts"
)

func builtinRm(env *Env) ExecFunc {
	return func(ctx context.Context, args []string) (io.ReadCloser, error) {
		target := devicePath(args[1])
		if err := mutate(ctx, env, "rm", target, []string{"shell", "rm " + mounts.ShellQuote(target)}); err != nil {
			return nil, err
		}
		return empty(), nil
	}
}
