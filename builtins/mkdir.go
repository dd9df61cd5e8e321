package builtins

import (
	"context"
	"io"

	"github.com/jackfish212/adbfs/mounts"
)

func builtinMkdir(env *Env) ExecFunc {
	return func(ctx context.Context, args []string) (io.ReadCloser, error) {
		target := devicePath(args[1])
		if err := mutate(ctx, env, "mkdir", target, []string{"shell", "mkdir " + mounts.ShellQuote(target)}); err != nil {
			return nil, err
		}
		return empty(), nil
	}
}
