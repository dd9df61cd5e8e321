package builtins

import (
	"context"
	"io"
)

// builtinCopyout pulls device file src to host path dst.
//
//	copyout <archive> <src> <dst>
func builtinCopyout(env *Env) ExecFunc {
	return func(ctx context.Context, args []string) (io.ReadCloser, error) {
		src, dst := devicePath(args[1]), args[2]
		if err := mutate(ctx, env, "copyout", src, []string{"pull", src, dst}); err != nil {
			return nil, err
		}
		return empty(), nil
	}
}

// builtinCopyin pushes host file src to device path dst. The destination
// comes first, unlike copyout.
//
//	copyin <archive> <dst> <src>
func builtinCopyin(env *Env) ExecFunc {
	return func(ctx context.Context, args []string) (io.ReadCloser, error) {
		dst, src := devicePath(args[1]), args[2]
		if err := mutate(ctx, env, "copyin", dst, []string{"push", src, dst}); err != nil {
			return nil, err
		}
		return empty(), nil
	}
}
