package builtins

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackfish212/adbfs"
	"github.com/jackfish212/adbfs/types"
)

func empty() io.ReadCloser {
	return io.NopCloser(strings.NewReader(""))
}

// devicePath turns an archive-relative path into an absolute device path.
func devicePath(p string) string {
	return adbfs.CleanPath(p)
}

// mutate runs one mutating adb command. Error output or a non-zero exit
// status is a *types.MutationError; failing to reach the device is a
// *types.TransportError.
func mutate(ctx context.Context, env *Env, op, target string, argv []string) error {
	if env.Config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, env.Config.Timeout)
		defer cancel()
	}

	slog.Debug("builtins: "+op, "path", target, "argv", argv)
	code, stderr, err := env.Transport.RunCommand(ctx, argv)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return &types.TransportError{Op: op, Path: target, Err: types.ErrTimeout}
		}
		var te *types.TransportError
		if errors.As(err, &te) {
			return err
		}
		return &types.TransportError{Op: op, Path: target, Err: err}
	}
	if strings.TrimSpace(stderr) != "" || code != 0 {
		if strings.TrimSpace(stderr) == "" {
			stderr = "exit status " + strconv.Itoa(code)
		}
		return &types.MutationError{Op: op, Path: target, Stderr: stderr}
	}
	return nil
}
