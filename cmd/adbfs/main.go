// adbfs is an external filesystem helper that lets a file manager browse an
// Android device over adb.
//
// Usage:
//
//	adbfs list    <archive>
//	adbfs copyout <archive> <src> <dst>
//	adbfs copyin  <archive> <dst> <src>
//	adbfs rm      <archive> <path>
//	adbfs mkdir   <archive> <path>
//	adbfs rmdir   <archive> <path>
//	adbfs run     <archive> <path> [args...]
//	adbfs --version
//
// Configuration comes from ADBFS_* environment variables and an optional
// dotenv file (ADBFS_ENV_FILE). Exit status is 0 on success, 1 when the
// device operation failed and 2 for a malformed invocation.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jackfish212/adbfs"
	"github.com/jackfish212/adbfs/builtins"
	"github.com/jackfish212/adbfs/mounts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	diag := newDiagnostics(stderr)

	level := new(slog.LevelVar)
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := adbfs.LoadConfig()
	if err != nil {
		diag.Error("%v", err)
		return exitCode(err)
	}
	if cfg.Debug {
		level.Set(slog.LevelDebug)
		slog.Debug("adbfs: invoked", "argv", args)
	}

	transport := mounts.NewADBTransport(mounts.ADBOptions{
		Binary:       cfg.ADB,
		Serial:       cfg.Serial,
		LsCommand:    cfg.LsCommand,
		AllowPartial: cfg.AllowPartial,
	})
	env := &builtins.Env{Transport: transport, Config: cfg}

	if err := execute(ctx, newRootCmd(env, stdout, stderr), args); err != nil {
		if errors.Is(err, adbfs.ErrInvocation) {
			diag.Usage("%v", err)
		} else {
			diag.Error("%v", err)
		}
		return exitCode(err)
	}
	return 0
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, adbfs.ErrInvocation):
		return 2
	default:
		return 1
	}
}
