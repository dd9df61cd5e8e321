// Package types defines the core types shared by the adbfs listing engine,
// its transports and the extfs verbs.
package types

import "context"

// Transport is the capability every device connection implements.
//
// ListDirectory returns the recursive "ls" text for dir ("" or "/" for a
// scan of the whole device), with LF line endings and the per-directory
// "total" lines removed. RunCommand runs one device-bridge command and
// returns its exit code and captured error output; err is reserved for
// failures to run the command at all.
type Transport interface {
	ListDirectory(ctx context.Context, dir string) (string, error)
	RunCommand(ctx context.Context, argv []string) (exitCode int, stderr string, err error)
}
