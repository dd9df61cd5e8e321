package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvocation     = errors.New("adbfs: invalid invocation")
	ErrTransport      = errors.New("adbfs: transport failure")
	ErrMutation       = errors.New("adbfs: device command failed")
	ErrParse          = errors.New("adbfs: malformed listing record")
	ErrLinkCycle      = errors.New("adbfs: symlink cycle")
	ErrUnresolvedLink = errors.New("adbfs: unresolved symlink")
	ErrNotSupported   = errors.New("adbfs: operation not supported")
	ErrTimeout        = errors.New("adbfs: transport call timed out")
)

// TransportError is returned when a call through the device transport fails
// or the device reports a non-zero exit status.
type TransportError struct {
	Op       string
	Path     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "transport %s", e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	b.WriteString(" failed")
	if e.ExitCode != 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		fmt.Fprintf(&b, ": %s", msg)
	} else if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTransport, e.Err}
	}
	return []error{ErrTransport}
}

// MutationError is returned when push, pull, rm, mkdir or rmdir produced
// error output.
type MutationError struct {
	Op     string
	Path   string
	Stderr string
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, strings.TrimSpace(e.Stderr))
}

func (e *MutationError) Unwrap() error { return ErrMutation }

// ParseError is returned when a listing record has an invalid date or number.
type ParseError struct {
	Line  string
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse %s %q", e.Field, e.Value)
	if e.Line != "" {
		msg += fmt.Sprintf(" in %q", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return ErrParse }

// CycleError is returned when following a symlink chain revisits a link.
type CycleError struct {
	Start string
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("symlink cycle at %s: %s", e.Start, strings.Join(e.Chain, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrLinkCycle }
