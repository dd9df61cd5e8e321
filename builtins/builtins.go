// Package builtins implements the extfs verbs adbfs answers to. Each verb is
// an ExecFunc registered under its name; cmd/adbfs maps command-line verbs
// onto the registry.
package builtins

import (
	"context"
	"fmt"
	"io"

	"github.com/jackfish212/adbfs"
	"github.com/jackfish212/adbfs/types"
)

// ExecFunc runs one verb. args holds the positional arguments after the verb,
// starting with the archive path. The returned reader is copied to stdout.
type ExecFunc func(ctx context.Context, args []string) (io.ReadCloser, error)

// VerbMeta describes a verb's calling convention.
type VerbMeta struct {
	Description string
	Usage       string
	Args        int  // positional arguments including the archive path
	Variadic    bool // accepts more than Args
}

// Verb is a registered extfs verb.
type Verb struct {
	Name string
	Meta VerbMeta
	Exec ExecFunc
}

// Env is what every verb runs against.
type Env struct {
	Transport types.Transport
	Config    adbfs.Config
}

// Registry holds verbs in registration order.
type Registry struct {
	verbs map[string]*Verb
	order []string
}

func NewRegistry() *Registry {
	return &Registry{verbs: make(map[string]*Verb)}
}

// Add registers fn under name, replacing any earlier verb of that name.
func (r *Registry) Add(name string, fn ExecFunc, meta VerbMeta) {
	if _, ok := r.verbs[name]; !ok {
		r.order = append(r.order, name)
	}
	r.verbs[name] = &Verb{Name: name, Meta: meta, Exec: fn}
}

// Lookup returns the verb registered under name.
func (r *Registry) Lookup(name string) (*Verb, bool) {
	v, ok := r.verbs[name]
	return v, ok
}

// Verbs returns every verb in registration order.
func (r *Registry) Verbs() []*Verb {
	out := make([]*Verb, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.verbs[name])
	}
	return out
}

// Run checks the arity of args and runs the named verb. A missing verb or a
// wrong argument count is an ErrInvocation.
func (r *Registry) Run(ctx context.Context, name string, args []string) (io.ReadCloser, error) {
	v, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", types.ErrInvocation, name)
	}
	if len(args) < v.Meta.Args || (!v.Meta.Variadic && len(args) > v.Meta.Args) {
		return nil, fmt.Errorf("%w: usage: %s", types.ErrInvocation, v.Meta.Usage)
	}
	return v.Exec(ctx, args)
}

// RegisterBuiltins adds the standard extfs verbs to r.
func RegisterBuiltins(r *Registry, env *Env) {
	r.Add("list", builtinList(env), VerbMeta{
		Description: "List the whole device filesystem",
		Usage:       "list <archive>",
		Args:        1,
	})
	r.Add("copyout", builtinCopyout(env), VerbMeta{
		Description: "Copy a device file to the host",
		Usage:       "copyout <archive> <src> <dst>",
		Args:        3,
	})
	r.Add("copyin", builtinCopyin(env), VerbMeta{
		Description: "Copy a host file onto the device",
		Usage:       "copyin <archive> <dst> <src>",
		Args:        3,
	})
	r.Add("rm", builtinRm(env), VerbMeta{
		Description: "Remove a device file",
		Usage:       "rm <archive> <path>",
		Args:        2,
	})
	r.Add("mkdir", builtinMkdir(env), VerbMeta{
		Description: "Create a device directory",
		Usage:       "mkdir <archive> <path>",
		Args:        2,
	})
	r.Add("rmdir", builtinRmdir(env), VerbMeta{
		Description: "Remove an empty device directory",
		Usage:       "rmdir <archive> <path>",
		Args:        2,
	})
	r.Add("run", builtinRun(env), VerbMeta{
		Description: "Run a device file (unsupported)",
		Usage:       "run <archive> <path> [args...]",
		Args:        2,
		Variadic:    true,
	})
}
