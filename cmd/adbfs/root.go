package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jackfish212/adbfs"
	"github.com/jackfish212/adbfs/builtins"
)

// newRootCmd builds the command tree from the verb registry. Verb output
// goes to stdout; cobra's own messages never do.
func newRootCmd(env *builtins.Env, stdout, stderr io.Writer) *cobra.Command {
	reg := builtins.NewRegistry()
	builtins.RegisterBuiltins(reg, env)

	var showVersion bool
	root := &cobra.Command{
		Use:           "adbfs",
		Short:         "Browse an Android device as an external filesystem",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unknown command %q", adbfs.ErrInvocation, args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, err := fmt.Fprintln(stdout, adbfs.GetVersionInfo())
				return err
			}
			return fmt.Errorf("%w: missing command", adbfs.ErrInvocation)
		},
	}
	root.Flags().BoolVar(&showVersion, "version", false, "Show version and exit")
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stderr)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", adbfs.ErrInvocation, err)
	})

	root.SetHelpCommand(&cobra.Command{
		Use:                "help",
		Hidden:             true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errHelp
		},
	})

	for _, verb := range reg.Verbs() {
		root.AddCommand(verbCmd(reg, verb, stdout))
	}
	return root
}

// errHelp rejects help requests; the file manager never asks for help, so
// one reaching us is a malformed invocation.
var errHelp = fmt.Errorf("%w: unknown command %q", adbfs.ErrInvocation, "help")

// execute runs root with args. cobra answers --help and -h itself and
// reports success; that is turned into errHelp.
func execute(ctx context.Context, root *cobra.Command, args []string) error {
	var helpAsked bool
	root.SetHelpFunc(func(*cobra.Command, []string) { helpAsked = true })
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return err
	}
	if helpAsked {
		return errHelp
	}
	return nil
}

func verbCmd(reg *builtins.Registry, verb *builtins.Verb, stdout io.Writer) *cobra.Command {
	validate := cobra.ExactArgs(verb.Meta.Args)
	if verb.Meta.Variadic {
		validate = cobra.MinimumNArgs(verb.Meta.Args)
	}
	name := verb.Name
	return &cobra.Command{
		Use:   verb.Meta.Usage,
		Short: verb.Meta.Description,
		// Archive paths are passed through untouched, including ones that
		// look like flags.
		DisableFlagParsing: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := validate(cmd, args); err != nil {
				return fmt.Errorf("%w: %s: %v", adbfs.ErrInvocation, name, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := reg.Run(cmd.Context(), name, args)
			if err != nil {
				return err
			}
			defer out.Close()
			_, err = io.Copy(stdout, out)
			return err
		},
	}
}
