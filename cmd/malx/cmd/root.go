package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "malx",
	Short: "A mal (Make-a-Lisp) interpreter",
	Long: `malx is a Go implementation of mal, a small Lisp dialect built around
a tagged-union value model, a lexically-scoped environment, and a
trampoline-based evaluator with tail-call elimination, macros and
quasiquote.

Run with no arguments to start an interactive REPL, or pass "run" with a
file path or "-e" for an inline expression.`,
	Version: Version,
	RunE:    runRepl,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
