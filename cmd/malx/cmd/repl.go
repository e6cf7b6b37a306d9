package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-mal/mal/pkg/mal"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Start an interactive session: each line typed at the prompt is read,
evaluated and printed in turn. The session ends at EOF (Ctrl-D).`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// runRepl drives a prompt/read/eval/print loop over stdin using a plain
// bufio.Scanner; history and line-editing are left to the caller's shell,
// since the line editor is an external collaborator the core does not
// provide.
func runRepl(_ *cobra.Command, _ []string) error {
	return replLoop(os.Stdin, os.Stdout)
}

func replLoop(in io.Reader, out io.Writer) error {
	env := mal.NewRootEnv()
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "user> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "[evaluating %s]\n", line)
		}
		fmt.Fprintln(out, mal.Rep(line, env))
	}
}
