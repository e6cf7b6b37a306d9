package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	malerrors "github.com/go-mal/mal/internal/errors"
	"github.com/go-mal/mal/internal/types"
	"github.com/go-mal/mal/pkg/mal"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file] [args...]",
	Short: "Run a mal file or an inline expression",
	Long: `Execute a mal program from a file or from an inline expression.

Examples:
  # Run a script file
  malx run script.mal

  # Evaluate an inline expression
  malx run -e "(+ 1 2)"

  # Run a script with arguments available under *ARGV*
  malx run script.mal foo bar`,
	Args: cobra.ArbitraryArgs,
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func runScript(_ *cobra.Command, args []string) error {
	env := mal.NewRootEnv()

	if evalExpr != "" {
		argv := make([]types.Value, len(args))
		for i, a := range args {
			argv[i] = types.String{Value: a}
		}
		env.Set("*ARGV*", &types.List{Items: argv})

		if verbose {
			fmt.Fprintf(os.Stderr, "[evaluating inline expression]\n")
		}
		result := mal.Rep(evalExpr, env)
		fmt.Println(result)
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("either provide a file path or use -e flag for inline code")
	}

	path := args[0]
	argv := make([]types.Value, len(args)-1)
	for i, a := range args[1:] {
		argv[i] = types.String{Value: a}
	}
	env.Set("*ARGV*", &types.List{Items: argv})

	if _, err := os.Stat(path); err != nil {
		return malerrors.NewCLIError("run", path, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "[loading %s]\n", path)
	}

	loadForm := fmt.Sprintf("(load-file %s)", quoteString(path))
	mal.Rep(loadForm, env)
	return nil
}

// quoteString produces a mal string literal for path, escaping backslashes
// and double quotes so the constructed (load-file "...") form parses back
// to the original path on any platform's file separator.
func quoteString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	out = append(out, '"')
	return string(out)
}
