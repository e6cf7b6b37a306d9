// Package mal is the public facade wiring the reader, evaluator and printer
// into the two entry points described by spec section 6: NewRootEnv builds
// a namespace-initialized environment, and Rep reads, evaluates and prints
// a single source form against it.
package mal

import (
	"github.com/go-mal/mal/internal/builtins"
	"github.com/go-mal/mal/internal/eval"
	"github.com/go-mal/mal/internal/printer"
	"github.com/go-mal/mal/internal/reader"
	"github.com/go-mal/mal/internal/types"
)

// HostLanguage is bound to *host-language* in every root environment,
// identifying this implementation to scripts that inspect it (e.g. for
// conditional behavior in a shared test suite).
const HostLanguage = "go"

// NewRootEnv builds a fresh root environment: the built-in namespace
// installed, *ARGV* set to an empty list, *host-language* set to
// HostLanguage, and the bootstrapped forms (not, load-file, cond, or)
// evaluated in it.
func NewRootEnv() *types.Environment {
	env := types.NewEnvironment()
	for name, v := range builtins.NewNamespace(eval.Apply) {
		env.Set(name, v)
	}
	env.Set("*ARGV*", types.NewList())
	env.Set("*host-language*", types.String{Value: HostLanguage})
	for _, form := range builtins.BootstrapForms {
		v, err := reader.ReadStr(form)
		if err != nil {
			panic("mal: malformed bootstrap form: " + err.Error())
		}
		if result := eval.Eval(v, env); isErrorValue(result) {
			panic("mal: bootstrap form failed to evaluate: " + printer.PrStr(result, true))
		}
	}
	return env
}

// Rep reads a single form from source, evaluates it in env, and returns its
// printed (readable) representation. A reader, evaluator or printer error
// is itself rendered as text, since mal has no out-of-band error channel.
func Rep(source string, env *types.Environment) string {
	form, err := reader.ReadStr(source)
	if err != nil {
		return err.Error()
	}
	result := eval.Eval(form, env)
	return printer.PrStr(result, true)
}

func isErrorValue(v types.Value) bool {
	_, ok := v.(*types.Error)
	return ok
}
