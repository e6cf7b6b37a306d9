// Package eval implements the mal evaluator: a trampoline that expands
// macros, dispatches special forms, evaluates sub-expressions and applies
// functions with tail-call elimination, per spec section 4.4.
package eval

import (
	"github.com/go-mal/mal/internal/printer"
	"github.com/go-mal/mal/internal/types"
)

// Eval evaluates ast in env. It is structured as a loop that mutates its
// local ast/env variables to realize tail calls in let*, do, if,
// quasiquote and interpreted-closure application without growing the Go
// call stack.
func Eval(ast types.Value, env *types.Environment) types.Value {
	for {
		list, isList := ast.(*types.List)
		if !isList {
			return evalAST(ast, env)
		}

		expanded, err := macroExpand(ast, env)
		if err != nil {
			return err
		}
		ast = expanded
		list, isList = ast.(*types.List)
		if !isList {
			return evalAST(ast, env)
		}
		if len(list.Items) == 0 {
			return ast
		}

		if sym, ok := list.Items[0].(types.Symbol); ok {
			switch sym.Value {
			case "def!":
				return evalDef(list, env, false)
			case "defmacro!":
				return evalDef(list, env, true)
			case "macroexpand":
				if len(list.Items) < 2 {
					return types.NewError("macroexpand requires 1 argument")
				}
				expanded, err := macroExpand(list.Items[1], env)
				if err != nil {
					return err
				}
				return expanded
			case "let*":
				newAst, newEnv, errv := evalLetStar(list, env)
				if errv != nil {
					return errv
				}
				ast, env = newAst, newEnv
				continue
			case "do":
				newAst, errv := evalDo(list, env)
				if errv != nil {
					return errv
				}
				ast = newAst
				continue
			case "if":
				newAst, done, result := evalIf(list, env)
				if done {
					return result
				}
				ast = newAst
				continue
			case "fn*":
				return evalFnStar(list, env)
			case "quote":
				if len(list.Items) < 2 {
					return types.NilValue
				}
				return list.Items[1]
			case "quasiquote":
				if len(list.Items) < 2 {
					return types.NilValue
				}
				ast = quasiquote(list.Items[1])
				continue
			case "eval":
				if len(list.Items) < 2 {
					return types.NilValue
				}
				y := Eval(list.Items[1], env)
				if _, isErr := y.(*types.Error); isErr {
					return y
				}
				ast, env = y, env.GetRoot()
				continue
			}
		}

		evalResult := evalAST(list, env)
		evaluated, ok := evalResult.(*types.List)
		if !ok {
			return evalResult
		}
		f := evaluated.Items[0]
		args := evaluated.Items[1:]

		if errv, ok := f.(*types.Error); ok {
			return errv
		}

		switch fn := f.(type) {
		case *types.Function:
			return fn.Fn(args)
		case *types.TCOFunction:
			inner := types.NewEnclosedEnvironment(fn.Env)
			if errv := inner.BindExprs(fn.Params, args); errv != nil {
				return errv
			}
			ast, env = fn.Body, inner
			continue
		default:
			return types.NewError("%s not found.", printer.PrStr(f, true))
		}
	}
}

// Apply invokes f (a Function or TCOFunction) with args, fully evaluating
// any interpreted-closure body. This is the entry point built-ins such as
// apply, map and swap! use to call an arbitrary callable Value outside of
// Eval's own trampoline.
func Apply(f types.Value, args []types.Value) types.Value {
	switch fn := f.(type) {
	case *types.Function:
		return fn.Fn(args)
	case *types.TCOFunction:
		inner := types.NewEnclosedEnvironment(fn.Env)
		if errv := inner.BindExprs(fn.Params, args); errv != nil {
			return errv
		}
		return Eval(fn.Body, inner)
	case *types.Error:
		return fn
	default:
		return types.NewError("%s not found.", printer.PrStr(f, true))
	}
}

// evalAST distributes evaluation over non-self-evaluating structures, per
// spec section 4.4.
func evalAST(ast types.Value, env *types.Environment) types.Value {
	switch x := ast.(type) {
	case types.Symbol:
		return env.Get(x.Value)
	case *types.List:
		items, errv := evalItems(x.Items, env)
		if errv != nil {
			return errv
		}
		return &types.List{Items: items}
	case *types.Vector:
		items, errv := evalItems(x.Items, env)
		if errv != nil {
			return errv
		}
		return &types.Vector{Items: items}
	case *types.Map:
		items := make([]types.Value, len(x.Items))
		for i, item := range x.Items {
			if i%2 == 0 {
				items[i] = item
				continue
			}
			v := Eval(item, env)
			if errv, ok := v.(*types.Error); ok {
				return errv
			}
			items[i] = v
		}
		return &types.Map{Items: items}
	default:
		return ast
	}
}

func evalItems(items []types.Value, env *types.Environment) ([]types.Value, *types.Error) {
	out := make([]types.Value, len(items))
	for i, item := range items {
		v := Eval(item, env)
		if errv, ok := v.(*types.Error); ok {
			return nil, errv
		}
		out[i] = v
	}
	return out, nil
}

func evalDef(list *types.List, env *types.Environment, macro bool) types.Value {
	if len(list.Items) < 3 {
		return types.NewError("def!/defmacro! requires a symbol and an expression")
	}
	sym, ok := list.Items[1].(types.Symbol)
	if !ok {
		return types.NewError("def!/defmacro! first argument must be a symbol")
	}
	v := Eval(list.Items[2], env)
	if errv, ok := v.(*types.Error); ok {
		return errv
	}
	if macro {
		switch fn := v.(type) {
		case *types.Function:
			fn.IsMacro = true
		case *types.TCOFunction:
			fn.IsMacro = true
		}
	}
	env.Set(sym.Value, v)
	return v
}

// evalLetStar builds the inner environment for a let* form, evaluating each
// binding expression in the growing scope, and returns the body expression
// (for the caller to continue the trampoline on) together with that scope.
// An error during a binding expression aborts the let* and is returned as
// the third value.
func evalLetStar(list *types.List, env *types.Environment) (types.Value, *types.Environment, types.Value) {
	if len(list.Items) < 3 {
		return nil, nil, types.NewError("let* requires a bindings list and a body")
	}
	bindPairs, ok := types.Seq(list.Items[1])
	if !ok {
		return nil, nil, types.NewError("let* bindings must be a list or vector")
	}
	if len(bindPairs)%2 != 0 {
		return nil, nil, types.NewError("let* bindings must have an even number of forms")
	}
	inner := types.NewEnclosedEnvironment(env)
	for i := 0; i+1 < len(bindPairs); i += 2 {
		sym, ok := bindPairs[i].(types.Symbol)
		if !ok {
			return nil, nil, types.NewError("let* binding names must be symbols")
		}
		v := Eval(bindPairs[i+1], inner)
		if errv, ok := v.(*types.Error); ok {
			return nil, nil, errv
		}
		inner.Set(sym.Value, v)
	}
	return list.Items[2], inner, nil
}
