package eval

import "github.com/go-mal/mal/internal/types"

// evalDo evaluates all but the last expression with Eval, in order (discarding
// results but keeping their side effects in order), and returns the last
// expression unevaluated for the caller to continue the trampoline on.
func evalDo(list *types.List, env *types.Environment) (types.Value, types.Value) {
	body := list.Items[1:]
	if len(body) == 0 {
		return types.NilValue, nil
	}
	for _, e := range body[:len(body)-1] {
		v := Eval(e, env)
		if errv, ok := v.(*types.Error); ok {
			return nil, errv
		}
	}
	return body[len(body)-1], nil
}

// evalIf evaluates the condition and decides which branch becomes the next
// ast for the trampoline to continue on. done is true when the result
// should be returned directly (condition errored, or the else branch was
// omitted).
func evalIf(list *types.List, env *types.Environment) (next types.Value, done bool, result types.Value) {
	if len(list.Items) < 3 {
		return nil, true, types.NewError("if requires a condition and a then-branch")
	}
	cond := Eval(list.Items[1], env)
	if errv, ok := cond.(*types.Error); ok {
		return nil, true, errv
	}
	if types.IsTruthy(cond) {
		return list.Items[2], false, nil
	}
	if len(list.Items) >= 4 {
		return list.Items[3], false, nil
	}
	return nil, true, types.NilValue
}

// evalFnStar constructs a TCOFunction capturing binds, body and a reference
// to the current environment.
func evalFnStar(list *types.List, env *types.Environment) types.Value {
	if len(list.Items) < 3 {
		return types.NewError("fn* requires a parameter list and a body")
	}
	binds, ok := types.Seq(list.Items[1])
	if !ok {
		return types.NewError("fn* parameter list must be a list or vector")
	}
	return &types.TCOFunction{
		Params: binds,
		Body:   list.Items[2],
		Env:    env,
	}
}

// macroExpand expands ast to a fixpoint: while the head position names a
// symbol bound in env to a macro, apply that macro to the unevaluated
// argument list and replace ast with the result.
func macroExpand(ast types.Value, env *types.Environment) (types.Value, *types.Error) {
	for {
		fn, ok := types.IsMacroCall(ast, env)
		if !ok {
			return ast, nil
		}
		list := ast.(*types.List)
		args := list.Items[1:]
		result := Apply(fn, args)
		if errv, ok := result.(*types.Error); ok {
			return nil, errv
		}
		ast = result
	}
}

// quasiquote implements the pure AST->AST rewrite from spec section 4.4.
func quasiquote(ast types.Value) types.Value {
	if !types.IsPair(ast) {
		return types.NewList(types.Symbol{Value: "quote"}, ast)
	}
	items, _ := types.Seq(ast)
	head := items[0]
	if sym, ok := head.(types.Symbol); ok && sym.Value == "unquote" && len(items) >= 2 {
		return items[1]
	}
	if types.IsPair(head) {
		headItems, _ := types.Seq(head)
		if sym, ok := headItems[0].(types.Symbol); ok && sym.Value == "splice-unquote" && len(headItems) >= 2 {
			return types.NewList(
				types.Symbol{Value: "concat"},
				headItems[1],
				quasiquote(&types.List{Items: items[1:]}),
			)
		}
	}
	return types.NewList(
		types.Symbol{Value: "cons"},
		quasiquote(head),
		quasiquote(&types.List{Items: items[1:]}),
	)
}
