// Package builtins implements the mal built-in namespace: arithmetic,
// comparisons, list/vector/map operations, printing, I/O, atoms, and a
// handful of type predicates and associative helpers.
//
// NewNamespace takes an `apply` callback rather than importing the eval
// package directly, so that this package has no dependency on the
// evaluator; pkg/mal passes eval.Apply in when it builds the root
// environment.
package builtins

import (
	"fmt"
	"os"
	"time"

	"github.com/go-mal/mal/internal/printer"
	"github.com/go-mal/mal/internal/reader"
	"github.com/go-mal/mal/internal/types"
)

// Apply is the shape of the callback used to invoke an arbitrary callable
// Value (built-in or interpreted closure) from within a built-in.
type Apply func(f types.Value, args []types.Value) types.Value

// NewNamespace builds the root-level built-in bindings. apply is used by
// apply, map and swap! to call a Value as a function.
func NewNamespace(apply Apply) map[string]types.Value {
	ns := map[string]types.Value{}
	fn := func(name string, f func(args []types.Value) types.Value) {
		ns[name] = &types.Function{Name: name, Fn: f}
	}

	registerArithmetic(fn)
	registerComparisons(fn)
	registerPrinting(fn)
	registerSeqOps(fn, apply)
	registerIO(fn)
	registerAtoms(fn, apply)
	registerPredicates(fn)
	registerAssoc(fn)
	registerMeta(fn)

	fn("time-ms", func(args []types.Value) types.Value {
		return types.Int{Value: time.Now().UnixMilli()}
	})

	return ns
}

// BootstrapForms are mal source forms evaluated in the root environment at
// startup, after NewNamespace's Go-level built-ins are installed: two
// bootstrapped definitions (not, load-file) and two bootstrapped macros
// (cond, or), verbatim from spec section 4.5.
var BootstrapForms = []string{
	`(def! not (fn* (a) (if a false true)))`,
	`(def! load-file (fn* (f) (eval (read-string (str "(do " (slurp f) ")")))))`,
	"(defmacro! cond (fn* (& xs) (if (> (count xs) 0) (list 'if (first xs) (if (> (count xs) 1) (nth xs 1) (throw \"odd number of forms to cond\")) (cons 'cond (rest (rest xs)))))))",
	"(defmacro! or (fn* (& xs) (if (empty? xs) nil (if (= 1 (count xs)) (first xs) `(let* (or_FIXME ~(first xs)) (if or_FIXME or_FIXME (or ~@(rest xs))))))))",
}

func wrongType(name string) *types.Error {
	return types.NewError("Wrong types for %s", name)
}

func arityError(name string, n int) *types.Error {
	plural := "s"
	if n == 1 {
		plural = ""
	}
	return types.NewError("%s takes exactly %d argument%s", name, n, plural)
}

func asNumbers(args []types.Value) (ints []int64, floats []float64, anyFloat bool, ok bool) {
	ints = make([]int64, len(args))
	floats = make([]float64, len(args))
	for i, a := range args {
		switch x := a.(type) {
		case types.Int:
			ints[i] = x.Value
			floats[i] = float64(x.Value)
		case types.Float:
			anyFloat = true
			floats[i] = x.Value
		default:
			return nil, nil, false, false
		}
	}
	return ints, floats, anyFloat, true
}

func registerArithmetic(fn func(string, func([]types.Value) types.Value)) {
	fn("+", func(args []types.Value) types.Value {
		return arith(args, "+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	})
	fn("-", func(args []types.Value) types.Value {
		return arith(args, "-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	})
	fn("*", func(args []types.Value) types.Value {
		return arith(args, "*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	})
	fn("/", func(args []types.Value) types.Value {
		return divide(args)
	})
}

// arith implements left-to-right reduction for +, -, * with the usual
// single-argument-is-identity rule inherited from Lisp variadic arithmetic:
// (- x) negates, (+ x)/(* x) return x unchanged.
func arith(args []types.Value, name string, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) types.Value {
	if len(args) == 0 {
		return wrongType(name)
	}
	ints, floats, anyFloat, ok := asNumbers(args)
	if !ok {
		return wrongType(name)
	}
	if anyFloat {
		if len(floats) == 1 {
			if name == "-" {
				return types.Float{Value: -floats[0]}
			}
			return types.Float{Value: floats[0]}
		}
		result := floats[0]
		for _, f := range floats[1:] {
			result = floatOp(result, f)
		}
		return types.Float{Value: result}
	}
	if len(ints) == 1 {
		if name == "-" {
			return types.Int{Value: -ints[0]}
		}
		return types.Int{Value: ints[0]}
	}
	result := ints[0]
	for _, i := range ints[1:] {
		result = intOp(result, i)
	}
	return types.Int{Value: result}
}

func divide(args []types.Value) types.Value {
	if len(args) == 0 {
		return wrongType("/")
	}
	ints, floats, anyFloat, ok := asNumbers(args)
	if !ok {
		return wrongType("/")
	}
	if anyFloat {
		if len(floats) == 1 {
			return types.Float{Value: floats[0]}
		}
		result := floats[0]
		for _, f := range floats[1:] {
			result /= f
		}
		return types.Float{Value: result}
	}
	if len(ints) == 1 {
		return types.Int{Value: ints[0]}
	}
	result := ints[0]
	for _, i := range ints[1:] {
		if i == 0 {
			return types.NewError("division by zero")
		}
		result /= i
	}
	return types.Int{Value: result}
}

func registerComparisons(fn func(string, func([]types.Value) types.Value)) {
	cmp := func(name string, intCmp func(a, b int64) bool, floatCmp func(a, b float64) bool) {
		fn(name, func(args []types.Value) types.Value {
			if len(args) != 2 {
				return arityError(name, 2)
			}
			a, b := args[0], args[1]
			ai, aIsInt := a.(types.Int)
			bi, bIsInt := b.(types.Int)
			if aIsInt && bIsInt {
				return types.BoolOf(intCmp(ai.Value, bi.Value))
			}
			af, aok := numericFloat(a)
			bf, bok := numericFloat(b)
			if !aok || !bok {
				return wrongType(name)
			}
			return types.BoolOf(floatCmp(af, bf))
		})
	}
	cmp("<", func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b })
	cmp("<=", func(a, b int64) bool { return a <= b }, func(a, b float64) bool { return a <= b })
	cmp(">", func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b })
	cmp(">=", func(a, b int64) bool { return a >= b }, func(a, b float64) bool { return a >= b })

	fn("=", func(args []types.Value) types.Value {
		if len(args) != 2 {
			return arityError("=", 2)
		}
		return types.BoolOf(types.Equal(args[0], args[1]))
	})
}

func numericFloat(v types.Value) (float64, bool) {
	switch x := v.(type) {
	case types.Int:
		return float64(x.Value), true
	case types.Float:
		return x.Value, true
	}
	return 0, false
}

func registerPrinting(fn func(string, func([]types.Value) types.Value)) {
	join := func(args []types.Value, readable bool, sep string) string {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = printer.PrStr(a, readable)
		}
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += sep
			}
			out += p
		}
		return out
	}
	fn("prn", func(args []types.Value) types.Value {
		fmt.Println(join(args, true, " "))
		return types.NilValue
	})
	fn("println", func(args []types.Value) types.Value {
		fmt.Println(join(args, false, " "))
		return types.NilValue
	})
	fn("pr-str", func(args []types.Value) types.Value {
		return types.String{Value: join(args, true, " ")}
	})
	fn("str", func(args []types.Value) types.Value {
		return types.String{Value: join(args, false, "")}
	})
}

func registerSeqOps(fn func(string, func([]types.Value) types.Value), apply Apply) {
	fn("list", func(args []types.Value) types.Value {
		return &types.List{Items: append([]types.Value{}, args...)}
	})
	fn("list?", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("list?", 1)
		}
		_, ok := args[0].(*types.List)
		return types.BoolOf(ok)
	})
	fn("empty?", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("empty?", 1)
		}
		items, ok := types.Seq(args[0])
		if !ok {
			return wrongType("empty?")
		}
		return types.BoolOf(len(items) == 0)
	})
	fn("count", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("count", 1)
		}
		if _, ok := args[0].(types.Nil); ok {
			return types.Int{Value: 0}
		}
		items, ok := types.Seq(args[0])
		if !ok {
			return wrongType("count")
		}
		return types.Int{Value: int64(len(items))}
	})
	fn("cons", func(args []types.Value) types.Value {
		if len(args) != 2 {
			return arityError("cons", 2)
		}
		items, ok := types.Seq(args[1])
		if !ok {
			return types.NewError("cons 2nd argument must be a list")
		}
		out := make([]types.Value, 0, len(items)+1)
		out = append(out, args[0])
		out = append(out, items...)
		return &types.List{Items: out}
	})
	fn("concat", func(args []types.Value) types.Value {
		var out []types.Value
		for _, a := range args {
			items, ok := types.Seq(a)
			if !ok {
				return wrongType("concat")
			}
			out = append(out, items...)
		}
		return &types.List{Items: out}
	})
	fn("first", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("first", 1)
		}
		if _, ok := args[0].(types.Nil); ok {
			return types.NilValue
		}
		items, ok := types.Seq(args[0])
		if !ok || len(items) == 0 {
			return types.NilValue
		}
		return items[0]
	})
	fn("rest", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("rest", 1)
		}
		if _, ok := args[0].(types.Nil); ok {
			return types.NewList()
		}
		items, ok := types.Seq(args[0])
		if !ok {
			return types.NewList()
		}
		return &types.List{Items: types.Rest(items)}
	})
	fn("nth", func(args []types.Value) types.Value {
		if len(args) != 2 {
			return arityError("nth", 2)
		}
		items, ok := types.Seq(args[0])
		if !ok {
			return wrongType("nth")
		}
		idx, ok := args[1].(types.Int)
		if !ok {
			return wrongType("nth")
		}
		if idx.Value < 0 || int(idx.Value) >= len(items) {
			return types.NewError("nth: index is greater than length of list")
		}
		return items[idx.Value]
	})
	fn("apply", func(args []types.Value) types.Value {
		if len(args) < 1 {
			return types.NewError("apply takes at least 1 argument")
		}
		f := args[0]
		var callArgs []types.Value
		if len(args) > 2 {
			callArgs = append(callArgs, args[1:len(args)-1]...)
		}
		if len(args) >= 2 {
			last, ok := types.Seq(args[len(args)-1])
			if !ok {
				return types.NewError("apply last argument must be a list")
			}
			callArgs = append(callArgs, last...)
		}
		return apply(f, callArgs)
	})
	fn("map", func(args []types.Value) types.Value {
		if len(args) != 2 {
			return arityError("map", 2)
		}
		items, ok := types.Seq(args[1])
		if !ok {
			return wrongType("map")
		}
		out := make([]types.Value, len(items))
		for i, item := range items {
			v := apply(args[0], []types.Value{item})
			if errv, ok := v.(*types.Error); ok {
				return errv
			}
			out[i] = v
		}
		return &types.List{Items: out}
	})
	fn("conj", func(args []types.Value) types.Value {
		if len(args) < 1 {
			return types.NewError("conj takes at least 1 argument")
		}
		switch x := args[0].(type) {
		case *types.List:
			out := make([]types.Value, 0, len(x.Items)+len(args)-1)
			for i := len(args) - 1; i >= 1; i-- {
				out = append(out, args[i])
			}
			out = append(out, x.Items...)
			return &types.List{Items: out}
		case *types.Vector:
			out := append(append([]types.Value{}, x.Items...), args[1:]...)
			return &types.Vector{Items: out}
		}
		return wrongType("conj")
	})
}

func registerIO(fn func(string, func([]types.Value) types.Value)) {
	fn("read-string", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("read-string", 1)
		}
		s, ok := args[0].(types.String)
		if !ok {
			return wrongType("read-string")
		}
		v, err := reader.ReadStr(s.Value)
		if err != nil {
			return types.NewError("%s", err.Error())
		}
		return v
	})
	fn("slurp", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("slurp", 1)
		}
		s, ok := args[0].(types.String)
		if !ok {
			return wrongType("slurp")
		}
		data, err := os.ReadFile(s.Value)
		if err != nil {
			return types.String{Value: ""}
		}
		return types.String{Value: string(data)}
	})
}

func registerAtoms(fn func(string, func([]types.Value) types.Value), apply Apply) {
	fn("atom", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("atom", 1)
		}
		return types.NewAtom(args[0])
	})
	fn("atom?", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("atom?", 1)
		}
		_, ok := args[0].(*types.Atom)
		return types.BoolOf(ok)
	})
	fn("deref", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("deref", 1)
		}
		a, ok := args[0].(*types.Atom)
		if !ok {
			return types.NewError("deref 1st argument must be an atom")
		}
		return a.Deref()
	})
	fn("reset!", func(args []types.Value) types.Value {
		if len(args) != 2 {
			return arityError("reset!", 2)
		}
		a, ok := args[0].(*types.Atom)
		if !ok {
			return types.NewError("reset! 1st argument must be an atom")
		}
		return a.Reset(args[1])
	})
	fn("swap!", func(args []types.Value) types.Value {
		if len(args) < 2 {
			return types.NewError("swap! takes at least 2 arguments")
		}
		a, ok := args[0].(*types.Atom)
		if !ok {
			return types.NewError("swap! 1st argument must be an atom")
		}
		callArgs := append([]types.Value{a.Deref()}, args[2:]...)
		result := apply(args[1], callArgs)
		if errv, ok := result.(*types.Error); ok {
			return errv
		}
		return a.Reset(result)
	})
}

// registerPredicates implements the type-predicate and collection-shape
// builtins carried over from later mal steps: nil?/true?/false?/symbol?/
// string?/number?/fn?/macro?/keyword?/vector?/map?/sequential?, plus the
// symbol and keyword constructors.
func registerPredicates(fn func(string, func([]types.Value) types.Value)) {
	pred := func(name string, test func(types.Value) bool) {
		fn(name, func(args []types.Value) types.Value {
			if len(args) != 1 {
				return arityError(name, 1)
			}
			return types.BoolOf(test(args[0]))
		})
	}
	pred("nil?", func(v types.Value) bool { _, ok := v.(types.Nil); return ok })
	pred("true?", func(v types.Value) bool { b, ok := v.(types.Bool); return ok && b.Value })
	pred("false?", func(v types.Value) bool { b, ok := v.(types.Bool); return ok && !b.Value })
	pred("symbol?", func(v types.Value) bool { _, ok := v.(types.Symbol); return ok })
	pred("string?", func(v types.Value) bool { _, ok := v.(types.String); return ok })
	pred("keyword?", func(v types.Value) bool { _, ok := v.(types.Keyword); return ok })
	pred("number?", func(v types.Value) bool {
		switch v.(type) {
		case types.Int, types.Float:
			return true
		}
		return false
	})
	pred("fn?", func(v types.Value) bool {
		switch f := v.(type) {
		case *types.Function:
			return !f.IsMacro
		case *types.TCOFunction:
			return !f.IsMacro
		}
		return false
	})
	pred("macro?", func(v types.Value) bool {
		switch f := v.(type) {
		case *types.Function:
			return f.IsMacro
		case *types.TCOFunction:
			return f.IsMacro
		}
		return false
	})
	pred("vector?", func(v types.Value) bool { _, ok := v.(*types.Vector); return ok })
	pred("map?", func(v types.Value) bool { _, ok := v.(*types.Map); return ok })
	pred("sequential?", func(v types.Value) bool {
		switch v.(type) {
		case *types.List, *types.Vector:
			return true
		}
		return false
	})

	fn("symbol", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("symbol", 1)
		}
		s, ok := args[0].(types.String)
		if !ok {
			return wrongType("symbol")
		}
		return types.Symbol{Value: s.Value}
	})
	fn("keyword", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("keyword", 1)
		}
		switch x := args[0].(type) {
		case types.Keyword:
			return x
		case types.String:
			return types.Keyword{Value: ":" + x.Value}
		}
		return wrongType("keyword")
	})
	fn("vec", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("vec", 1)
		}
		if v, ok := args[0].(*types.Vector); ok {
			return v
		}
		items, ok := types.Seq(args[0])
		if !ok {
			return wrongType("vec")
		}
		return &types.Vector{Items: append([]types.Value{}, items...)}
	})
}

// registerAssoc implements the flat hash-map builtins: hash-map, get,
// contains?, keys, vals, assoc and dissoc. Maps are represented as a flat
// alternating key/value slice (types.Map), so these walk it pairwise rather
// than delegating to a Go map.
func registerAssoc(fn func(string, func([]types.Value) types.Value)) {
	fn("hash-map", func(args []types.Value) types.Value {
		if len(args)%2 != 0 {
			return types.NewError("hash-map requires an even number of arguments")
		}
		return &types.Map{Items: append([]types.Value{}, args...)}
	})
	fn("get", func(args []types.Value) types.Value {
		if len(args) != 2 {
			return arityError("get", 2)
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			if _, isNil := args[0].(types.Nil); isNil {
				return types.NilValue
			}
			return wrongType("get")
		}
		for i := 0; i+1 < len(m.Items); i += 2 {
			if types.Equal(m.Items[i], args[1]) {
				return m.Items[i+1]
			}
		}
		return types.NilValue
	})
	fn("contains?", func(args []types.Value) types.Value {
		if len(args) != 2 {
			return arityError("contains?", 2)
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return wrongType("contains?")
		}
		for i := 0; i+1 < len(m.Items); i += 2 {
			if types.Equal(m.Items[i], args[1]) {
				return types.True
			}
		}
		return types.False
	})
	fn("keys", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("keys", 1)
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return wrongType("keys")
		}
		var out []types.Value
		for i := 0; i < len(m.Items); i += 2 {
			out = append(out, m.Items[i])
		}
		return &types.List{Items: out}
	})
	fn("vals", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("vals", 1)
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return wrongType("vals")
		}
		var out []types.Value
		for i := 1; i < len(m.Items); i += 2 {
			out = append(out, m.Items[i])
		}
		return &types.List{Items: out}
	})
	fn("assoc", func(args []types.Value) types.Value {
		if len(args) < 1 || len(args)%2 != 1 {
			return types.NewError("assoc requires a map and an even number of key/value arguments")
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return wrongType("assoc")
		}
		out := append([]types.Value{}, m.Items...)
		for i := 1; i+1 < len(args); i += 2 {
			out = assocPair(out, args[i], args[i+1])
		}
		return &types.Map{Items: out}
	})
	fn("dissoc", func(args []types.Value) types.Value {
		if len(args) < 1 {
			return types.NewError("dissoc takes at least 1 argument")
		}
		m, ok := args[0].(*types.Map)
		if !ok {
			return wrongType("dissoc")
		}
		out := append([]types.Value{}, m.Items...)
		for _, key := range args[1:] {
			out = dissocKey(out, key)
		}
		return &types.Map{Items: out}
	})
}

func assocPair(items []types.Value, key, value types.Value) []types.Value {
	for i := 0; i+1 < len(items); i += 2 {
		if types.Equal(items[i], key) {
			items[i+1] = value
			return items
		}
	}
	return append(items, key, value)
}

func dissocKey(items []types.Value, key types.Value) []types.Value {
	for i := 0; i+1 < len(items); i += 2 {
		if types.Equal(items[i], key) {
			return append(items[:i], items[i+2:]...)
		}
	}
	return items
}

// registerMeta implements with-meta and meta. Metadata is stored on the
// List/Vector/Map/Function/TCOFunction variants that carry a Meta field;
// attaching metadata to a collection returns a shallow copy so the
// original binding is unaffected, per spec section 4.5's "non-mutating"
// note on with-meta.
func registerMeta(fn func(string, func([]types.Value) types.Value)) {
	fn("with-meta", func(args []types.Value) types.Value {
		if len(args) != 2 {
			return arityError("with-meta", 2)
		}
		switch x := args[0].(type) {
		case *types.List:
			return &types.List{Items: x.Items, Meta: args[1]}
		case *types.Vector:
			return &types.Vector{Items: x.Items, Meta: args[1]}
		case *types.Map:
			return &types.Map{Items: x.Items, Meta: args[1]}
		case *types.Function:
			cp := *x
			cp.Meta = args[1]
			return &cp
		case *types.TCOFunction:
			cp := *x
			cp.Meta = args[1]
			return &cp
		}
		return wrongType("with-meta")
	})
	fn("meta", func(args []types.Value) types.Value {
		if len(args) != 1 {
			return arityError("meta", 1)
		}
		switch x := args[0].(type) {
		case *types.List:
			return metaOrNil(x.Meta)
		case *types.Vector:
			return metaOrNil(x.Meta)
		case *types.Map:
			return metaOrNil(x.Meta)
		case *types.Function:
			return metaOrNil(x.Meta)
		case *types.TCOFunction:
			return metaOrNil(x.Meta)
		}
		return wrongType("meta")
	})
}

func metaOrNil(m types.Value) types.Value {
	if m == nil {
		return types.NilValue
	}
	return m
}
