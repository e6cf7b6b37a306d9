package eval_test

import (
	"testing"

	"github.com/go-mal/mal/internal/builtins"
	"github.com/go-mal/mal/internal/eval"
	"github.com/go-mal/mal/internal/printer"
	"github.com/go-mal/mal/internal/reader"
	"github.com/go-mal/mal/internal/types"
)

func newTestEnv(t *testing.T) *types.Environment {
	t.Helper()
	env := types.NewEnvironment()
	for name, v := range builtins.NewNamespace(eval.Apply) {
		env.Set(name, v)
	}
	env.Set("*ARGV*", types.NewList())
	for _, form := range builtins.BootstrapForms {
		v, err := reader.ReadStr(form)
		if err != nil {
			t.Fatalf("bootstrap parse error: %v", err)
		}
		if errv := eval.Eval(v, env); isErrorValue(errv) {
			t.Fatalf("bootstrap eval error: %v", printer.PrStr(errv, true))
		}
	}
	return env
}

func isErrorValue(v types.Value) bool {
	_, ok := v.(*types.Error)
	return ok
}

func rep(t *testing.T, env *types.Environment, src string) string {
	t.Helper()
	v, err := reader.ReadStr(src)
	if err != nil {
		t.Fatalf("ReadStr(%q) error: %v", src, err)
	}
	result := eval.Eval(v, env)
	return printer.PrStr(result, true)
}

func TestArithmetic(t *testing.T) {
	env := newTestEnv(t)
	if got := rep(t, env, "(+ 1 2)"); got != "3" {
		t.Errorf("got %q", got)
	}
	if got := rep(t, env, "(/ (- (+ 515 (* -87 311)) 296) 27)"); got != "-994" {
		t.Errorf("got %q", got)
	}
}

func TestDefRebind(t *testing.T) {
	env := newTestEnv(t)
	if got := rep(t, env, "(def! x 3)"); got != "3" {
		t.Errorf("got %q", got)
	}
	if got := rep(t, env, "x"); got != "3" {
		t.Errorf("got %q", got)
	}
	if got := rep(t, env, "(def! x 4)"); got != "4" {
		t.Errorf("got %q", got)
	}
	if got := rep(t, env, "x"); got != "4" {
		t.Errorf("got %q", got)
	}
}

func TestLetStar(t *testing.T) {
	env := newTestEnv(t)
	rep(t, env, "(def! x 99)")
	if got := rep(t, env, "(let* (p (+ 2 3) q (+ 2 p)) (+ p q))"); got != "12" {
		t.Errorf("got %q", got)
	}
	if got := rep(t, env, "x"); got != "99" {
		t.Errorf("outer x mutated: %q", got)
	}
}

func TestClosures(t *testing.T) {
	env := newTestEnv(t)
	got := rep(t, env, "( ( (fn* (a) (fn* (b) (+ a b))) 5) 7)")
	if got != "12" {
		t.Errorf("got %q", got)
	}
}

func TestIndependentClosureCounters(t *testing.T) {
	env := newTestEnv(t)
	rep(t, env, "(def! gen-plusX (fn* (x) (fn* (b) (+ x b))))")
	rep(t, env, "(def! plus5 (gen-plusX 5))")
	rep(t, env, "(def! plus7 (gen-plusX 7))")
	if got := rep(t, env, "(plus5 3)"); got != "8" {
		t.Errorf("plus5 3 = %q", got)
	}
	if got := rep(t, env, "(plus7 3)"); got != "10" {
		t.Errorf("plus7 3 = %q", got)
	}
}

func TestAtoms(t *testing.T) {
	env := newTestEnv(t)
	rep(t, env, "(def! a (atom 2))")
	if got := rep(t, env, "(swap! a (fn* (x) (* 2 x)))"); got != "4" {
		t.Errorf("got %q", got)
	}
	if got := rep(t, env, "(swap! a + 3)"); got != "7" {
		t.Errorf("got %q", got)
	}
	if got := rep(t, env, "(deref a)"); got != "7" {
		t.Errorf("got %q", got)
	}
}

func TestQuasiquote(t *testing.T) {
	env := newTestEnv(t)
	got := rep(t, env, "`(1 ~(+ 1 1) ~@(list 3 4) 5)")
	if got != "(1 2 3 4 5)" {
		t.Errorf("got %q", got)
	}
}

func TestMacros(t *testing.T) {
	env := newTestEnv(t)
	rep(t, env, "(defmacro! unless (fn* (p a b) `(if ~p ~b ~a)))")
	if got := rep(t, env, "(unless false 7 8)"); got != "7" {
		t.Errorf("got %q", got)
	}
	if got := rep(t, env, "(macroexpand (unless false 7 8))"); got != "(if false 8 7)" {
		t.Errorf("got %q", got)
	}
}

func TestErrorPropagation(t *testing.T) {
	env := newTestEnv(t)
	got := rep(t, env, "(abc 1 2 3)")
	if got != "abc not found." {
		t.Errorf("got %q", got)
	}
	rep(t, env, "(def! w 1)")
	rep(t, env, "(def! w (abc))")
	if got := rep(t, env, "w"); got != "1" {
		t.Errorf("w should remain unrebound after error, got %q", got)
	}
}

func TestQuoteIsFixedPoint(t *testing.T) {
	env := newTestEnv(t)
	for _, f := range []string{"1", `"hi"`, "foo", ":kw"} {
		v, _ := reader.ReadStr(f)
		quoted, _ := reader.ReadStr("(quote " + f + ")")
		viaQuote := eval.Eval(quoted, env)
		if !types.Equal(v, viaQuote) {
			t.Errorf("quote not a fixed point for %s", f)
		}
	}
}

func TestTailCallConstancy(t *testing.T) {
	env := newTestEnv(t)
	rep(t, env, "(def! sum2 (fn* (n acc) (if (= n 0) acc (sum2 (- n 1) (+ n acc)))))")
	if got := rep(t, env, "(sum2 10000 0)"); got != "50005000" {
		t.Errorf("got %q", got)
	}
}

func TestMutualRecursionTailCalls(t *testing.T) {
	env := newTestEnv(t)
	rep(t, env, "(def! foo (fn* (n) (if (= n 0) 0 (bar (- n 1)))))")
	rep(t, env, "(def! bar (fn* (n) (if (= n 0) 0 (foo (- n 1)))))")
	if got := rep(t, env, "(foo 10000)"); got != "0" {
		t.Errorf("got %q", got)
	}
}

func TestDoEvaluatesInOrderAndReturnsLast(t *testing.T) {
	env := newTestEnv(t)
	if got := rep(t, env, "(do 1 2 3)"); got != "3" {
		t.Errorf("got %q", got)
	}
}
