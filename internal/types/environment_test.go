package types_test

import (
	"testing"

	"github.com/go-mal/mal/internal/types"
)

func TestEnvironmentSetGet(t *testing.T) {
	env := types.NewEnvironment()
	env.Set("x", types.Int{Value: 3})
	if got := env.Get("x"); !types.Equal(got, types.Int{Value: 3}) {
		t.Fatalf("Get(x) = %v", got)
	}
}

func TestEnvironmentGetNotFound(t *testing.T) {
	env := types.NewEnvironment()
	got := env.Get("nope")
	errVal, ok := got.(*types.Error)
	if !ok || errVal.Message != "nope not found." {
		t.Fatalf("Get(nope) = %v, want Error \"nope not found.\"", got)
	}
}

func TestEnvironmentOuterChain(t *testing.T) {
	root := types.NewEnvironment()
	root.Set("x", types.Int{Value: 1})
	inner := root.GetInner()
	if got := inner.Get("x"); !types.Equal(got, types.Int{Value: 1}) {
		t.Fatalf("inner lookup of outer binding failed: %v", got)
	}
	inner.Set("x", types.Int{Value: 2})
	if got := root.Get("x"); !types.Equal(got, types.Int{Value: 1}) {
		t.Fatalf("inner Set leaked into outer: %v", got)
	}
}

func TestEnvironmentGetRoot(t *testing.T) {
	root := types.NewEnvironment()
	a := root.GetInner()
	b := a.GetInner()
	if b.GetRoot() != root {
		t.Fatalf("GetRoot did not return the topmost environment")
	}
}

func TestBindExprsVariadic(t *testing.T) {
	env := types.NewEnvironment()
	binds := []types.Value{types.Symbol{Value: "a"}, types.Symbol{Value: "&"}, types.Symbol{Value: "rest"}}
	exprs := []types.Value{types.Int{Value: 1}, types.Int{Value: 2}, types.Int{Value: 3}}
	if errv := env.BindExprs(binds, exprs); errv != nil {
		t.Fatalf("BindExprs returned error: %v", errv)
	}
	if got := env.Get("a"); !types.Equal(got, types.Int{Value: 1}) {
		t.Fatalf("a = %v", got)
	}
	rest, ok := env.Get("rest").(*types.List)
	if !ok || len(rest.Items) != 2 {
		t.Fatalf("rest = %v", rest)
	}
}

func TestBindExprsVariadicEmpty(t *testing.T) {
	env := types.NewEnvironment()
	binds := []types.Value{types.Symbol{Value: "&"}, types.Symbol{Value: "rest"}}
	env.BindExprs(binds, nil)
	rest, ok := env.Get("rest").(*types.List)
	if !ok || len(rest.Items) != 0 {
		t.Fatalf("rest = %v, want empty list", rest)
	}
}
