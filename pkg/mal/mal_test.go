package mal_test

import (
	"testing"

	"github.com/go-mal/mal/internal/types"
	"github.com/go-mal/mal/pkg/mal"
)

func TestRepArithmetic(t *testing.T) {
	env := mal.NewRootEnv()
	if got := mal.Rep("(+ 1 2)", env); got != "3" {
		t.Errorf("got %q", got)
	}
}

func TestRepBootstrappedNot(t *testing.T) {
	env := mal.NewRootEnv()
	if got := mal.Rep("(not false)", env); got != "true" {
		t.Errorf("got %q", got)
	}
	if got := mal.Rep("(not nil)", env); got != "true" {
		t.Errorf("got %q", got)
	}
}

func TestRepBootstrappedOrAndCond(t *testing.T) {
	env := mal.NewRootEnv()
	if got := mal.Rep("(or false nil 3)", env); got != "3" {
		t.Errorf("or: got %q", got)
	}
	if got := mal.Rep("(cond false 1 true 2)", env); got != "2" {
		t.Errorf("cond: got %q", got)
	}
}

func TestRepPersistsDefinitionsAcrossCalls(t *testing.T) {
	env := mal.NewRootEnv()
	mal.Rep("(def! x 10)", env)
	if got := mal.Rep("(* x x)", env); got != "100" {
		t.Errorf("got %q", got)
	}
}

func TestNewRootEnvInstallsArgvAndHostLanguage(t *testing.T) {
	env := mal.NewRootEnv()
	argv, ok := env.Find("*ARGV*")
	if !ok {
		t.Fatal("*ARGV* not bound")
	}
	if l, ok := argv.(*types.List); !ok || len(l.Items) != 0 {
		t.Errorf("*ARGV* should be an empty list, got %#v", argv)
	}
	host, ok := env.Find("*host-language*")
	if !ok {
		t.Fatal("*host-language* not bound")
	}
	if s, ok := host.(types.String); !ok || s.Value != "go" {
		t.Errorf("*host-language* = %#v, want \"go\"", host)
	}
}

func TestRepReturnsErrorTextOnUnboundSymbol(t *testing.T) {
	env := mal.NewRootEnv()
	if got := mal.Rep("(abc 1 2 3)", env); got != "abc not found." {
		t.Errorf("got %q", got)
	}
}
