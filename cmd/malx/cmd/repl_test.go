package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestReplLoopEchoesResults(t *testing.T) {
	in := strings.NewReader("(+ 1 2)\n(def! x 10)\n(* x x)\n")
	var out bytes.Buffer

	if err := replLoop(in, &out); err != nil {
		t.Fatalf("replLoop: %v", err)
	}

	output := out.String()
	for _, want := range []string{"3", "10", "100"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestReplLoopSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("\n\n(+ 1 1)\n")
	var out bytes.Buffer

	if err := replLoop(in, &out); err != nil {
		t.Fatalf("replLoop: %v", err)
	}
	if !strings.Contains(out.String(), "2") {
		t.Errorf("output missing expected result:\n%s", out.String())
	}
}
