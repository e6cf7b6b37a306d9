// Command malx is the mal interpreter's entry point: cobra command wiring
// lives in cmd/malx/cmd, this file only hands off to it.
package main

import (
	"fmt"
	"os"

	"github.com/go-mal/mal/cmd/malx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
