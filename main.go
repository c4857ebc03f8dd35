// Strayscan - source dependency analyzer for orphan file detection.
//
// Strayscan walks a project tree, extracts import references from
// JavaScript, TypeScript, and Python sources, resolves them against the
// indexed file set, and reports files no other file references.
package main

import (
	"fmt"
	"os"

	"github.com/strayscan/strayscan/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
