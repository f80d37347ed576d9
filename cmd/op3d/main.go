// Package main is the entry point for the op3d CLI.
package main

import (
	"os"

	"github.com/openprint3d/op3d/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
