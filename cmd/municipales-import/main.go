package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/municipales2026/importer/internal/cli"
	"github.com/municipales2026/importer/pkg/importer"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(importer.ExitPanic)
		}
	}()

	if err := cli.Execute(); err != nil {
		os.Exit(importer.ExitCodeForError(err))
	}
}
