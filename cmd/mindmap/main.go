package main

import (
	"os"

	"mindmap/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.Bad.Fprintf(os.Stderr, "mindmap: %v\n", err)
		os.Exit(1)
	}
}
