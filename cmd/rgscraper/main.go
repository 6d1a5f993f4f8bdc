package main

import (
	"context"
	"errors"
	"os"

	"rgscraper/pkg/ui"
)

func main() {
	cmd := newRootCommand(newCommandContext())
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			ui.NewPrinter(os.Stderr, false).PrintError("Error", err)
		}
		os.Exit(1)
	}
}
