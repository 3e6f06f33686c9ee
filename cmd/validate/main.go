package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jwebster45206/story-script/internal/cli"
)

func main() {
	cmd := cli.NewValidateCmd()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, cli.ErrFindings) {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		}
		os.Exit(1)
	}
}
