package main

import (
	"fmt"
	"os"

	"github.com/jwebster45206/story-script/internal/cli"
)

func main() {
	cmd := cli.NewPlayCmd()
	cmd.Use = "console <script>"
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
