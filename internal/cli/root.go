// Package cli implements the story-script commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/story-script/internal/config"
	"github.com/jwebster45206/story-script/internal/logger"
	"github.com/jwebster45206/story-script/pkg/script"
)

// NewRootCmd returns the top-level command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "story-script",
		Short:         "Validate and play branching dialogue scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(NewValidateCmd(), NewPlayCmd())
	return root
}

func addVocabularyFlag(cmd *cobra.Command) {
	cmd.Flags().String("vocabulary", "", "YAML speaker vocabulary (default: $VOCABULARY_FILE or built-in)")
}

// setup loads configuration and the logger shared by every command.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logger.Setup(cfg), nil
}

// loadVocabulary prefers the flag, then the configured file, then the
// built-in vocabulary.
func loadVocabulary(cmd *cobra.Command, cfg *config.Config) (*script.Vocabulary, error) {
	path, _ := cmd.Flags().GetString("vocabulary")
	if path == "" {
		path = cfg.VocabularyFile
	}
	if path == "" {
		return script.DefaultVocabulary(), nil
	}
	return script.LoadVocabulary(path)
}
