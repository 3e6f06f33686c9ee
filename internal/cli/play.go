package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jwebster45206/story-script/internal/console"
	"github.com/jwebster45206/story-script/internal/logger"
	"github.com/jwebster45206/story-script/pkg/conditionals"
	"github.com/jwebster45206/story-script/pkg/script"
)

// NewPlayCmd returns the play command.
func NewPlayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <script>",
		Short: "Play a script in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlay,
	}

	addVocabularyFlag(cmd)
	cmd.Flags().String("start", "", "Anchor to start from (default: first line)")
	cmd.Flags().Bool("blade", false, "Start holding the blade")
	cmd.Flags().Bool("harsh", false, "Start in a harsh mood")
	cmd.Flags().Bool("first", false, "Play as the first vessel")
	cmd.Flags().String("source", "", "Source persona for sourceswitch lines")
	cmd.Flags().String("voice2", "", "Persona in voice slot 2")
	cmd.Flags().String("voice3", "", "Persona in voice slot 3")
	cmd.Flags().StringSlice("personas", nil, "Active personas for checkvoice lines")
	cmd.Flags().Int("autojump", 0, "Initial value of the numautojump counter")

	return cmd
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, baseLogger, err := setup()
	if err != nil {
		return err
	}
	log := logger.WithSessionID(baseLogger, uuid.NewString())

	vocab, err := loadVocabulary(cmd, cfg)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	start, _ := flags.GetString("start")
	blade, _ := flags.GetBool("blade")
	harsh, _ := flags.GetBool("harsh")
	first, _ := flags.GetBool("first")
	source, _ := flags.GetString("source")
	voice2, _ := flags.GetString("voice2")
	voice3, _ := flags.GetString("voice3")
	personas, _ := flags.GetStringSlice("personas")
	autojump, _ := flags.GetInt("autojump")

	reg := conditionals.NewRegistry()
	reg.Condition(condBlade).SetTo(blade)
	reg.Condition(condHarsh).SetTo(harsh)
	reg.Condition(condFirst).SetTo(first)
	reg.Counter("autojump").Set(autojump)
	state := newGameState(reg, source, voice2, voice3)

	term := console.NewTerminal(cmd.OutOrStdout(), cmd.InOrStdin(), cfg.WrapWidth, log)
	s, err := script.Load(args[0], script.Options{
		Printer:    term,
		Personas:   script.NewPersonaSet(personas...),
		State:      state,
		Vocabulary: vocab,
		Counter:    reg.Counter("autojump"),
		Logger:     log,
	})
	if err != nil {
		return err
	}

	sess, err := newSession(s, start, reg, state, term, log)
	if err != nil {
		return err
	}

	log.Info("Starting play session", "script", args[0], "start", start)
	if err := sess.Run(cmd.Context()); err != nil {
		logger.WithError(log, err).Error("Play session ended with an error")
		return err
	}
	return nil
}
