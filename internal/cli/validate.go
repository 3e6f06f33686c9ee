package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jwebster45206/story-script/internal/logger"
	"github.com/jwebster45206/story-script/internal/storage"
	"github.com/jwebster45206/story-script/pkg/validate"
)

// ErrFindings is returned when validation found Errors, or Issues under
// --strict.
var ErrFindings = errors.New("validation failed")

// NewValidateCmd returns the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file or directory...]",
		Short: "Statically check script files",
		Long: "Checks every script line for broken jumps, missing switch companions, " +
			"illegal modifiers and contradictory conditions. Directories are searched for " + validate.ScriptExt + " files. " +
			"With no arguments, $SCRIPT_DIR is checked.",
		RunE: runValidate,
	}

	addVocabularyFlag(cmd)
	cmd.Flags().Bool("no-cache", false, "Ignore the Redis report cache")
	cmd.Flags().Bool("strict", false, "Fail on Issues as well as Errors")
	cmd.Flags().Bool("quiet", false, "Only print files with findings")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, baseLogger, err := setup()
	if err != nil {
		return err
	}
	log := logger.WithSessionID(baseLogger, uuid.NewString())

	vocab, err := loadVocabulary(cmd, cfg)
	if err != nil {
		return err
	}

	noCache, _ := cmd.Flags().GetBool("no-cache")
	strict, _ := cmd.Flags().GetBool("strict")
	quiet, _ := cmd.Flags().GetBool("quiet")

	src := &reportSource{
		validator:   validate.New(vocab, log),
		fingerprint: vocab.Fingerprint(),
		logger:      log,
	}
	if cfg.RedisURL != "" && !noCache {
		cache, err := openCache(cmd.Context(), cfg.RedisURL, cfg.ReportCacheTTL, log)
		if err != nil {
			logger.WithError(log, err).Warn("Report cache unavailable, validating without it")
		} else {
			defer func() {
				_ = cache.Close()
			}()
			src.cache = cache
		}
	}

	if len(args) == 0 {
		args = []string{cfg.ScriptDir}
	}
	paths, err := expandPaths(args)
	if err != nil {
		return err
	}

	reports := make([]*validate.Report, 0, len(paths))
	for _, p := range paths {
		r, err := src.report(cmd.Context(), p)
		if err != nil {
			return err
		}
		reports = append(reports, r)
	}

	return printReports(cmd.OutOrStdout(), reports, strict, quiet)
}

func openCache(ctx context.Context, url string, ttl time.Duration, log *slog.Logger) (*storage.RedisReportCache, error) {
	cache, err := storage.NewRedisReportCache(url, ttl, log)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		_ = cache.Close()
		return nil, err
	}
	return cache, nil
}

// expandPaths replaces each directory argument with the scripts inside it.
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", a, err)
		}
		if !info.IsDir() {
			paths = append(paths, a)
			continue
		}
		files, err := validate.ScriptFiles(a)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

// reportSource validates files, going through the cache when one is set.
type reportSource struct {
	validator   *validate.Validator
	cache       storage.ReportCache
	fingerprint string
	logger      *slog.Logger
}

func (s *reportSource) report(ctx context.Context, path string) (*validate.Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script %s: %w", path, err)
	}
	name := filepath.Base(path)

	if s.cache == nil {
		return s.validator.ValidateFileContents(name, string(content))
	}

	key := storage.ReportKey(path, content, s.fingerprint)
	cached, err := s.cache.GetReport(ctx, key)
	if err != nil {
		s.logger.Warn("Report cache read failed", "file", path, "error", err)
	}
	if cached != nil {
		s.logger.Debug("Using cached report", "file", path)
		return cached, nil
	}

	r, err := s.validator.ValidateFileContents(name, string(content))
	if err != nil {
		return nil, err
	}
	if err := s.cache.SaveReport(ctx, key, r); err != nil {
		s.logger.Warn("Report cache write failed", "file", path, "error", err)
	}
	return r, nil
}

func printReports(w io.Writer, reports []*validate.Report, strict, quiet bool) error {
	var errCount, issueCount int
	for _, r := range reports {
		errs, issues := len(r.Errors()), len(r.Issues())
		errCount += errs
		issueCount += issues
		if quiet && errs == 0 && issues == 0 {
			continue
		}
		if err := r.PrintReport(w); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "\n%d files checked: %d errors, %d issues\n", len(reports), errCount, issueCount)

	if errCount > 0 || (strict && issueCount > 0) {
		return ErrFindings
	}
	return nil
}
