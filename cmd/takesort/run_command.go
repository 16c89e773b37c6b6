package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"takesort/internal/catalog"
	"takesort/internal/config"
	"takesort/internal/deps"
	"takesort/internal/logging"
	"takesort/internal/pipeline"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [source] [output]",
		Short: "Process an extracted Takeout archive",
		Long: "Scans the source tree, matches media to JSON sidecars, classifies each file\n" +
			"into general/albums/shared, removes content duplicates, copies survivors to\n" +
			"the output tree, and embeds sidecar dates into the copies.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyPathArgs(cfg, args); err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.SourceDir) == "" {
				return errors.New("source directory required (set paths.source_dir or pass it as an argument)")
			}
			if strings.TrimSpace(cfg.Paths.OutputDir) == "" {
				return errors.New("output directory required (set paths.output_dir or pass it as an argument)")
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, closeLog, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer closeLog()

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			for _, status := range statuses {
				if !status.Available && status.Optional {
					logger.Warn("optional tool unavailable",
						logging.String("tool", status.Name),
						logging.String("detail", status.Detail),
					)
				}
			}
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("required tools unavailable: %s (run `takesort check`)", strings.Join(missing, ", "))
			}

			var store *catalog.Store
			if strings.TrimSpace(cfg.Paths.CatalogPath) != "" {
				store, err = catalog.Open(cfg.Paths.CatalogPath)
				if err != nil {
					return fmt.Errorf("open catalog: %w", err)
				}
				defer store.Close()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := pipeline.New(cfg, logger, store).Run(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}
	return cmd
}

// applyPathArgs lets positional arguments override the configured source and
// output directories.
func applyPathArgs(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		expanded, err := config.ExpandPath(args[0])
		if err != nil {
			return err
		}
		cfg.Paths.SourceDir = expanded
	}
	if len(args) > 1 {
		expanded, err := config.ExpandPath(args[1])
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = expanded
	}
	return nil
}

// buildLogger constructs the run logger, teeing to a log file when log_dir is
// configured.
func buildLogger(cfg *config.Config) (logger *slog.Logger, closeFn func(), err error) {
	var output io.Writer = os.Stdout
	closeFn = func() {}

	if strings.TrimSpace(cfg.Paths.LogDir) != "" {
		fileOut, fileErr := logging.FileOutput(cfg.Paths.LogDir, "takesort.log")
		if fileErr != nil {
			return nil, nil, fileErr
		}
		output = io.MultiWriter(os.Stdout, fileOut)
		if closer, ok := fileOut.(io.Closer); ok {
			closeFn = func() { _ = closer.Close() }
		}
	}

	logger, err = logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: output,
	})
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return logger, closeFn, nil
}
