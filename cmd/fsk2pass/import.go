package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nvinuesa/fsk2pass/internal/config"
	"github.com/nvinuesa/fsk2pass/internal/importer"
	"github.com/nvinuesa/fsk2pass/internal/logger"
	"github.com/nvinuesa/fsk2pass/internal/model"
	"github.com/nvinuesa/fsk2pass/internal/pass"
	"github.com/nvinuesa/fsk2pass/internal/sources"
)

type importFlags struct {
	force     bool
	group     string
	noNotes   bool
	passCmd   string
	timeout   time.Duration
	dryRun    bool
	verbose   bool
	quiet     bool
	logFormat string
	config    string
}

func defaultImportFlags() *importFlags {
	d := config.Default()
	return &importFlags{
		force:     d.Force,
		group:     d.Group,
		noNotes:   !d.Notes,
		passCmd:   d.PassCommand,
		timeout:   d.Timeout,
		logFormat: d.LogFormat,
	}
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.force, "force", "f", f.force, "Overwrite existing passwords")
	cmd.Flags().StringVarP(&f.group, "group", "g", f.group, "Place passwords into this pass folder")
	cmd.Flags().BoolVarP(&f.noNotes, "no-notes", "n", f.noNotes, "Only import passwords, without URL, username, notes or card lines")
	cmd.Flags().StringVar(&f.passCmd, "pass-cmd", f.passCmd, "pass executable to run")
	cmd.Flags().DurationVar(&f.timeout, "timeout", f.timeout, "Maximum time for a single insert (0 means no limit)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "Show what would be imported without running pass")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Verbose output")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "Suppress all output except errors")
	cmd.Flags().StringVar(&f.logFormat, "log-format", f.logFormat, "Log format (auto|pretty|text|json)")
	cmd.Flags().StringVar(&f.config, "config", "", "Configuration file (YAML)")

	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// settings merges the configuration file with the flags set on the command
// line. Flags win.
func (f *importFlags) settings(cmd *cobra.Command) (*config.Config, model.ImportOptions, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return nil, model.ImportOptions{}, err
	}

	changed := cmd.Flags().Changed
	if changed("force") {
		cfg.Force = f.force
	}
	if changed("group") {
		cfg.Group = f.group
	}
	if changed("no-notes") {
		cfg.Notes = !f.noNotes
	}
	if changed("pass-cmd") {
		cfg.PassCommand = f.passCmd
	}
	if changed("timeout") {
		if f.timeout < 0 {
			return nil, model.ImportOptions{}, &UsageError{Err: fmt.Errorf("--timeout must not be negative")}
		}
		cfg.Timeout = f.timeout
	}
	if changed("log-format") {
		if _, err := logger.ParseFormat(f.logFormat); err != nil {
			return nil, model.ImportOptions{}, &UsageError{Err: err}
		}
		cfg.LogFormat = f.logFormat
	}
	switch {
	case f.verbose:
		cfg.LogLevel = "debug"
	case f.quiet:
		cfg.LogLevel = "error"
	}

	opts := model.ImportOptions{
		Force:  cfg.Force,
		Group:  cfg.Group,
		Notes:  cfg.Notes,
		DryRun: f.dryRun,
	}
	return cfg, opts, nil
}

func runImport(cmd *cobra.Command, args []string, flags *importFlags) error {
	filename := args[len(args)-1]

	cfg, opts, err := flags.settings(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cmd.OutOrStdout(), logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if len(args) > 1 {
		log.Debug("Ignoring extra arguments", "args", args[:len(args)-1])
	}

	runID := uuid.NewString()
	log.Info("Started the import into pass", "file", filename, "group", opts.Group, "run", runID)

	source := sources.NewFSecureSource()
	if !sources.HasSupportedExtension(source, filename) {
		log.Warn("Unexpected file extension", "file", filename, "want", source.SupportedExtensions())
	}

	if err := source.Open(filename); err != nil {
		logFatal(log, err)
		return logged(err)
	}
	defer source.Close()

	accounts, err := source.Read()
	if err != nil {
		logFatal(log, err)
		return logged(err)
	}
	log.Info("Read accounts", "count", len(accounts))

	store := pass.NewStore(cfg.PassCommand, cfg.Timeout)
	if !opts.DryRun {
		path, err := store.LookPath()
		if err != nil {
			logFatal(log, err)
			return logged(err)
		}
		log.Debug("Using pass", "path", path, "timeout", cfg.Timeout)
	}

	summary := importer.New(store, opts, log).Run(cmd.Context(), accounts)

	failed := len(summary.Failures())
	log.Info("Finished the import",
		"imported", summary.Count(model.StatusImported),
		"failed", failed,
		"elapsed", summary.Elapsed,
		"run", runID,
	)

	if err := importResult(summary); err != nil {
		return logged(err)
	}
	return nil
}

// importResult maps a finished run to the error returned by the command. A run
// is interrupted when accounts were left unprocessed or the insert in flight
// was cancelled.
func importResult(summary model.Summary) error {
	processed := len(summary.Outcomes)
	if processed < summary.Total {
		return fmt.Errorf("import interrupted after %d of %d accounts: %w", processed, summary.Total, context.Canceled)
	}
	if !summary.HasFailures() {
		return nil
	}

	failures := summary.Failures()
	for _, o := range failures {
		if errors.Is(o.Err, context.Canceled) {
			return fmt.Errorf("import interrupted while inserting %s: %w", o.Destination, context.Canceled)
		}
	}
	return &ErrImportIncomplete{Failed: len(failures), Total: summary.Total}
}

func logFatal(log *slog.Logger, err error) {
	switch {
	case sources.IsNotFound(err):
		log.Error("Missing file to import", "error", err)
	case sources.IsMalformed(err):
		log.Error("Malformed JSON", "error", err)
	case sources.IsMissingField(err):
		log.Error("Export has no accounts field", "error", err)
	case sources.IsPermissionDenied(err):
		log.Error("Cannot read file", "error", err)
	case pass.IsCommandNotFound(err):
		log.Error("pass is not installed", "error", err)
	default:
		log.Error("Import failed", "error", err)
	}
}
