// Package importer feeds accounts to pass one at a time and reports the
// outcome of each.
package importer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/nvinuesa/fsk2pass/internal/model"
	"github.com/nvinuesa/fsk2pass/internal/pass"
	"github.com/nvinuesa/fsk2pass/internal/security"
)

// Importer inserts accounts sequentially. A failed account never stops the
// run; a cancelled context stops it before the next account.
type Importer struct {
	store pass.Inserter
	opts  model.ImportOptions
	log   *slog.Logger
	now   func() time.Time
}

// New creates an Importer. A nil logger discards output.
func New(store pass.Inserter, opts model.ImportOptions, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Importer{store: store, opts: opts, log: log, now: time.Now}
}

// Run imports accounts in order and returns the per-account outcomes.
func (im *Importer) Run(ctx context.Context, accounts []model.Account) model.Summary {
	start := im.now()
	summary := model.Summary{
		Total:    len(accounts),
		Outcomes: make([]model.Outcome, 0, len(accounts)),
	}

	for i := range accounts {
		if err := ctx.Err(); err != nil {
			im.log.Warn("Import interrupted", "remaining", len(accounts)-i, "error", err)
			break
		}
		outcome := im.importOne(ctx, &accounts[i])
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	summary.Elapsed = im.now().Sub(start)
	return summary
}

func (im *Importer) importOne(ctx context.Context, account *model.Account) model.Outcome {
	service := account.Service.String()
	dest := model.Destination(im.opts.Group, service)
	outcome := model.Outcome{Service: service, Destination: dest}

	if err := security.ValidateDestination(dest); err != nil {
		outcome.Status = model.StatusSkipped
		outcome.Err = err
		im.log.Error("Failed to import", "service", service, "error", err)
		return outcome
	}

	lines := account.SecretLines(im.opts.Notes)

	if im.opts.DryRun {
		outcome.Status = model.StatusDryRun
		im.log.Info("Would import", "service", service, "dest", dest,
			"lines", len(lines), "card", account.CreditCard() != nil, "force", im.opts.Force)
		return outcome
	}

	im.log.Debug("Inserting", "dest", dest, "lines", len(lines))
	if err := im.store.Insert(ctx, dest, lines, im.opts.Force); err != nil {
		outcome.Status = model.StatusFailed
		outcome.Err = err
		im.log.Error("Failed to import", "service", service, "error", err)
		return outcome
	}

	outcome.Status = model.StatusImported
	im.log.Info("Imported", "service", service)
	return outcome
}
