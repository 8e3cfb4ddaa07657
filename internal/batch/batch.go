// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch drives citation-count resolution over lists of records.
// Records are processed strictly in order, one lookup in flight at a
// time; a failed record is reported and the run moves on.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/citation-engine/internal/observe"
	"github.com/pdiddy/citation-engine/internal/resolve"
	"github.com/pdiddy/citation-engine/pkg/types"
)

// Store is the slice of the record store the runner writes through.
type Store interface {
	UpdateExtra(ctx context.Context, id, extra string) error
}

// Progress receives per-record and end-of-run notifications. Calls arrive
// from a single goroutine in record order. BatchCompleted fires only when
// the run reaches the end of the list.
type Progress interface {
	RecordStarted(rec types.Record)
	RecordSucceeded(rec types.Record, count resolve.Count)
	RecordFailed(rec types.Record, message string)
	BatchCompleted(sum Summary)
}

// Localizer renders a failure-kind key and provider name into the
// user-facing message handed to Progress.RecordFailed.
type Localizer interface {
	Message(key, provider string) string
}

// Summary counts the outcomes of one run.
type Summary struct {
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records considered.
func (s Summary) Total() int {
	return s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any record failed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

// Runner resolves counts for record lists and writes them back. All
// collaborators must be non-nil.
type Runner struct {
	store     Store
	validator *resolve.Validator
	progress  Progress
	localizer Localizer
	cfg       types.BatchConfig
	log       zerolog.Logger
}

// NewRunner builds a Runner around its collaborators.
func NewRunner(store Store, v *resolve.Validator, progress Progress, loc Localizer, cfg types.BatchConfig, log zerolog.Logger) *Runner {
	return &Runner{
		store:     store,
		validator: v,
		progress:  progress,
		localizer: loc,
		cfg:       cfg,
		log:       log,
	}
}

// Run resolves every record in order against one provider. Transient
// records are skipped. A record failure is reported and counted, never
// fatal; the only early exit is context cancellation between records,
// which returns the partial summary and the context error.
func (r *Runner) Run(ctx context.Context, records []types.Record, p resolve.Provider) (Summary, error) {
	log := r.log.With().
		Str("batch_id", uuid.NewString()).
		Str("provider", p.Name()).
		Logger()
	log.Info().Int("records", len(records)).Msg("batch started")

	var (
		sum    Summary
		looked int
	)
	for _, rec := range records {
		if rec.Transient {
			log.Debug().Str("record", rec.ID).Msg("skipping transient record")
			sum.Skipped++
			continue
		}

		if err := ctx.Err(); err != nil {
			return sum, err
		}

		if looked > 0 && r.cfg.RecordDelay > 0 {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(r.cfg.RecordDelay):
			}
		}
		looked++

		r.progress.RecordStarted(rec)

		count, err := resolve.Resolve(ctx, rec, p, r.validator)
		if err != nil {
			sum.Failed++
			r.progress.RecordFailed(rec, r.failureMessage(err))
			log.Warn().
				Str("record", rec.ID).
				Str("error", observe.Redact(err.Error())).
				Msg("record failed")
			continue
		}

		if !r.cfg.DryRun {
			newExtra := mergeCitationLine(rec.Extra, count.Value, count.Source)
			if err := r.store.UpdateExtra(ctx, rec.ID, newExtra); err != nil {
				sum.Failed++
				r.progress.RecordFailed(rec, err.Error())
				log.Warn().
					Str("record", rec.ID).
					Str("error", observe.Redact(err.Error())).
					Msg("store write failed")
				continue
			}
		}

		sum.Updated++
		r.progress.RecordSucceeded(rec, count)
		log.Debug().
			Str("record", rec.ID).
			Int("count", count.Value).
			Str("source", count.Source).
			Msg("record updated")
	}

	r.progress.BatchCompleted(sum)
	log.Info().
		Int("updated", sum.Updated).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Msg("batch finished")
	return sum, nil
}

// failureMessage renders a resolution error for the progress collaborator.
func (r *Runner) failureMessage(err error) string {
	if aerr, ok := resolve.AsAttempt(err); ok {
		return r.localizer.Message(aerr.Kind.String(), aerr.Provider)
	}
	return err.Error()
}
