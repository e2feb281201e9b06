package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
)

// Resolver computes a new location or region for one facility.
// Failures are reported through the returned Resolution, never as a Go error.
type Resolver interface {
	Name() string
	Resolve(ctx context.Context, facility models.Facility) models.Resolution
}

// Sink persists resolved facilities.
type Sink interface {
	Persist(ctx context.Context, resolution models.Resolution) error
}

// Flusher is implemented by sinks that buffer records until the end of a run.
type Flusher interface {
	Flush() error
}

// Reconciler walks a batch of facilities through a resolver and hands every
// resolved record to the configured sinks.
type Reconciler struct {
	log      *slog.Logger
	resolver Resolver
	sinks    []Sink
	metrics  *metrics.Metrics
}

// NewReconciler creates a reconciler. metrics may be nil.
func NewReconciler(log *slog.Logger, resolver Resolver, appMetrics *metrics.Metrics, sinks ...Sink) *Reconciler {
	return &Reconciler{log: log, resolver: resolver, sinks: sinks, metrics: appMetrics}
}

// Run resolves facilities in input order and persists each resolved record before moving on,
// so an interrupted run keeps what it already stored. A failure for one record is counted
// and the walk continues. Cancelling ctx stops the walk between records; the partial report
// is returned with the context error. Sinks are flushed once the walk ends.
func (r *Reconciler) Run(ctx context.Context, facilities []models.Facility) (models.Report, error) {
	var (
		report models.Report
		runErr error
	)

	r.log.InfoContext(ctx, "Reconciliation started", "resolver", r.resolver.Name(), "facilities", len(facilities))

	for _, facility := range facilities {
		if err := ctx.Err(); err != nil {
			r.log.WarnContext(ctx, "Reconciliation interrupted", "processed", report.Total(), "error", err)
			runErr = err
			break
		}

		resolution := r.resolver.Resolve(ctx, facility)

		switch resolution.Status {
		case models.Resolved:
			if err := r.persist(ctx, resolution); err != nil {
				r.log.ErrorContext(ctx, "Failed to persist resolution", "ID", facility.ID, "error", err)
				report.Errored++
				r.count("persist_error")
				continue
			}
			report.Updated++
			r.count("updated")
		case models.Unresolved:
			r.log.InfoContext(ctx, "Facility left unchanged", "ID", facility.ID, "name", facility.Name,
				"reason", resolution.Reason)
			report.Skipped++
			r.count("skipped")
		default:
			r.log.ErrorContext(ctx, "Failed to resolve facility", "ID", facility.ID, "name", facility.Name,
				"status", resolution.Status, "reason", resolution.Reason, "error", resolution.Err)
			report.Errored++
			r.count("errored")
		}
	}

	if err := r.flush(); err != nil {
		runErr = errors.Join(runErr, err)
	}

	r.log.InfoContext(ctx, "Reconciliation finished", "resolver", r.resolver.Name(),
		"updated", report.Updated, "skipped", report.Skipped, "errored", report.Errored)

	return report, runErr
}

func (r *Reconciler) persist(ctx context.Context, resolution models.Resolution) error {
	for _, sink := range r.sinks {
		if err := sink.Persist(ctx, resolution); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reconciler) flush() error {
	var errs []error
	for _, sink := range r.sinks {
		flusher, ok := sink.(Flusher)
		if !ok {
			continue
		}
		if err := flusher.Flush(); err != nil {
			errs = append(errs, fmt.Errorf("failed to flush sink: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (r *Reconciler) count(outcome string) {
	if r.metrics == nil {
		return
	}
	r.metrics.FacilitiesProcessed.WithLabelValues(r.resolver.Name(), outcome).Inc()
}
