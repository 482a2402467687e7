package poller

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dispatch-service/internal/model"
)

// AssignmentStore is the slice of the assignment repository the poller
// needs.
type AssignmentStore interface {
	ListUncleared(ctx context.Context) ([]model.DriverAssignment, error)
	MarkCleared(ctx context.Context, id uuid.UUID) error
}

// DispatchStore flips the dispatch-level cleared flag.
type DispatchStore interface {
	MarkCleared(ctx context.Context, companyID string, num int64) error
}

// AutoClear promotes dispatched, uncleared assignments to cleared once
// their recorded clear time has passed. It runs once at startup and then
// on a fixed interval until its context is cancelled.
type AutoClear struct {
	assignments AssignmentStore
	dispatches  DispatchStore
	interval    time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

func NewAutoClear(assignments AssignmentStore, dispatches DispatchStore, interval time.Duration, log zerolog.Logger) *AutoClear {
	return &AutoClear{
		assignments: assignments,
		dispatches:  dispatches,
		interval:    interval,
		log:         log,
		now:         time.Now,
	}
}

// Run blocks until ctx is cancelled. Main owns the goroutine.
func (p *AutoClear) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.log.Info().Dur("interval", p.interval).Msg("auto-clear poller started")
	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Msg("auto-clear poller stopped")
			return
		case <-ticker.C:
			p.runCycle(ctx)
		}
	}
}

// runCycle processes every candidate row; a bad row is logged and skipped
// so one malformed time never stalls the rest.
func (p *AutoClear) runCycle(ctx context.Context) {
	assignments, err := p.assignments.ListUncleared(ctx)
	if err != nil {
		p.log.Error().Err(err).Msg("auto-clear: list uncleared assignments")
		return
	}

	now := p.now()
	for _, assignment := range assignments {
		if err := p.process(ctx, assignment, now); err != nil {
			p.log.Error().Err(err).
				Int64("dispatch_num", assignment.DispatchNum).
				Str("company_id", assignment.CompanyID).
				Msg("auto-clear: process assignment")
		}
	}
}

func (p *AutoClear) process(ctx context.Context, assignment model.DriverAssignment, now time.Time) error {
	if assignment.TimeCleared == "" {
		return nil
	}

	due, err := ClearTimeDue(assignment.TimeCleared, now)
	if err != nil {
		p.log.Warn().
			Str("time_cleared", assignment.TimeCleared).
			Int64("dispatch_num", assignment.DispatchNum).
			Msg("auto-clear: skipping malformed clear time")
		return nil
	}
	if !due {
		return nil
	}

	// Two independent writes; a failure between them leaves a half-cleared
	// pair until a later cycle or a manual clear catches it.
	if err := p.assignments.MarkCleared(ctx, assignment.ID); err != nil {
		return err
	}
	if err := p.dispatches.MarkCleared(ctx, assignment.CompanyID, assignment.DispatchNum); err != nil {
		return err
	}

	p.log.Info().
		Int64("dispatch_num", assignment.DispatchNum).
		Str("company_id", assignment.CompanyID).
		Str("time_cleared", assignment.TimeCleared).
		Msg("auto-clear: dispatch cleared")
	return nil
}
