package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dispatch-service/internal/model"
)

type fakeAssignmentStore struct {
	rows       []model.DriverAssignment
	cleared    []uuid.UUID
	markErrFor map[uuid.UUID]error
}

func (f *fakeAssignmentStore) ListUncleared(ctx context.Context) ([]model.DriverAssignment, error) {
	var uncleared []model.DriverAssignment
	for _, row := range f.rows {
		if !row.DispCleared {
			uncleared = append(uncleared, row)
		}
	}
	return uncleared, nil
}

func (f *fakeAssignmentStore) MarkCleared(ctx context.Context, id uuid.UUID) error {
	if err := f.markErrFor[id]; err != nil {
		return err
	}
	f.cleared = append(f.cleared, id)
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].DispCleared = true
		}
	}
	return nil
}

type fakeDispatchStore struct {
	cleared []int64
}

func (f *fakeDispatchStore) MarkCleared(ctx context.Context, companyID string, num int64) error {
	f.cleared = append(f.cleared, num)
	return nil
}

func newTestPoller(assignments *fakeAssignmentStore, dispatches *fakeDispatchStore, now time.Time) *AutoClear {
	p := NewAutoClear(assignments, dispatches, time.Second, zerolog.Nop())
	p.now = func() time.Time { return now }
	return p
}

func assignment(num int64, timeCleared string) model.DriverAssignment {
	return model.DriverAssignment{
		ID:          uuid.New(),
		CompanyID:   "acme-towing",
		DispatchNum: num,
		TimeCleared: timeCleared,
	}
}

func TestRunCycleClearsDueRows(t *testing.T) {
	now := mustTime(t, "2026-03-10 08:00")
	due := assignment(101, "0130")
	notYet := assignment(102, "0830")
	blank := assignment(103, "")

	assignments := &fakeAssignmentStore{rows: []model.DriverAssignment{due, notYet, blank}}
	dispatches := &fakeDispatchStore{}
	p := newTestPoller(assignments, dispatches, now)

	p.runCycle(context.Background())

	if len(assignments.cleared) != 1 || assignments.cleared[0] != due.ID {
		t.Fatalf("expected only the due assignment cleared, got %v", assignments.cleared)
	}
	if len(dispatches.cleared) != 1 || dispatches.cleared[0] != 101 {
		t.Fatalf("expected dispatch 101 cleared, got %v", dispatches.cleared)
	}
}

func TestRunCycleSkipsMalformedAndContinues(t *testing.T) {
	now := mustTime(t, "2026-03-10 08:00")
	malformed := assignment(201, "93")
	due := assignment(202, "0700")

	assignments := &fakeAssignmentStore{rows: []model.DriverAssignment{malformed, due}}
	dispatches := &fakeDispatchStore{}
	p := newTestPoller(assignments, dispatches, now)

	p.runCycle(context.Background())

	if len(dispatches.cleared) != 1 || dispatches.cleared[0] != 202 {
		t.Fatalf("expected dispatch 202 cleared despite malformed row, got %v", dispatches.cleared)
	}
}

func TestRunCycleContinuesPastRowError(t *testing.T) {
	now := mustTime(t, "2026-03-10 08:00")
	failing := assignment(301, "0100")
	due := assignment(302, "0200")

	assignments := &fakeAssignmentStore{
		rows:       []model.DriverAssignment{failing, due},
		markErrFor: map[uuid.UUID]error{failing.ID: errors.New("store unavailable")},
	}
	dispatches := &fakeDispatchStore{}
	p := newTestPoller(assignments, dispatches, now)

	p.runCycle(context.Background())

	if len(dispatches.cleared) != 1 || dispatches.cleared[0] != 302 {
		t.Fatalf("expected dispatch 302 cleared after earlier row failed, got %v", dispatches.cleared)
	}
}

func TestRunCycleIdempotent(t *testing.T) {
	now := mustTime(t, "2026-03-10 08:00")
	due := assignment(401, "0130")

	assignments := &fakeAssignmentStore{rows: []model.DriverAssignment{due}}
	dispatches := &fakeDispatchStore{}
	p := newTestPoller(assignments, dispatches, now)

	p.runCycle(context.Background())
	p.runCycle(context.Background())

	if len(assignments.cleared) != 1 {
		t.Fatalf("cleared row was selected again: %v", assignments.cleared)
	}
	if len(dispatches.cleared) != 1 {
		t.Fatalf("dispatch cleared twice: %v", dispatches.cleared)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	assignments := &fakeAssignmentStore{}
	dispatches := &fakeDispatchStore{}
	p := NewAutoClear(assignments, dispatches, 5*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop on context cancel")
	}
}
