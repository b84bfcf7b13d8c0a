package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"chapterhub/internal/catalog"
	"chapterhub/internal/schedule"
)

type fakeStore struct {
	mu      sync.Mutex
	rows    map[uint64]*schedule.Association
	listErr error
	markErr error
}

func (f *fakeStore) ListByMember(_ context.Context, memberID uint64) ([]schedule.Association, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []schedule.Association
	for _, a := range f.rows {
		if a.MemberID == memberID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkReminderSent(_ context.Context, associationID, memberID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	a, ok := f.rows[associationID]
	if !ok || a.MemberID != memberID {
		return schedule.ErrNotFound
	}
	a.ReminderSent = true
	return nil
}

func (f *fakeStore) sent(id uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id].ReminderSent
}

type fakeEvents struct {
	events map[uint64]catalog.Event
	err    error
}

func (f *fakeEvents) ByIDs(context.Context, []uint64) (map[uint64]catalog.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []Notification
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, n Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, n)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var testNow = time.Date(2026, 4, 9, 10, 0, 0, 0, time.UTC)

// fixture: member 7 has one association due at testNow (deadline
// tomorrow, lead 1 day).
func fixture() (*fakeStore, *fakeEvents) {
	deadline := testNow.Add(14 * time.Hour)
	store := &fakeStore{rows: map[uint64]*schedule.Association{
		1: {ID: 1, MemberID: 7, EventID: 10, ReminderEnabled: true, ReminderLeadDays: 1},
	}}
	events := &fakeEvents{events: map[uint64]catalog.Event{
		10: {ID: 10, Name: "spring gala", StartAt: testNow.AddDate(0, 0, 5),
			RegistrationDeadline: &deadline, Status: catalog.StatusUpcoming},
	}}
	return store, events
}

func TestRunCycleFiresOnce(t *testing.T) {
	t.Parallel()

	store, events := fixture()
	notifier := &fakeNotifier{}
	c := &Coordinator{
		Associations: store,
		Events:       events,
		Notifier:     notifier,
		Now:          func() time.Time { return testNow },
	}

	fired, err := c.RunCycle(context.Background(), 7)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if !store.sent(1) {
		t.Fatal("association not marked sent")
	}

	n := notifier.calls[0]
	if n.MemberID != 7 || n.EventID != 10 || n.EventName != "spring gala" {
		t.Fatalf("bad notification payload: %+v", n)
	}

	// Later cycles with sent=true never re-emit.
	for i := 0; i < 3; i++ {
		fired, err := c.RunCycle(context.Background(), 7)
		if err != nil {
			t.Fatalf("RunCycle: %v", err)
		}
		if fired != 0 {
			t.Fatalf("duplicate fire on cycle %d", i)
		}
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier called %d times, want 1", notifier.count())
	}
}

func TestRunCycleNotifyFailureLeavesPending(t *testing.T) {
	t.Parallel()

	store, events := fixture()
	notifier := &fakeNotifier{err: errors.New("push gateway down")}
	c := &Coordinator{
		Associations: store,
		Events:       events,
		Notifier:     notifier,
		Now:          func() time.Time { return testNow },
	}

	fired, err := c.RunCycle(context.Background(), 7)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if fired != 0 {
		t.Fatalf("fired = %d, want 0", fired)
	}
	if store.sent(1) {
		t.Fatal("sent flag set despite failed notification")
	}

	// Transport recovers: the next cycle delivers and marks.
	notifier.mu.Lock()
	notifier.err = nil
	notifier.mu.Unlock()

	fired, err = c.RunCycle(context.Background(), 7)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if fired != 1 || !store.sent(1) {
		t.Fatalf("retry did not deliver: fired=%d sent=%v", fired, store.sent(1))
	}
}

func TestRunCycleMarkFailureRedelivers(t *testing.T) {
	t.Parallel()

	// The other side of the at-least-once asymmetry: notify succeeds,
	// mark fails, so the same reminder is delivered again next cycle.
	store, events := fixture()
	store.markErr = errors.New("backend unavailable")
	notifier := &fakeNotifier{}
	c := &Coordinator{
		Associations: store,
		Events:       events,
		Notifier:     notifier,
		Now:          func() time.Time { return testNow },
	}

	fired, err := c.RunCycle(context.Background(), 7)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if fired != 0 {
		t.Fatalf("fired = %d, want 0 when mark fails", fired)
	}
	if notifier.count() != 1 {
		t.Fatalf("notifier called %d times, want 1", notifier.count())
	}
	if store.sent(1) {
		t.Fatal("sent flag set despite mark failure")
	}

	store.mu.Lock()
	store.markErr = nil
	store.mu.Unlock()

	fired, err = c.RunCycle(context.Background(), 7)
	if err != nil {
		t.Fatalf("RunCycle: %v", err)
	}
	if fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if notifier.count() != 2 {
		t.Fatalf("expected redelivery, notifier called %d times", notifier.count())
	}
}

func TestRunCycleAbortsOnEventFetchError(t *testing.T) {
	t.Parallel()

	store, events := fixture()
	events.err = errors.New("backend unavailable")
	notifier := &fakeNotifier{}
	c := &Coordinator{
		Associations: store,
		Events:       events,
		Notifier:     notifier,
		Now:          func() time.Time { return testNow },
	}

	if _, err := c.RunCycle(context.Background(), 7); err == nil {
		t.Fatal("expected error when event fetch fails")
	}
	if notifier.count() != 0 {
		t.Fatal("notified without a definite event answer")
	}
	if store.sent(1) {
		t.Fatal("marked sent without dispatching")
	}
}

// blockingNotifier parks the first Notify call until released so a test
// can observe a cycle in flight.
type blockingNotifier struct {
	started chan struct{}
	release chan struct{}
	inner   fakeNotifier
}

func (b *blockingNotifier) Notify(ctx context.Context, n Notification) error {
	b.started <- struct{}{}
	<-b.release
	return b.inner.Notify(ctx, n)
}

func TestRunCycleSkipsConcurrentCycleForSameMember(t *testing.T) {
	t.Parallel()

	store, events := fixture()
	notifier := &blockingNotifier{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := &Coordinator{
		Associations: store,
		Events:       events,
		Notifier:     notifier,
		Now:          func() time.Time { return testNow },
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.RunCycle(context.Background(), 7)
		done <- err
	}()
	<-notifier.started

	// Second cycle for the same member while the first holds the lock:
	// it must bail out immediately without dispatching anything.
	fired, err := c.RunCycle(context.Background(), 7)
	if err != nil {
		t.Fatalf("concurrent RunCycle: %v", err)
	}
	if fired != 0 {
		t.Fatalf("concurrent cycle fired %d reminders", fired)
	}

	close(notifier.release)
	if err := <-done; err != nil {
		t.Fatalf("first RunCycle: %v", err)
	}
	if notifier.inner.count() != 1 {
		t.Fatalf("notifier called %d times, want 1", notifier.inner.count())
	}
	if !store.sent(1) {
		t.Fatal("first cycle did not mark sent")
	}
}
