package reminder

import (
	"context"
	"testing"
	"time"
)

type fakePending struct {
	members []uint64
}

func (f *fakePending) MembersWithPendingReminders(context.Context) ([]uint64, error) {
	return f.members, nil
}

func TestWorkerRunAll(t *testing.T) {
	t.Parallel()

	store, events := fixture()
	notifier := &fakeNotifier{}
	c := &Coordinator{
		Associations: store,
		Events:       events,
		Notifier:     notifier,
		Now:          func() time.Time { return testNow },
	}
	w := &Worker{
		Pending:     &fakePending{members: []uint64{7, 8}},
		Coordinator: c,
	}

	w.RunAll(context.Background())

	// Member 7 has the due association; member 8 has nothing.
	if notifier.count() != 1 {
		t.Fatalf("notifier called %d times, want 1", notifier.count())
	}
	if !store.sent(1) {
		t.Fatal("association not marked sent")
	}

	// A second sweep finds nothing pending-due.
	w.RunAll(context.Background())
	if notifier.count() != 1 {
		t.Fatal("duplicate fire on second sweep")
	}
}
