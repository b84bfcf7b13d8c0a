package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"chapterhub/internal/catalog"
	"chapterhub/internal/schedule"
)

// AssociationStore is the slice of the schedule store the coordinator
// needs.
type AssociationStore interface {
	ListByMember(ctx context.Context, memberID uint64) ([]schedule.Association, error)
	MarkReminderSent(ctx context.Context, associationID, memberID uint64) error
}

// EventSource batch-resolves catalog events.
type EventSource interface {
	ByIDs(ctx context.Context, ids []uint64) (map[uint64]catalog.Event, error)
}

// Coordinator drives the PENDING -> FIRED transition: evaluate, notify,
// mark sent. A failed notify leaves the association pending so the next
// cycle retries it; a failed mark after a successful notify may
// redeliver once (accepted at-least-once tradeoff).
type Coordinator struct {
	Associations AssociationStore
	Events       EventSource
	Notifier     Notifier

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time

	memberLocks sync.Map // memberID -> *sync.Mutex
}

// RunCycle evaluates and dispatches due reminders for one member. It
// returns the number of reminders fired (notified and marked). If
// another cycle for the same member is in flight this one is skipped:
// two concurrent cycles could both observe sent=false and double-fire.
func (c *Coordinator) RunCycle(ctx context.Context, memberID uint64) (int, error) {
	muAny, _ := c.memberLocks.LoadOrStore(memberID, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	if !mu.TryLock() {
		return 0, nil
	}
	defer mu.Unlock()

	associations, err := c.Associations.ListByMember(ctx, memberID)
	if err != nil {
		return 0, fmt.Errorf("dispatch cycle: %w", err)
	}
	if len(associations) == 0 {
		return 0, nil
	}

	ids := make([]uint64, 0, len(associations))
	for _, a := range associations {
		ids = append(ids, a.EventID)
	}
	events, err := c.Events.ByIDs(ctx, ids)
	if err != nil {
		// Abandoning the cycle here is safe: nothing was marked, the
		// next cycle re-evaluates from scratch.
		return 0, fmt.Errorf("dispatch cycle: %w", err)
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	fired := 0
	for _, d := range schedule.DueReminders(now, associations, events) {
		n := Notification{
			MemberID:    d.Association.MemberID,
			EventID:     d.Event.ID,
			EventName:   d.Event.Name,
			TriggerAt:   d.TriggerAt,
			ReferenceAt: d.ReferenceAt,
		}
		if err := c.Notifier.Notify(ctx, n); err != nil {
			// Stays PENDING; retried next cycle.
			log.Printf("reminder notify failed member=%d event=%d: %v\n", memberID, d.Event.ID, err)
			continue
		}
		if err := c.Associations.MarkReminderSent(ctx, d.Association.ID, memberID); err != nil {
			// Notified but not marked: the next cycle may redeliver.
			log.Printf("reminder mark-sent failed member=%d association=%d: %v\n", memberID, d.Association.ID, err)
			continue
		}
		fired++
	}
	return fired, nil
}
