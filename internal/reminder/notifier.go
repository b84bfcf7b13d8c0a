package reminder

import (
	"context"
	"log"
	"time"
)

// Notification is the payload handed to the delivery transport. The
// transport only delivers; idempotency is guaranteed upstream by the
// sent-flag state machine.
type Notification struct {
	MemberID    uint64
	EventID     uint64
	EventName   string
	TriggerAt   time.Time
	ReferenceAt time.Time
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier stands in for the push/email transport: it writes the
// reminder to the process log.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Printf("[REMINDER] member=%d event=%d name=%q due_since=%s until=%s\n",
		n.MemberID, n.EventID, n.EventName,
		n.TriggerAt.Format(time.RFC3339), n.ReferenceAt.Format(time.RFC3339))
	return nil
}
