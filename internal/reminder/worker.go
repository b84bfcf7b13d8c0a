package reminder

import (
	"context"
	"log"
)

// PendingSource lists members who own at least one enabled, unsent
// association.
type PendingSource interface {
	MembersWithPendingReminders(ctx context.Context) ([]uint64, error)
}

// Worker runs a dispatch cycle for every member with pending
// reminders. The cron schedule in cmd decides when; the worker itself
// is also safe to invoke on demand, e.g. from the HTTP layer on screen
// focus, because RunCycle skips members with a cycle already in
// flight.
type Worker struct {
	Pending     PendingSource
	Coordinator *Coordinator
}

func (w *Worker) RunAll(ctx context.Context) {
	members, err := w.Pending.MembersWithPendingReminders(ctx)
	if err != nil {
		log.Printf("reminder worker: list pending members: %v\n", err)
		return
	}
	for _, memberID := range members {
		if ctx.Err() != nil {
			return
		}
		fired, err := w.Coordinator.RunCycle(ctx, memberID)
		if err != nil {
			log.Printf("reminder worker: member=%d: %v\n", memberID, err)
			continue
		}
		if fired > 0 {
			log.Printf("reminder worker: member=%d fired=%d\n", memberID, fired)
		}
	}
}
