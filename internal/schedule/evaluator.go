package schedule

import (
	"sort"
	"time"

	"chapterhub/internal/catalog"
)

// DueReminder is one association whose reminder window contains now.
type DueReminder struct {
	Association Association
	Event       catalog.Event
	// TriggerAt is the instant the reminder became due: the reference
	// instant minus the association's lead days.
	TriggerAt time.Time
	// ReferenceAt is the deadline when the event has one, else the
	// start date. Past this instant the reminder is stale and must
	// never fire.
	ReferenceAt time.Time
}

// DueReminders computes which associations are due at now. Pure: no
// clock, no store. Emitted reminders are sorted by trigger instant so
// dispatch order is deterministic.
//
// Per association with ReminderEnabled and not ReminderSent:
//   - skip if the event is missing or not upcoming
//   - reference = registration deadline if set, else start date;
//     the deadline strictly shadows the start date
//   - trigger = reference minus lead days (calendar days, so the
//     clock time survives DST transitions)
//   - due iff trigger <= now < reference
func DueReminders(now time.Time, associations []Association, eventsByID map[uint64]catalog.Event) []DueReminder {
	var due []DueReminder
	for _, a := range associations {
		if !a.ReminderEnabled || a.ReminderSent {
			continue
		}
		event, ok := eventsByID[a.EventID]
		if !ok || event.Status != catalog.StatusUpcoming {
			continue
		}

		reference := event.StartAt
		if event.RegistrationDeadline != nil {
			reference = *event.RegistrationDeadline
		}

		lead := a.ReminderLeadDays
		if lead < 0 {
			lead = 0
		}
		trigger := reference.AddDate(0, 0, -lead)

		if now.Before(trigger) || !now.Before(reference) {
			continue
		}

		due = append(due, DueReminder{
			Association: a,
			Event:       event,
			TriggerAt:   trigger,
			ReferenceAt: reference,
		})
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].TriggerAt.Before(due[j].TriggerAt)
	})
	return due
}
