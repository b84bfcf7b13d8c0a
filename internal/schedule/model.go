package schedule

import "time"

// Association links one member to one catalog event and carries that
// member's reminder preferences for it. Exactly one row exists per
// (member, event) pair; the unique index in internal/db absorbs
// concurrent double-adds.
type Association struct {
	ID       uint64 `gorm:"primaryKey"`
	MemberID uint64 `gorm:"index;not null"`
	EventID  uint64 `gorm:"index;not null"`

	ReminderEnabled bool `gorm:"not null;default:true"`
	// ReminderLeadDays is a whole number of calendar days subtracted
	// from the reference instant (deadline, else start date).
	ReminderLeadDays int `gorm:"not null;default:1"`
	// ReminderSent flips false -> true exactly once; there is no
	// transition back. An association whose reminder has fired never
	// fires again.
	ReminderSent bool `gorm:"index;not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}
