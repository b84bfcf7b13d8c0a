package catalog

import (
	"time"

	"github.com/lib/pq"
)

// Event categories are a fixed set; anything else is rejected at the
// filter/maintainer boundary.
const (
	CategoryMeeting    = "meeting"
	CategoryWorkshop   = "workshop"
	CategorySocial     = "social"
	CategoryService    = "service"
	CategoryFundraiser = "fundraiser"
	CategoryConference = "conference"
	CategoryOther      = "other"
)

const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Event is a catalog record. Maintained by chapter officers; read-only
// to members and to the reminder subsystem.
type Event struct {
	ID          uint64     `gorm:"primaryKey"`
	Name        string     `gorm:"type:text;not null"`
	Category    string     `gorm:"index;not null"`
	Division    string     `gorm:"index;not null;default:''"`
	Description string     `gorm:"type:text;not null;default:''"`
	StartAt     time.Time  `gorm:"index;not null"`
	EndAt       *time.Time `gorm:"type:timestamptz"`
	// RegistrationDeadline, when set, takes precedence over StartAt as
	// the reminder reference instant.
	RegistrationDeadline *time.Time `gorm:"type:timestamptz"`
	Location             string     `gorm:"type:text;not null;default:''"`
	Status               string     `gorm:"index;not null;default:'upcoming'"`

	Tags pq.StringArray `gorm:"type:text[];not null;default:'{}'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func ValidCategory(c string) bool {
	switch c {
	case CategoryMeeting, CategoryWorkshop, CategorySocial, CategoryService,
		CategoryFundraiser, CategoryConference, CategoryOther:
		return true
	}
	return false
}

func ValidStatus(s string) bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
