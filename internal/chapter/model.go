package chapter

import (
	"time"

	"github.com/lib/pq"
)

// Announcement is a chapter-wide post. Pinned announcements sort first.
type Announcement struct {
	ID       uint64         `gorm:"primaryKey"`
	Title    string         `gorm:"type:text;not null"`
	Body     string         `gorm:"type:text;not null;default:''"`
	Pinned   bool           `gorm:"index;not null;default:false"`
	Tags     pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	PostedAt time.Time      `gorm:"index;not null;default:now()"`
}

// Resource is a link shared with the chapter (bylaws, forms, drives).
type Resource struct {
	ID        uint64    `gorm:"primaryKey"`
	Title     string    `gorm:"type:text;not null"`
	URL       string    `gorm:"type:text;not null"`
	Category  string    `gorm:"index;not null;default:''"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
}
