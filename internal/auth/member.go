package auth

import "time"

// Member is an account in the chapter. The id in the JWT "sub" claim
// scopes every schedule read/write to rows this member owns.
type Member struct {
	ID           uint64    `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	FirstName    string    `gorm:"type:text;not null;default:''"`
	LastName     string    `gorm:"type:text;not null;default:''"`
	Division     string    `gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"not null;default:now()"`
}
