package schedule

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound    = errors.New("association not found")
	ErrInvalidLead = errors.New("reminder lead days must be >= 0")
)

// Store persists member/event associations. Every operation is scoped
// by member id, so one member can never touch another member's rows.
type Store struct {
	DB *gorm.DB
}

func (s *Store) ListByMember(ctx context.Context, memberID uint64) ([]Association, error) {
	var out []Association
	err := s.DB.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("created_at asc").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list associations: %w", err)
	}
	return out, nil
}

type AddInput struct {
	ReminderEnabled  bool
	ReminderLeadDays int
}

func DefaultAddInput() AddInput {
	return AddInput{ReminderEnabled: true, ReminderLeadDays: 1}
}

// Add creates the association for (memberID, eventID). If the pair
// already exists the call succeeds without modifying the existing row:
// the insert runs ON CONFLICT DO NOTHING against the unique
// (member_id, event_id) index, so concurrent double-taps collapse to
// one row with the first writer's settings.
func (s *Store) Add(ctx context.Context, memberID, eventID uint64, in AddInput) error {
	if in.ReminderLeadDays < 0 {
		return ErrInvalidLead
	}

	a := Association{
		MemberID:         memberID,
		EventID:          eventID,
		ReminderEnabled:  in.ReminderEnabled,
		ReminderLeadDays: in.ReminderLeadDays,
	}
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "member_id"}, {Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&a).Error
	if err != nil {
		return fmt.Errorf("add association: %w", err)
	}
	return nil
}

// Remove deletes the association if present. Removing an absent pair
// is a success; deletion also invalidates any pending reminder since
// the row the evaluator would emit no longer exists.
func (s *Store) Remove(ctx context.Context, memberID, eventID uint64) error {
	err := s.DB.WithContext(ctx).
		Where("member_id = ? AND event_id = ?", memberID, eventID).
		Delete(&Association{}).Error
	if err != nil {
		return fmt.Errorf("remove association: %w", err)
	}
	return nil
}

// UpdateReminderSettings applies a partial update: leadDays only
// changes when non-nil.
func (s *Store) UpdateReminderSettings(ctx context.Context, memberID, eventID uint64, enabled bool, leadDays *int) error {
	updates := map[string]any{"reminder_enabled": enabled}
	if leadDays != nil {
		if *leadDays < 0 {
			return ErrInvalidLead
		}
		updates["reminder_lead_days"] = *leadDays
	}

	res := s.DB.WithContext(ctx).
		Model(&Association{}).
		Where("member_id = ? AND event_id = ?", memberID, eventID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update reminder settings: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReminderSent flips the sent flag, scoped by both the association
// id and the owning member. The write is a compare-and-set on
// reminder_sent = false: a second marker finds zero rows, and an
// already-sent association reports success rather than firing again.
func (s *Store) MarkReminderSent(ctx context.Context, associationID, memberID uint64) error {
	res := s.DB.WithContext(ctx).
		Model(&Association{}).
		Where("id = ? AND member_id = ? AND reminder_sent = false", associationID, memberID).
		Update("reminder_sent", true)
	if res.Error != nil {
		return fmt.Errorf("mark reminder sent: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Either already sent (fine) or not this member's row.
		var a Association
		err := s.DB.WithContext(ctx).
			Where("id = ? AND member_id = ?", associationID, memberID).
			First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("mark reminder sent: %w", err)
		}
	}
	return nil
}

// MembersWithPendingReminders returns the distinct member ids that own
// at least one enabled, unsent association. The periodic worker uses
// it to bound each cycle to members who could possibly be due.
func (s *Store) MembersWithPendingReminders(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := s.DB.WithContext(ctx).
		Model(&Association{}).
		Distinct("member_id").
		Where("reminder_enabled = true AND reminder_sent = false").
		Pluck("member_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("members with pending reminders: %w", err)
	}
	return ids, nil
}
