package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("event not found")

type Service struct {
	DB *gorm.DB
}

// Filter predicates are AND-combined; zero values impose no constraint.
type Filter struct {
	Category  string
	Division  string
	Status    string
	StartFrom *time.Time
	StartTo   *time.Time
}

// List returns catalog events matching the filter, ordered by start
// ascending. Listing callers that can tolerate degraded UX treat an
// error as an empty catalog; the call is read-only and safe to retry.
func (s *Service) List(ctx context.Context, f Filter) ([]Event, error) {
	q := s.DB.WithContext(ctx).Model(&Event{})

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Division != "" {
		q = q.Where("division = ?", f.Division)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.StartFrom != nil {
		q = q.Where("start_at >= ?", *f.StartFrom)
	}
	if f.StartTo != nil {
		q = q.Where("start_at <= ?", *f.StartTo)
	}

	var events []Event
	if err := q.Order("start_at asc").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Event, error) {
	var e Event
	if err := s.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ByIDs batch-fetches events for the dispatch coordinator. Missing ids
// are simply absent from the map; backend errors propagate because the
// caller needs a definite answer before mutating reminder state.
func (s *Service) ByIDs(ctx context.Context, ids []uint64) (map[uint64]Event, error) {
	out := make(map[uint64]Event, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var events []Event
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&events).Error; err != nil {
		return nil, err
	}
	for _, e := range events {
		out[e.ID] = e
	}
	return out, nil
}
