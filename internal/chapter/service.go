package chapter

import (
	"context"

	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func (s *Service) ListAnnouncements(ctx context.Context, limit int) ([]Announcement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []Announcement
	err := s.DB.WithContext(ctx).
		Order("pinned desc, posted_at desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) ListResources(ctx context.Context) ([]Resource, error) {
	var out []Resource
	err := s.DB.WithContext(ctx).
		Order("category asc, title asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
