package db

import (
	"fmt"

	"chapterhub/internal/auth"
	"chapterhub/internal/catalog"
	"chapterhub/internal/chapter"
	"chapterhub/internal/schedule"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables
	if err := gdb.AutoMigrate(
		&auth.Member{},
		&catalog.Event{},
		&schedule.Association{},
		&chapter.Announcement{},
		&chapter.Resource{},
	); err != nil {
		return err
	}

	// Exactly one association per (member, event). This index is what
	// lets Add run ON CONFLICT DO NOTHING and treat a concurrent
	// duplicate create as success.
	if err := gdb.Exec(`create unique index if not exists uq_associations_member_event on associations(member_id, event_id);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_events_start_status on events(status, start_at);`,
		`create index if not exists idx_associations_pending on associations(member_id) where reminder_enabled and not reminder_sent;`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
