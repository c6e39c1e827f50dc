package db

import (
	"fmt"

	"engdaily/internal/jobs"
	"engdaily/internal/quiz"
	"engdaily/internal/reminder"
	"engdaily/internal/user"

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
		&user.User{},
		&reminder.Reminder{},
		&quiz.Result{},
		&jobs.Job{},
	); err != nil {
		return err
	}

	// The due-reminder scan filters on the exact minute plus weekday
	// membership; GIN over the text[] serves the ANY() lookup.
	if err := gdb.Exec(`create index if not exists idx_reminders_due on reminders(time) where triggered = false;`).Error; err != nil {
		return err
	}
	if err := gdb.Exec(`create index if not exists idx_reminders_days on reminders using gin (days);`).Error; err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_quiz_results_user_created on quiz_results(user_id, created_at desc);`,
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
