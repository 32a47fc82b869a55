package db

import (
	"fmt"

	"jot/internal/auth"
	"jot/internal/note"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	// TranslateError turns unique-index violations into gorm.ErrDuplicatedKey,
	// which the auth and tag services branch on.
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables (note_tags join table comes with Note)
	if err := gdb.AutoMigrate(
		&auth.User{},
		&note.Note{},
		&note.Tag{},
	); err != nil {
		return err
	}

	// Helpful indexes
	stmts := []string{
		`create index if not exists idx_notes_user_archived on notes(user_id, archived);`,
		`create index if not exists idx_notes_user_created on notes(user_id, created_at desc);`,
		`create index if not exists idx_note_tags_tag on note_tags(tag_id);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
