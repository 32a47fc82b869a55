package note

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTagCreate_EmptyName(t *testing.T) {
	gdb, _ := newTestDB(t)
	svc := &TagService{DB: gdb}

	// whitespace-only names are as empty as the empty string; neither
	// may reach the store
	for _, name := range []string{"", " ", "\t"} {
		_, err := svc.Create(context.Background(), name)
		if !errors.Is(err, ErrEmptyName) {
			t.Errorf("Create(%q): expected ErrEmptyName, got %v", name, err)
		}
	}
}

func TestTagCreate_ReturnsExisting(t *testing.T) {
	gdb, mock := newTestDB(t)
	svc := &TagService{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE name = any`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "work"))
	mock.ExpectCommit()

	tag, err := svc.Create(context.Background(), "work")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.ID != 3 {
		t.Errorf("expected existing tag id 3, got %d", tag.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestTagCreate_New(t *testing.T) {
	gdb, mock := newTestDB(t)
	svc := &TagService{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE name = any`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`INSERT INTO "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
	mock.ExpectCommit()

	tag, err := svc.Create(context.Background(), "home")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tag.ID != 4 || tag.Name != "home" {
		t.Errorf("unexpected tag: %+v", tag)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestTagDelete_NotFound(t *testing.T) {
	gdb, mock := newTestDB(t)
	svc := &TagService{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE "tags"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), 9)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTagDelete_InUse(t *testing.T) {
	gdb, mock := newTestDB(t)
	svc := &TagService{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE "tags"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "work"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "note_tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	err := svc.Delete(context.Background(), 3)
	if !errors.Is(err, ErrTagInUse) {
		t.Errorf("expected ErrTagInUse, got %v", err)
	}
}

func TestTagDelete_Unreferenced(t *testing.T) {
	gdb, mock := newTestDB(t)
	svc := &TagService{DB: gdb}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tags" WHERE "tags"\."id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, "work"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "note_tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`DELETE FROM "tags"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := svc.Delete(context.Background(), 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
