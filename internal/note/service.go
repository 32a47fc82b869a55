package note

import (
	"context"
	"errors"
	"strings"

	"jot/internal/auth"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("not found")

// ErrNotOwner means the caller is authenticated but does not own the note.
var ErrNotOwner = errors.New("not the owner")

type Service struct {
	DB *gorm.DB
}

func (s *Service) ListActive(ctx context.Context, user *auth.User) ([]Note, error) {
	return s.list(ctx, user, false)
}

func (s *Service) ListArchived(ctx context.Context, user *auth.User) ([]Note, error) {
	return s.list(ctx, user, true)
}

func (s *Service) list(ctx context.Context, user *auth.User, archived bool) ([]Note, error) {
	var notes []Note
	err := s.DB.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ? AND archived = ?", user.ID, archived).
		Order("created_at desc").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Service) Create(ctx context.Context, user *auth.User, title, content string, tagNames []string) (*Note, error) {
	var created Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}
		n := Note{
			Title:   title,
			Content: content,
			UserID:  user.ID,
			Tags:    tags,
		}
		if err := tx.Create(&n).Error; err != nil {
			return err
		}
		created = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created.Tags == nil {
		created.Tags = []Tag{}
	}
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id uint64, user *auth.User, title, content string, tagNames []string) (*Note, error) {
	var out *Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := ownedNote(tx, id, user)
		if err != nil {
			return err
		}

		tags, err := findOrCreateTags(tx, tagNames)
		if err != nil {
			return err
		}

		if err := tx.Model(n).Select("title", "content").
			Updates(Note{Title: title, Content: content}).Error; err != nil {
			return err
		}

		// the tag set is replaced wholesale, not merged
		if len(tags) == 0 {
			err = tx.Model(n).Association("Tags").Clear()
		} else {
			err = tx.Model(n).Association("Tags").Replace(tags)
		}
		if err != nil {
			return err
		}

		n.Title = title
		n.Content = content
		n.Tags = tags
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Tags == nil {
		out.Tags = []Tag{}
	}
	return out, nil
}

func (s *Service) ToggleArchive(ctx context.Context, id uint64, user *auth.User) (*Note, error) {
	var out *Note
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := ownedNote(tx, id, user)
		if err != nil {
			return err
		}
		if err := tx.Model(n).Update("archived", !n.Archived).Error; err != nil {
			return err
		}
		out = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Tags == nil {
		out.Tags = []Tag{}
	}
	return out, nil
}

// Delete removes the note and its tag links. Tag rows stay, even when the
// note was their last reference.
func (s *Service) Delete(ctx context.Context, id uint64, user *auth.User) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := ownedNote(tx, id, user)
		if err != nil {
			return err
		}
		if err := tx.Model(n).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&Note{}, id).Error
	})
}

// ownedNote loads the note and re-checks ownership against the store.
// Ownership is never derived from token claims.
func ownedNote(tx *gorm.DB, id uint64, user *auth.User) (*Note, error) {
	var n Note
	if err := tx.Preload("Tags").First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if n.UserID != user.ID {
		return nil, ErrNotOwner
	}
	return &n, nil
}

// findOrCreateTags resolves names to tag rows, creating the missing ones.
// Names match exactly, case-sensitive; blanks and repeats are dropped.
// Concurrent creation of the same name is settled by the unique index:
// the insert does nothing on conflict, so the enclosing transaction stays
// usable and the winning row is re-read and adopted.
func findOrCreateTags(tx *gorm.DB, names []string) ([]Tag, error) {
	uniq := make([]string, 0, len(names))
	seen := map[string]struct{}{}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		uniq = append(uniq, name)
	}
	if len(uniq) == 0 {
		return nil, nil
	}

	var existing []Tag
	if err := tx.Where("name = any(?)", pq.Array(uniq)).Find(&existing).Error; err != nil {
		return nil, err
	}
	byName := make(map[string]Tag, len(existing))
	for _, t := range existing {
		byName[t.Name] = t
	}

	out := make([]Tag, 0, len(uniq))
	for _, name := range uniq {
		if t, ok := byName[name]; ok {
			out = append(out, t)
			continue
		}
		t := Tag{Name: name}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&t)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race: another request inserted this name first
			if err := tx.Where("name = ?", name).First(&t).Error; err != nil {
				return nil, err
			}
		}
		out = append(out, t)
	}
	return out, nil
}
