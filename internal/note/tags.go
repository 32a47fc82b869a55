package note

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrEmptyName = errors.New("tag name is required")

// ErrTagInUse means the tag is still referenced by at least one note;
// deletion is rejected, never cascaded.
var ErrTagInUse = errors.New("tag is still in use")

type TagService struct {
	DB *gorm.DB
}

func (s *TagService) List(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := s.DB.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Create is idempotent: an existing tag with the same name is returned
// as-is, nothing is duplicated.
func (s *TagService) Create(ctx context.Context, name string) (*Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	var tag Tag
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, []string{name})
		if err != nil {
			return err
		}
		tag = tags[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *TagService) Delete(ctx context.Context, id uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag Tag
		if err := tx.First(&tag, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var refs int64
		if err := tx.Table("note_tags").Where("tag_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrTagInUse
		}

		return tx.Delete(&Tag{}, id).Error
	})
}
