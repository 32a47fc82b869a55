package note

import "time"

// Note belongs to exactly one user, set at creation and never reassigned.
type Note struct {
	ID        uint64    `gorm:"primaryKey"`
	Title     string    `gorm:"not null"`
	Content   string    `gorm:"type:text;not null;default:''"`
	Archived  bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null;default:now()"`
	UserID    uint64    `gorm:"index;not null"`

	Tags []Tag `gorm:"many2many:note_tags"`
}

// Tag is shared across users and notes; name is the identity.
type Tag struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}
