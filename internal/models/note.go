package models

import (
	"time"

	"gorm.io/gorm"
)

// Note represents a short text note in the Notably application.
// AuthorID is immutable after creation; only the author may mutate a note.
type Note struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"foreignKey:AuthorID" json:"author"`
	// FavoriteCount is not persisted; computed at query time
	FavoriteCount int `gorm:"->" json:"favorite_count"`
	// Favorited indicates whether the current requesting user favorited this note (computed)
	Favorited bool           `gorm:"->" json:"favorited"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
