package models

import "time"

// Favorite represents a user's favorite mark on a note.
// The combination of NoteID and UserID must be unique; rows are hard-deleted
// when a favorite is toggled off so the composite index reflects live state.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NoteID    uint      `gorm:"not null;uniqueIndex:idx_note_user" json:"note_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_note_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Note Note `gorm:"foreignKey:NoteID" json:"note"`
	User User `gorm:"foreignKey:UserID" json:"user"`
}
