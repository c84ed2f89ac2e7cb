package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	userKeyPrefix     = "user:%d"
	noteKeyPrefix     = "note:%d"
	notesListKey      = "notes:recent"
	userNotesPrefix   = "user:%d:notes"
	favoritedByPrefix = "note:%d:favorited_by"
)

const (
	UserTTL        = 5 * time.Minute
	NoteTTL        = 30 * time.Minute
	ListTTL        = 1 * time.Minute
	FavoritedByTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func NoteKey(noteID uint) string {
	return fmt.Sprintf(noteKeyPrefix, noteID)
}

func NotesListKey() string {
	return notesListKey
}

func UserNotesKey(userID uint) string {
	return fmt.Sprintf(userNotesPrefix, userID)
}

func FavoritedByKey(noteID uint) string {
	return fmt.Sprintf(favoritedByPrefix, noteID)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateNote drops every cached view a note mutation can stale out:
// the note itself, its favoriters, and the recent list.
func InvalidateNote(ctx context.Context, noteID uint) {
	Invalidate(ctx, NoteKey(noteID), FavoritedByKey(noteID), notesListKey)
}

func InvalidateNotesList(ctx context.Context) {
	Invalidate(ctx, notesListKey)
}
