package repository

import (
	"context"
	"errors"

	"notably/internal/cache"
	"notably/internal/models"
	"notably/internal/observability"

	"gorm.io/gorm"
)

// MaxNotesPerPage caps the page size for note listings.
const MaxNotesPerPage = 100

// NoteRepository defines persistence operations for notes.
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Note, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Note, error)
	GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Note, error)
	UpdateContent(ctx context.Context, id, authorID uint, content string) (int64, error)
	Delete(ctx context.Context, id, authorID uint) (bool, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository returns a new NoteRepository implementation.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *models.Note) error {
	done := observability.TrackQuery("insert", "notes")
	defer done()
	if err := r.db.WithContext(ctx).Create(note).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateNotesList(ctx)
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Note, error) {
	var note models.Note

	fetch := func() error {
		done := observability.TrackQuery("select", "notes")
		defer done()
		if err := r.applyNoteDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			First(&note, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Note", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	}

	// Anonymous reads share a cache entry; per-user favorited flags do not.
	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.NoteKey(id), &note, cache.NoteTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Note, error) {
	var notes []*models.Note
	if err := r.applyNoteDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Order("notes.created_at DESC").
		Limit(clampLimit(limit)).
		Offset(offset).
		Find(&notes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notes, nil
}

func (r *noteRepository) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int, currentUserID uint) ([]*models.Note, error) {
	var notes []*models.Note
	if err := r.applyNoteDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("notes.created_at DESC").
		Limit(clampLimit(limit)).
		Offset(offset).
		Find(&notes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notes, nil
}

// UpdateContent changes a note's content only when both the id and the author
// match, so ownership is enforced in the same statement as the write. Returns
// the number of rows touched; zero means the note vanished or changed hands
// between the caller's check and this write.
func (r *noteRepository) UpdateContent(ctx context.Context, id, authorID uint, content string) (int64, error) {
	done := observability.TrackQuery("update", "notes")
	defer done()
	result := r.db.WithContext(ctx).
		Model(&models.Note{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Update("content", content)
	if result.Error != nil {
		return 0, models.NewInternalError(result.Error)
	}
	if result.RowsAffected > 0 {
		cache.InvalidateNote(ctx, id)
	}
	return result.RowsAffected, nil
}

// Delete removes a note owned by authorID along with its favorites, inside a
// single transaction. Returns false without error when no matching note
// exists; favorites are left untouched in that case.
func (r *noteRepository) Delete(ctx context.Context, id, authorID uint) (bool, error) {
	done := observability.TrackQuery("delete", "notes")
	defer done()

	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND author_id = ?", id, authorID).Delete(&models.Note{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("note_id = ?", id).Delete(&models.Favorite{}).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	if deleted {
		cache.InvalidateNote(ctx, id)
		cache.InvalidateNotesList(ctx)
	}
	return deleted, nil
}

// applyNoteDetails adds subqueries to fetch the favorite count and the current
// user's favorited flag in a single query.
func (r *noteRepository) applyNoteDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "notes.*, " +
		"(SELECT COUNT(*) FROM favorites WHERE favorites.note_id = notes.id) as favorite_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM favorites WHERE favorites.note_id = notes.id AND favorites.user_id = ?) as favorited", currentUserID)
	}
	return db.Select(selectQuery + ", false as favorited")
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxNotesPerPage {
		return MaxNotesPerPage
	}
	return limit
}
