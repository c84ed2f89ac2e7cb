package repository

import (
	"context"
	"errors"

	"notably/internal/cache"
	"notably/internal/models"
	"notably/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository defines persistence operations for favorite marks.
type FavoriteRepository interface {
	Toggle(ctx context.Context, noteID, userID uint) (bool, error)
	Count(ctx context.Context, noteID uint) (int64, error)
	IsFavorited(ctx context.Context, noteID, userID uint) (bool, error)
	FavoritedBy(ctx context.Context, noteID uint) ([]models.User, error)
	FavoritesOf(ctx context.Context, userID uint, limit, offset int) ([]*models.Note, error)
}

type favoriteRepository struct {
	db    *gorm.DB
	notes *noteRepository
}

// NewFavoriteRepository returns a new FavoriteRepository implementation.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db, notes: &noteRepository{db: db}}
}

// Toggle flips the favorite state of a note for a user and reports the state
// after the flip. The insert-or-delete runs in one transaction: a conflicting
// concurrent toggle either loses the insert race (and this call deletes) or
// loses the delete race (and this call inserts), so the row count never drifts.
func (r *favoriteRepository) Toggle(ctx context.Context, noteID, userID uint) (bool, error) {
	done := observability.TrackQuery("toggle", "favorites")
	defer done()

	var note models.Note
	if err := r.db.WithContext(ctx).Select("id").First(&note, noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, models.NewNotFoundError("Note", noteID)
		}
		return false, models.NewInternalError(err)
	}

	favorited := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fav := models.Favorite{NoteID: noteID, UserID: userID}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).Create(&fav)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			favorited = true
			return nil
		}
		// Row already existed, so this toggle removes it.
		return tx.Where("note_id = ? AND user_id = ?", noteID, userID).
			Delete(&models.Favorite{}).Error
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}

	observability.FavoriteToggles.WithLabelValues(toggleLabel(favorited)).Inc()
	cache.InvalidateNote(ctx, noteID)
	return favorited, nil
}

func (r *favoriteRepository) Count(ctx context.Context, noteID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("note_id = ?", noteID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *favoriteRepository) IsFavorited(ctx context.Context, noteID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// FavoritedBy lists the users who currently favorite a note, most recent first.
func (r *favoriteRepository) FavoritedBy(ctx context.Context, noteID uint) ([]models.User, error) {
	var users []models.User
	key := cache.FavoritedByKey(noteID)

	err := cache.Aside(ctx, key, &users, cache.FavoritedByTTL, func() error {
		done := observability.TrackQuery("select", "favorites")
		defer done()
		return r.db.WithContext(ctx).
			Joins("JOIN favorites ON favorites.user_id = users.id").
			Where("favorites.note_id = ?", noteID).
			Order("favorites.created_at DESC").
			Find(&users).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// FavoritesOf lists the notes a user currently favorites, most recently
// favorited first, with the favorited flag already true by construction.
func (r *favoriteRepository) FavoritesOf(ctx context.Context, userID uint, limit, offset int) ([]*models.Note, error) {
	var notes []*models.Note
	if err := r.notes.applyNoteDetails(r.db.WithContext(ctx), userID).
		Preload("Author").
		Joins("JOIN favorites ON favorites.note_id = notes.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Limit(clampLimit(limit)).
		Offset(offset).
		Find(&notes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notes, nil
}

func toggleLabel(favorited bool) string {
	if favorited {
		return "favorited"
	}
	return "unfavorited"
}
