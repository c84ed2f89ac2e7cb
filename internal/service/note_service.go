package service

import (
	"context"
	"strings"

	"notably/internal/models"
	"notably/internal/repository"
	"notably/internal/validation"
)

type NoteService struct {
	noteRepo repository.NoteRepository
	favRepo  repository.FavoriteRepository
	userRepo repository.UserRepository
}

type CreateNoteInput struct {
	AuthorID uint
	Content  string
}

type UpdateNoteInput struct {
	UserID  uint
	NoteID  uint
	Content string
}

type ListNotesInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

func NewNoteService(
	noteRepo repository.NoteRepository,
	favRepo repository.FavoriteRepository,
	userRepo repository.UserRepository,
) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
		favRepo:  favRepo,
		userRepo: userRepo,
	}
}

func (s *NoteService) CreateNote(ctx context.Context, in CreateNoteInput) (*models.Note, error) {
	content := strings.TrimSpace(in.Content)
	if err := validation.ValidateNoteContent(content); err != nil {
		return nil, err
	}

	note := &models.Note{Content: content, AuthorID: in.AuthorID}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return s.noteRepo.GetByID(ctx, note.ID, in.AuthorID)
}

func (s *NoteService) GetNote(ctx context.Context, id, currentUserID uint) (*models.Note, error) {
	return s.noteRepo.GetByID(ctx, id, currentUserID)
}

func (s *NoteService) ListNotes(ctx context.Context, in ListNotesInput) ([]*models.Note, error) {
	return s.noteRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

// GetUserNotes lists the notes authored by the user with the given username.
func (s *NoteService) GetUserNotes(ctx context.Context, username string, limit, offset int, currentUserID uint) ([]*models.Note, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.noteRepo.GetByAuthorID(ctx, user.ID, limit, offset, currentUserID)
}

// GetUserFavorites lists the notes the user with the given username has
// favorited.
func (s *NoteService) GetUserFavorites(ctx context.Context, username string, limit, offset int) ([]*models.Note, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}
	return s.favRepo.FavoritesOf(ctx, user.ID, limit, offset)
}

// UpdateNote changes a note's content. A missing note is not-found; a note
// owned by someone else is forbidden, and the two are reported distinctly.
func (s *NoteService) UpdateNote(ctx context.Context, in UpdateNoteInput) (*models.Note, error) {
	content := strings.TrimSpace(in.Content)
	if err := validation.ValidateNoteContent(content); err != nil {
		return nil, err
	}

	note, err := s.noteRepo.GetByID(ctx, in.NoteID, in.UserID)
	if err != nil {
		return nil, err
	}
	if note.AuthorID != in.UserID {
		return nil, models.NewForbiddenError("you don't have permission to update this note")
	}

	rows, err := s.noteRepo.UpdateContent(ctx, in.NoteID, in.UserID, content)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// The note vanished between the read and the write.
		return nil, models.NewNotFoundError("Note", in.NoteID)
	}
	return s.noteRepo.GetByID(ctx, in.NoteID, in.UserID)
}

// DeleteNote removes a note owned by the caller. It reports whether a note
// was removed; deleting a nonexistent or foreign note is a quiet no-op.
func (s *NoteService) DeleteNote(ctx context.Context, noteID, userID uint) (bool, error) {
	return s.noteRepo.Delete(ctx, noteID, userID)
}

// ToggleFavorite flips the caller's favorite on a note and returns the note
// with its refreshed count and flag.
func (s *NoteService) ToggleFavorite(ctx context.Context, noteID, userID uint) (*models.Note, error) {
	if _, err := s.favRepo.Toggle(ctx, noteID, userID); err != nil {
		return nil, err
	}
	return s.noteRepo.GetByID(ctx, noteID, userID)
}

// FavoritedBy returns the users who currently favorite a note.
func (s *NoteService) FavoritedBy(ctx context.Context, noteID uint) ([]models.User, error) {
	if _, err := s.noteRepo.GetByID(ctx, noteID, 0); err != nil {
		return nil, err
	}
	return s.favRepo.FavoritedBy(ctx, noteID)
}
