package server

import (
	"notably/internal/models"
	"notably/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetNotes handles GET /api/notes
func (s *Server) GetNotes(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	notes, err := s.noteService.ListNotes(c.Context(), service.ListNotesInput{
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: currentUserID(c),
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"notes": notes})
}

// GetNote handles GET /api/notes/:id
func (s *Server) GetNote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	note, err := s.noteService.GetNote(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(note)
}

// CreateNote handles POST /api/notes
func (s *Server) CreateNote(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	note, err := s.noteService.CreateNote(c.Context(), service.CreateNoteInput{
		AuthorID: currentUserID(c),
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// UpdateNote handles PUT /api/notes/:id
func (s *Server) UpdateNote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	note, err := s.noteService.UpdateNote(c.Context(), service.UpdateNoteInput{
		UserID:  currentUserID(c),
		NoteID:  id,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(note)
}

// DeleteNote handles DELETE /api/notes/:id.  The response reports whether a
// note was actually removed; deleting someone else's note (or a missing one)
// is a quiet no-op rather than an error.
func (s *Server) DeleteNote(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	deleted, err := s.noteService.DeleteNote(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

// ToggleFavorite handles POST /api/notes/:id/favorite
func (s *Server) ToggleFavorite(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	note, err := s.noteService.ToggleFavorite(c.Context(), id, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(note)
}

// GetNoteFavoritedBy handles GET /api/notes/:id/favorited-by
func (s *Server) GetNoteFavoritedBy(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.noteService.FavoritedBy(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}
