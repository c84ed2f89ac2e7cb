package server

import (
	"notably/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.Me(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetUserProfile handles GET /api/users/:username
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	user, err := s.userService.GetByUsername(c.Context(), username)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetUserNotes handles GET /api/users/:username/notes
func (s *Server) GetUserNotes(c *fiber.Ctx) error {
	username := c.Params("username")
	p := parsePagination(c, 50)

	notes, err := s.noteService.GetUserNotes(c.Context(), username, p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"notes": notes})
}

// GetUserFavorites handles GET /api/users/:username/favorites
func (s *Server) GetUserFavorites(c *fiber.Ctx) error {
	username := c.Params("username")
	p := parsePagination(c, 50)

	notes, err := s.noteService.GetUserFavorites(c.Context(), username, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"notes": notes})
}
