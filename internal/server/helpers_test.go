package server

import (
	"net/http"
	"testing"

	"notably/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizeParam(t *testing.T) {
	tests := []struct {
		param string
		want  string
	}{
		{"id", "ID"},
		{"noteId", "note ID"},
		{"userId", "user ID"},
		{"username", "username"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeParam(tt.param))
	}
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = parsePagination(c, 50)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Limit: 50, Offset: 0}},
		{"?limit=10&offset=20", Pagination{Limit: 10, Offset: 20}},
		{"?limit=0", Pagination{Limit: 50, Offset: 0}},
		{"?limit=-3", Pagination{Limit: 50, Offset: 0}},
		{"?limit=1000", Pagination{Limit: repository.MaxNotesPerPage, Offset: 0}},
		{"?offset=-1", Pagination{Limit: 50, Offset: 0}},
	}
	for _, tt := range tests {
		req, err := http.NewRequest(http.MethodGet, "/"+tt.query, nil)
		require.NoError(t, err)
		_, err = app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "query %q", tt.query)
	}
}

func TestParseIDRejectsBadInput(t *testing.T) {
	app, _ := newTestApp(t)
	alice := signupUser(t, app, "alice")

	for _, path := range []string{"/api/notes/abc", "/api/notes/0", "/api/notes/-1"} {
		resp, _ := doJSON(t, app, http.MethodDelete, path, alice, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "path %s", path)
	}
}
