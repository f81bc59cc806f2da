package handlers

import (
	"net/http"
	"strconv"

	"scribe/internal/storage"

	"github.com/labstack/echo/v4"
)

// TranscriptHandler serves the saved transcript history
type TranscriptHandler struct {
	repo *storage.TranscriptRepository
}

// NewTranscriptHandler creates a new TranscriptHandler
func NewTranscriptHandler(repo *storage.TranscriptRepository) *TranscriptHandler {
	return &TranscriptHandler{repo: repo}
}

// List returns recent transcripts, newest first
// GET /transcripts?limit=50
func (h *TranscriptHandler) List(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	transcripts, err := h.repo.List(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if transcripts == nil {
		transcripts = []*storage.Transcript{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"transcripts": transcripts})
}

// Get returns one transcript by id
// GET /transcripts/:id
func (h *TranscriptHandler) Get(c echo.Context) error {
	t, err := h.repo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if t == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "transcript not found"})
	}
	return c.JSON(http.StatusOK, t)
}

// Delete removes one transcript by id
// DELETE /transcripts/:id
func (h *TranscriptHandler) Delete(c echo.Context) error {
	deleted, err := h.repo.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "transcript not found"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "transcript deleted"})
}
