package handlers

import (
	"net/http"

	"scribe/internal/textproc"

	"github.com/labstack/echo/v4"
)

// processTextRequest is the body of POST /process-text
type processTextRequest struct {
	Text            string `json:"text"`
	Language        string `json:"language"`
	ShouldTranslate bool   `json:"shouldTranslate"`
	ShouldFormat    bool   `json:"shouldFormat"`
}

// ProcessText applies the translate/format stubs to raw text
// POST /process-text
func ProcessText(c echo.Context) error {
	var req processTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	result := textproc.Process(req.Text, textproc.Options{
		Translate:      req.ShouldTranslate,
		TargetLanguage: req.Language,
		Format:         req.ShouldFormat,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"originalText":  result.Original,
		"processedText": result.Processed,
		"operations":    result.Operations,
	})
}
