package handlers

import (
	"net/http"

	"scribe/internal/config"
	"scribe/internal/version"

	"github.com/labstack/echo/v4"
)

// Language is one entry of the supported language list
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SupportedLanguages is the static list exposed by GET /languages
var SupportedLanguages = []Language{
	{Code: "auto", Name: "Auto Detect"},
	{Code: "en", Name: "English"},
	{Code: "ja", Name: "日本語"},
	{Code: "es", Name: "Español"},
	{Code: "fr", Name: "Français"},
	{Code: "de", Name: "Deutsch"},
	{Code: "it", Name: "Italiano"},
	{Code: "pt", Name: "Português"},
	{Code: "nl", Name: "Nederlands"},
	{Code: "hi", Name: "हिन्दी"},
	{Code: "zh", Name: "中文"},
	{Code: "ko", Name: "한국어"},
	{Code: "ru", Name: "Русский"},
}

// MetaHandler serves the static service endpoints
type MetaHandler struct {
	cfg *config.Config
}

// NewMetaHandler creates a new MetaHandler
func NewMetaHandler(cfg *config.Config) *MetaHandler {
	return &MetaHandler{cfg: cfg}
}

// Languages returns the supported language list
// GET /languages
func (h *MetaHandler) Languages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"languages": SupportedLanguages,
	})
}

// Health reports service status and configuration flags
// GET /health
func (h *MetaHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":                "ok",
		"version":               version.Version,
		"credential_configured": h.cfg.HasCredential(),
		"ffmpeg_path":           h.cfg.FFmpegPath,
	})
}
