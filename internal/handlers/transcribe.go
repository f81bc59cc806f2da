package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"scribe/internal/media"
	"scribe/internal/pipeline"
	"scribe/internal/storage"
	"scribe/internal/textproc"
	"scribe/internal/transcription"
	"scribe/internal/youtube"

	"github.com/labstack/echo/v4"
)

// Runner executes one transcription pipeline
type Runner interface {
	Run(ctx context.Context, input pipeline.Input) (*transcription.Result, error)
}

// VideoInfoFetcher resolves metadata for a remote video URL
type VideoInfoFetcher interface {
	GetVideo(url string) (*youtube.VideoInfo, error)
}

// TranscribeHandler handles transcription HTTP requests
type TranscribeHandler struct {
	runner         Runner
	videos         VideoInfoFetcher
	transcriptRepo *storage.TranscriptRepository
	tempDir        string
}

// NewTranscribeHandler creates a new TranscribeHandler. videos and
// transcriptRepo may be nil to disable title lookup and history saving.
func NewTranscribeHandler(runner Runner, videos VideoInfoFetcher, transcriptRepo *storage.TranscriptRepository, tempDir string) *TranscribeHandler {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &TranscribeHandler{
		runner:         runner,
		videos:         videos,
		transcriptRepo: transcriptRepo,
		tempDir:        tempDir,
	}
}

// transcribeRequest is the remote-url request body
type transcribeRequest struct {
	URL             string `json:"url"`
	Language        string `json:"language"`
	ShouldTranslate bool   `json:"shouldTranslate"`
	ShouldFormat    bool   `json:"shouldFormat"`
}

// RemoteURL handles transcription of a remote video URL
// POST /transcribe/remote-url
func (h *TranscribeHandler) RemoteURL(c echo.Context) error {
	var req transcribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "url is required"})
	}

	// Validate before any download work
	if _, err := youtube.ValidateURL(req.URL); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.runner.Run(c.Request().Context(), pipeline.Input{
		URL:     req.URL,
		Options: transcription.Options{Language: req.Language},
	})
	if err != nil {
		return h.pipelineError(c, err)
	}

	h.saveHistory(c.Request().Context(), storage.SourceKindDownloaded, h.sourceTitle(req.URL), result)
	return h.respond(c, req, result)
}

// Upload handles transcription of an uploaded media file
// POST /transcribe/upload
func (h *TranscribeHandler) Upload(c echo.Context) error {
	req := transcribeRequest{
		Language:        c.FormValue("language"),
		ShouldTranslate: c.FormValue("shouldTranslate") == "true",
		ShouldFormat:    c.FormValue("shouldFormat") == "true",
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "no file uploaded"})
	}

	if !media.IsSupportedFormat(fh.Filename) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("unsupported file type %s, accepted: %v", filepath.Ext(fh.Filename), media.SupportedFormats),
		})
	}
	if fh.Size == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "uploaded file is empty"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to open upload"})
	}
	defer src.Close()

	// Persist the upload under a unique name; the pipeline owns it from
	// here and removes it during cleanup.
	localPath := filepath.Join(h.tempDir,
		fmt.Sprintf("%d_upload%s", time.Now().UnixNano(), filepath.Ext(fh.Filename)))
	dest, err := os.Create(localPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save upload"})
	}
	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		os.Remove(localPath)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to save upload"})
	}
	dest.Close()

	result, err := h.runner.Run(c.Request().Context(), pipeline.Input{
		LocalPath:       localPath,
		TransientSource: true,
		Options:         transcription.Options{Language: req.Language},
	})
	if err != nil {
		return h.pipelineError(c, err)
	}

	h.saveHistory(c.Request().Context(), storage.SourceKindUploaded, fh.Filename, result)
	return h.respond(c, req, result)
}

// respond renders the result, applying post-processing when requested
func (h *TranscribeHandler) respond(c echo.Context, req transcribeRequest, result *transcription.Result) error {
	if !req.ShouldTranslate && !req.ShouldFormat {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"transcription":     result.Text,
			"confidence":        result.Confidence,
			"language_detected": result.LanguageCode,
		})
	}

	// "auto" is a detection request, not a translation target; use the
	// language the vendor actually detected.
	targetLang := req.Language
	if targetLang == "" || targetLang == "auto" {
		targetLang = result.LanguageCode
	}

	processed := textproc.Process(result.Text, textproc.Options{
		Translate:      req.ShouldTranslate,
		TargetLanguage: targetLang,
		Format:         req.ShouldFormat,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"originalTranscription":  processed.Original,
		"processedTranscription": processed.Processed,
		"confidence":             result.Confidence,
		"language_detected":      result.LanguageCode,
		"operations":             processed.Operations,
	})
}

// sourceTitle resolves a display name for a remote source, falling back to
// the raw URL when metadata lookup is unavailable or fails.
func (h *TranscribeHandler) sourceTitle(videoURL string) string {
	if h.videos == nil {
		return videoURL
	}
	info, err := h.videos.GetVideo(videoURL)
	if err != nil || info.Title == "" {
		return videoURL
	}
	return info.Title
}

// pipelineError maps pipeline failures to HTTP responses
func (h *TranscribeHandler) pipelineError(c echo.Context, err error) error {
	var verr *media.ValidationError
	var uerr *youtube.InvalidURLError
	if errors.As(err, &verr) || errors.As(err, &uerr) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// saveHistory stores the finished transcript, best effort
func (h *TranscribeHandler) saveHistory(ctx context.Context, kind, name string, result *transcription.Result) {
	if h.transcriptRepo == nil || result.Placeholder {
		return
	}
	t := &storage.Transcript{
		SourceKind: kind,
		SourceName: name,
		Language:   result.LanguageCode,
		Confidence: result.Confidence,
		Text:       result.Text,
	}
	if err := h.transcriptRepo.Create(ctx, t); err != nil {
		log.Printf("failed to save transcript history: %v", err)
	}
}
