package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SupportedFormats lists media containers accepted for transcription
var SupportedFormats = []string{
	".mp3", ".m4a", ".aac", ".ogg", ".flac", ".wav", ".webm", ".opus",
	".mp4", ".mov", ".avi", ".mkv",
}

// ValidationError reports a file that cannot enter the pipeline
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid media file %s: %s", filepath.Base(e.Path), e.Reason)
}

// IsSupportedFormat checks if the file extension is a supported media format
func IsSupportedFormat(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, format := range SupportedFormats {
		if ext == format {
			return true
		}
	}
	return false
}

// ValidateFile rejects files with unsupported extensions and empty files.
// The error message names the offending extension and the accepted list.
func ValidateFile(path string) error {
	if !IsSupportedFormat(path) {
		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = "(none)"
		}
		return &ValidationError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported extension %s, accepted: %s", ext, strings.Join(SupportedFormats, ", ")),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Path: path, Reason: err.Error()}
	}
	if info.Size() == 0 {
		return &ValidationError{Path: path, Reason: "file is empty"}
	}

	return nil
}
