// Package pipeline composes acquisition, normalization, and transcription
// into one request-scoped run with guaranteed cleanup of every transient
// artifact, whatever the outcome.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"scribe/internal/media"
	"scribe/internal/transcription"
)

// Acquirer materializes a remote video URL as a local media file
type Acquirer interface {
	DownloadAudio(ctx context.Context, videoURL, outputPath string) error
	// BestAudioExtension names the container the download will produce
	BestAudioExtension(ctx context.Context, videoURL string) string
}

// Converter normalizes a local media file to canonical audio
type Converter interface {
	ConvertWithFallback(ctx context.Context, inputPath, outputPath string, onProgress media.ProgressFunc) (string, error)
	// NeedsConversion reports whether the file is not yet canonical audio
	NeedsConversion(ctx context.Context, inputPath string) bool
}

// Transcriber turns a canonical audio artifact into text
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts transcription.Options) (*transcription.Result, error)
}

// Input describes one transcription request. Exactly one of URL or
// LocalPath must be set.
type Input struct {
	URL       string
	LocalPath string
	// TransientSource marks LocalPath as owned by this request, so it is
	// deleted during cleanup (uploaded files). CLI callers leave it false
	// to keep the user's file.
	TransientSource bool
	Options         transcription.Options
	// OnStage receives stage names for diagnostics only
	OnStage func(stage string)
}

// Orchestrator runs the acquire → convert → transcribe pipeline
type Orchestrator struct {
	acquirer    Acquirer
	converter   Converter
	transcriber Transcriber
	tempDir     string
}

// New creates an Orchestrator writing transient artifacts under tempDir
func New(acquirer Acquirer, converter Converter, transcriber Transcriber, tempDir string) *Orchestrator {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Orchestrator{
		acquirer:    acquirer,
		converter:   converter,
		transcriber: transcriber,
		tempDir:     tempDir,
	}
}

// Run executes one pipeline. Artifacts created by this request are
// removed before returning, on success and on failure alike; cleanup
// failures are logged and never replace the pipeline error.
func (o *Orchestrator) Run(ctx context.Context, input Input) (*transcription.Result, error) {
	stage := func(name string) {
		if input.OnStage != nil {
			input.OnStage(name)
		}
	}

	// Unique per-request artifact names avoid collisions between
	// concurrent pipelines sharing the temp directory.
	base := fmt.Sprintf("%d", time.Now().UnixNano())

	var artifacts []string
	defer func() {
		stage("cleanup")
		for _, path := range artifacts {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.Printf("cleanup: failed to remove %s: %v", path, err)
			}
		}
	}()

	sourcePath := input.LocalPath

	if input.URL != "" {
		stage("acquiring")
		acquiredPath := filepath.Join(o.tempDir, base+"_source"+o.acquirer.BestAudioExtension(ctx, input.URL))
		if err := o.acquirer.DownloadAudio(ctx, input.URL, acquiredPath); err != nil {
			// The adapter removes its own partial file; nothing of ours
			// exists yet.
			return nil, fmt.Errorf("acquisition failed: %w", err)
		}
		artifacts = append(artifacts, acquiredPath)
		sourcePath = acquiredPath
	} else {
		// A transient source is request-owned from the start, so it is
		// cleaned up even when validation rejects it.
		if input.TransientSource {
			artifacts = append(artifacts, sourcePath)
		}
		if err := media.ValidateFile(sourcePath); err != nil {
			return nil, err
		}
	}

	var audioPath string
	if o.converter.NeedsConversion(ctx, sourcePath) {
		stage("converting")
		targetPath := filepath.Join(o.tempDir, base+"_audio.mp3")
		// Track both candidate outputs up front: a failed attempt may
		// leave a partial file behind and removing it is this layer's job.
		artifacts = append(artifacts, targetPath, media.WavSibling(targetPath))

		var err error
		audioPath, err = o.converter.ConvertWithFallback(ctx, sourcePath, targetPath, func(event, detail string) {
			log.Printf("conversion %s: %s", event, detail)
		})
		if err != nil {
			return nil, fmt.Errorf("conversion failed: %w", err)
		}
	} else {
		// Already canonical audio, submit as is
		audioPath = sourcePath
	}

	stage("transcribing")
	result, err := o.transcriber.Transcribe(ctx, audioPath, input.Options)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	return result, nil
}
