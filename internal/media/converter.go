package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ConversionError reports a failed conversion, including the encoder output
type ConversionError struct {
	InputPath  string
	OutputPath string
	Output     string
	Err        error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion of %s to %s failed: %v", filepath.Base(e.InputPath), filepath.Base(e.OutputPath), e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// ProgressFunc receives conversion lifecycle events for diagnostics.
// Events carry no contractual meaning.
type ProgressFunc func(event string, detail string)

// commandRunner abstracts process execution for testability
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner executes commands via os/exec
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Converter normalizes media files to canonical audio (mono, 16kHz)
// using an external ffmpeg binary.
type Converter struct {
	ffmpegPath  string
	ffprobePath string
	runner      commandRunner
}

// NewConverter creates a Converter around the given ffmpeg/ffprobe binaries.
// Empty paths fall back to lookup on PATH.
func NewConverter(ffmpegPath, ffprobePath string) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Converter{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		runner:      execRunner{},
	}
}

// Available checks whether the configured ffmpeg binary can be found
func (c *Converter) Available() bool {
	_, err := exec.LookPath(c.ffmpegPath)
	return err == nil
}

// Convert transcodes inputPath to outputPath as mono 16kHz audio.
// The output codec is selected by the output path's extension:
// .wav produces 16-bit linear PCM, .mp3 produces MP3.
// Returns the output path on success.
func (c *Converter) Convert(ctx context.Context, inputPath, outputPath string, onProgress ProgressFunc) (string, error) {
	report := func(event, detail string) {
		if onProgress != nil {
			onProgress(event, detail)
		}
	}

	if _, err := exec.LookPath(c.ffmpegPath); err != nil {
		e := &ConversionError{InputPath: inputPath, OutputPath: outputPath,
			Err: fmt.Errorf("ffmpeg not found: please install ffmpeg to convert media files")}
		report("error", e.Error())
		return "", e
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		e := &ConversionError{InputPath: inputPath, OutputPath: outputPath,
			Err: fmt.Errorf("input file not found: %s", inputPath)}
		report("error", e.Error())
		return "", e
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		e := &ConversionError{InputPath: inputPath, OutputPath: outputPath,
			Err: fmt.Errorf("failed to create output directory: %w", err)}
		report("error", e.Error())
		return "", e
	}

	// -ar 16000: sample rate 16kHz
	// -ac 1: mono channel
	// -y: overwrite output file
	args := []string{
		"-i", inputPath,
		"-ar", "16000",
		"-ac", "1",
	}
	args = append(args, codecArgs(outputPath)...)
	args = append(args, "-y", outputPath)

	report("start", outputPath)

	output, err := c.runner.Run(ctx, c.ffmpegPath, args...)
	if err != nil {
		e := &ConversionError{
			InputPath:  inputPath,
			OutputPath: outputPath,
			Output:     string(output),
			Err:        fmt.Errorf("ffmpeg conversion failed: %w", err),
		}
		report("error", e.Error())
		return "", e
	}

	report("end", outputPath)
	return outputPath, nil
}

// ConvertWithFallback attempts the conversion as requested, and if the
// target is not WAV and the attempt fails, retries exactly once against
// the WAV sibling path. WAV itself has no further fallback.
func (c *Converter) ConvertWithFallback(ctx context.Context, inputPath, outputPath string, onProgress ProgressFunc) (string, error) {
	out, err := c.Convert(ctx, inputPath, outputPath, onProgress)
	if err == nil {
		return out, nil
	}

	wavPath := WavSibling(outputPath)
	if wavPath == outputPath {
		return "", err
	}

	if onProgress != nil {
		onProgress("fallback", wavPath)
	}
	return c.Convert(ctx, inputPath, wavPath, onProgress)
}

// WavSibling returns the path with its extension replaced by .wav
func WavSibling(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".wav"
}

// codecArgs selects encoder arguments from the output extension
func codecArgs(outputPath string) []string {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".wav":
		return []string{"-acodec", "pcm_s16le", "-f", "wav"}
	case ".mp3":
		return []string{"-acodec", "libmp3lame", "-b:a", "64k"}
	default:
		return nil
	}
}

// Duration returns the duration of a media file in seconds
func (c *Converter) Duration(ctx context.Context, inputPath string) (float64, error) {
	if _, err := exec.LookPath(c.ffprobePath); err != nil {
		return 0, fmt.Errorf("ffprobe not found: please install ffmpeg")
	}

	output, err := c.runner.Run(ctx, c.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "csv=p=0",
		inputPath,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to get media duration: %w", err)
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &duration); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return duration, nil
}

// NeedsConversion checks whether the file is already canonical audio
// (16kHz mono WAV). When ffprobe is unavailable or fails, conversion is
// assumed to be needed.
func (c *Converter) NeedsConversion(ctx context.Context, inputPath string) bool {
	if strings.ToLower(filepath.Ext(inputPath)) != ".wav" {
		return true
	}

	if _, err := exec.LookPath(c.ffprobePath); err != nil {
		return true
	}

	output, err := c.runner.Run(ctx, c.ffprobePath,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=sample_rate,channels",
		"-of", "csv=p=0",
		inputPath,
	)
	if err != nil {
		return true
	}

	// Output format: "sample_rate,channels"
	parts := strings.Split(strings.TrimSpace(string(output)), ",")
	if len(parts) != 2 {
		return true
	}
	return !(parts[0] == "16000" && parts[1] == "1")
}
