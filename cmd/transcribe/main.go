// Command transcribe runs the transcription pipeline once from the
// command line, for a local media file or a YouTube URL.
//
// Usage:
//
//	transcribe -url https://www.youtube.com/watch?v=xxxx
//	transcribe -lang ja -format recording.m4a
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"scribe/internal/config"
	"scribe/internal/media"
	"scribe/internal/pipeline"
	"scribe/internal/textproc"
	"scribe/internal/transcription"
	"scribe/internal/youtube"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var (
		urlFlag    = flag.String("url", "", "YouTube URL to transcribe")
		langFlag   = flag.String("lang", "auto", "language code or 'auto'")
		formatFlag = flag.Bool("format", false, "reflow output one sentence per line")
		outFlag    = flag.String("o", "", "write transcript to file instead of stdout")
	)
	flag.Parse()

	inputPath := flag.Arg(0)
	if (*urlFlag == "") == (inputPath == "") {
		fmt.Fprintln(os.Stderr, "specify exactly one of -url or a media file argument")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if !cfg.HasCredential() {
		log.Println("no API credential configured, result will be simulated")
	}

	converter := media.NewConverter(cfg.FFmpegPath, cfg.FFprobePath)
	transcriber := transcription.NewClient(transcription.Config{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.VendorBaseURL,
		PollInterval:    cfg.PollInterval,
		MaxPollAttempts: cfg.MaxPollAttempts,
	})
	orchestrator := pipeline.New(youtube.NewClient(), converter, transcriber, cfg.TempDir)

	if inputPath != "" {
		if d, err := converter.Duration(context.Background(), inputPath); err == nil {
			log.Printf("input duration: %.1fs", d)
		}
	}

	result, err := orchestrator.Run(context.Background(), pipeline.Input{
		URL:       *urlFlag,
		LocalPath: inputPath,
		Options:   transcription.Options{Language: *langFlag},
		OnStage: func(stage string) {
			log.Printf("stage: %s", stage)
		},
	})
	if err != nil {
		log.Fatalf("transcription failed: %v", err)
	}

	text := result.Text
	if *formatFlag {
		text = textproc.ReflowSentences(text)
	}

	if *outFlag != "" {
		if err := os.WriteFile(*outFlag, []byte(text+"\n"), 0644); err != nil {
			log.Fatalf("failed to write output: %v", err)
		}
		log.Printf("transcript written to %s (confidence %.2f, language %s)",
			*outFlag, result.Confidence, result.LanguageCode)
		return
	}

	fmt.Println(text)
}
