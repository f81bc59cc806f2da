package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"scribe/internal/config"
	"scribe/internal/handlers"
	"scribe/internal/media"
	"scribe/internal/pipeline"
	"scribe/internal/storage"
	"scribe/internal/transcription"
	"scribe/internal/version"
	"scribe/internal/worker"
	"scribe/internal/youtube"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	// .envファイルを読み込み（存在しない場合はスキップ）
	_ = godotenv.Load()

	cfg := config.Load()

	if !cfg.HasCredential() {
		log.Println("WARNING: no transcription API credential configured, results will be simulated")
	}

	// 一時ディレクトリの準備
	if err := os.MkdirAll(cfg.TempDir, 0755); err != nil {
		log.Fatalf("failed to create temp directory: %v", err)
	}

	// データベース接続
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()
	transcriptRepo := storage.NewTranscriptRepository(db)

	// パイプラインの構築
	converter := media.NewConverter(cfg.FFmpegPath, cfg.FFprobePath)
	if !converter.Available() {
		log.Printf("WARNING: ffmpeg not found at %q, conversions will fail", cfg.FFmpegPath)
	}
	transcriber := transcription.NewClient(transcription.Config{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.VendorBaseURL,
		PollInterval:    cfg.PollInterval,
		MaxPollAttempts: cfg.MaxPollAttempts,
	})
	ytClient := youtube.NewClient()
	orchestrator := pipeline.New(ytClient, converter, transcriber, cfg.TempDir)

	// 放置された一時ファイルの掃除
	sweeper := worker.NewSweeper(cfg.TempDir, cfg.ArtifactTTL, cfg.SweepInterval)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	// Echoインスタンスの作成
	e := echo.New()

	// ミドルウェアの設定
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// ハンドラの作成
	transcribeHandler := handlers.NewTranscribeHandler(orchestrator, ytClient, transcriptRepo, cfg.TempDir)
	transcriptHandler := handlers.NewTranscriptHandler(transcriptRepo)
	metaHandler := handlers.NewMetaHandler(cfg)

	// ルートの登録
	e.POST("/transcribe/remote-url", transcribeHandler.RemoteURL)
	e.POST("/transcribe/upload", transcribeHandler.Upload)
	e.POST("/process-text", handlers.ProcessText)
	e.GET("/languages", metaHandler.Languages)
	e.GET("/health", metaHandler.Health)
	e.GET("/transcripts", transcriptHandler.List)
	e.GET("/transcripts/:id", transcriptHandler.Get)
	e.DELETE("/transcripts/:id", transcriptHandler.Delete)

	// サーバー起動
	log.Printf("Starting scribe v%s on port %s", version.Version, cfg.Port)
	if err := e.Start(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal(err)
	}
}
