package config

import (
	"os"
	"strconv"
	"time"
)

// PlaceholderAPIKey is the value shipped in .env.example. A key equal to
// it is treated the same as no key at all.
const PlaceholderAPIKey = "your_api_key_here"

// Config holds all runtime settings. It is built once in main and passed
// into components at construction time so tests can substitute values
// without touching the process environment.
type Config struct {
	Port            string
	APIKey          string
	VendorBaseURL   string
	FFmpegPath      string
	FFprobePath     string
	TempDir         string
	DBPath          string
	PollInterval    time.Duration
	MaxPollAttempts int
	SweepInterval   time.Duration
	ArtifactTTL     time.Duration
}

// Load reads the configuration from environment variables, applying
// defaults for anything unset.
func Load() *Config {
	return &Config{
		Port:            getenv("PORT", "8080"),
		APIKey:          os.Getenv("TRANSCRIPTION_API_KEY"),
		VendorBaseURL:   getenv("TRANSCRIPTION_API_URL", "https://api.assemblyai.com"),
		FFmpegPath:      getenv("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:     getenv("FFPROBE_PATH", "ffprobe"),
		TempDir:         getenv("TEMP_DIR", os.TempDir()),
		DBPath:          getenv("DB_PATH", "data/scribe.db"),
		PollInterval:    getenvDuration("POLL_INTERVAL", 3*time.Second),
		MaxPollAttempts: getenvInt("POLL_MAX_ATTEMPTS", 200),
		SweepInterval:   getenvDuration("SWEEP_INTERVAL", 10*time.Minute),
		ArtifactTTL:     getenvDuration("ARTIFACT_TTL", time.Hour),
	}
}

// HasCredential reports whether a usable vendor credential is configured.
func (c *Config) HasCredential() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
