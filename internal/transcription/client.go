package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"scribe/internal/config"
)

// DefaultPollInterval is the cadence of job status polling
const DefaultPollInterval = 3 * time.Second

// DefaultMaxPollAttempts bounds the polling loop (~10 minutes at the
// default cadence). Zero disables the bound.
const DefaultMaxPollAttempts = 200

// Config holds the settings for a Client
type Config struct {
	APIKey          string
	BaseURL         string
	PollInterval    time.Duration
	MaxPollAttempts int
	HTTPClient      *http.Client
}

// Client talks to the asynchronous transcription vendor: binary upload,
// job submission, and status polling, all authenticated with a static
// credential header.
type Client struct {
	apiKey          string
	baseURL         string
	pollInterval    time.Duration
	maxPollAttempts int
	httpClient      *http.Client
}

// NewClient creates a Client, applying defaults for unset config fields
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.assemblyai.com"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Client{
		apiKey:          cfg.APIKey,
		baseURL:         cfg.BaseURL,
		pollInterval:    cfg.PollInterval,
		maxPollAttempts: cfg.MaxPollAttempts,
		httpClient:      cfg.HTTPClient,
	}
}

// HasCredential reports whether a usable vendor credential is configured
func (c *Client) HasCredential() bool {
	return c.apiKey != "" && c.apiKey != config.PlaceholderAPIKey
}

// Upload transmits raw audio bytes to the vendor's ingestion endpoint and
// returns the remote audio reference URL.
func (c *Client) Upload(ctx context.Context, audio io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/upload", audio)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", &VendorError{Operation: "upload", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	return out.UploadURL, nil
}

// submitRequest is the job creation payload. Punctuation and text
// formatting are always on; language detection is on unless a concrete
// language code is supplied.
type submitRequest struct {
	AudioURL          string `json:"audio_url"`
	Punctuate         bool   `json:"punctuate"`
	FormatText        bool   `json:"format_text"`
	LanguageDetection bool   `json:"language_detection"`
	LanguageCode      string `json:"language_code,omitempty"`
}

// transcriptResponse is the vendor's job representation
type transcriptResponse struct {
	ID           string      `json:"id"`
	Status       string      `json:"status"`
	Text         string      `json:"text"`
	Confidence   float64     `json:"confidence"`
	LanguageCode string      `json:"language_code"`
	Words        []Word      `json:"words"`
	Utterances   []Utterance `json:"utterances"`
	Error        string      `json:"error"`
}

// Submit creates a transcription job for an uploaded audio reference and
// returns the job id.
func (c *Client) Submit(ctx context.Context, audioURL string, opts Options) (string, error) {
	payload := submitRequest{
		AudioURL:          audioURL,
		Punctuate:         true,
		FormatText:        true,
		LanguageDetection: opts.autoDetect(),
	}
	if !opts.autoDetect() {
		payload.LanguageCode = opts.Language
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/transcript", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &VendorError{Operation: "submit", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	return out.ID, nil
}

// getTranscript fetches the current job state by id
func (c *Client) getTranscript(ctx context.Context, jobID string) (*transcriptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v2/transcript/"+jobID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &VendorError{Operation: "poll", StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &out, nil
}

// AwaitCompletion polls the job at the configured interval until it
// reaches a terminal state. When MaxPollAttempts is positive the loop is
// bounded and exceeding it returns a TimeoutError; zero keeps polling
// until the context is cancelled.
func (c *Client) AwaitCompletion(ctx context.Context, jobID string) (*Result, error) {
	start := time.Now()

	for attempt := 1; ; attempt++ {
		tr, err := c.getTranscript(ctx, jobID)
		if err != nil {
			return nil, err
		}

		switch tr.Status {
		case StatusCompleted:
			return &Result{
				Text:         tr.Text,
				Confidence:   tr.Confidence,
				LanguageCode: tr.LanguageCode,
				Words:        tr.Words,
				Utterances:   tr.Utterances,
			}, nil
		case StatusError:
			return nil, &JobError{JobID: jobID, Message: tr.Error}
		}

		if c.maxPollAttempts > 0 && attempt >= c.maxPollAttempts {
			return nil, &TimeoutError{JobID: jobID, Attempts: attempt, Elapsed: time.Since(start)}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// Transcribe uploads the audio file, submits a job, and waits for the
// result. With no credential configured it returns a clearly-labeled
// placeholder result without contacting the vendor.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	if !c.HasCredential() {
		return placeholderResult(opts), nil
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	audioURL, err := c.Upload(ctx, f)
	if err != nil {
		return nil, err
	}

	jobID, err := c.Submit(ctx, audioURL, opts)
	if err != nil {
		return nil, err
	}

	return c.AwaitCompletion(ctx, jobID)
}

// placeholderResult is returned when no vendor credential is configured,
// so the pipeline stays demonstrable without live access.
func placeholderResult(opts Options) *Result {
	lang := opts.Language
	if lang == "" || lang == "auto" {
		lang = DefaultLanguage
	}
	return &Result{
		Text:         "[SIMULATED] No transcription API credential is configured. Set TRANSCRIPTION_API_KEY to receive real transcriptions.",
		Confidence:   0.95,
		LanguageCode: lang,
		Placeholder:  true,
	}
}
