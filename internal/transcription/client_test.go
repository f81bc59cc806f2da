package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// mockVendor simulates the vendor's three endpoints. Poll responses are
// served from the statuses slice, repeating the last entry.
type mockVendor struct {
	t           *testing.T
	statuses    []transcriptResponse
	uploads     atomic.Int64
	submits     atomic.Int64
	polls       atomic.Int64
	lastSubmit  submitRequest
	uploadCode  int
	requireAuth string
}

func (m *mockVendor) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v2/upload", func(w http.ResponseWriter, r *http.Request) {
		m.uploads.Add(1)
		if m.requireAuth != "" && r.Header.Get("authorization") != m.requireAuth {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if m.uploadCode != 0 {
			w.WriteHeader(m.uploadCode)
			w.Write([]byte("upload rejected"))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"upload_url": "https://cdn.example/audio/abc"})
	})

	mux.HandleFunc("POST /v2/transcript", func(w http.ResponseWriter, r *http.Request) {
		m.submits.Add(1)
		if err := json.NewDecoder(r.Body).Decode(&m.lastSubmit); err != nil {
			m.t.Errorf("bad submit payload: %v", err)
		}
		json.NewEncoder(w).Encode(transcriptResponse{ID: "job-1", Status: StatusQueued})
	})

	mux.HandleFunc("GET /v2/transcript/{id}", func(w http.ResponseWriter, r *http.Request) {
		n := m.polls.Add(1)
		idx := int(n) - 1
		if idx >= len(m.statuses) {
			idx = len(m.statuses) - 1
		}
		json.NewEncoder(w).Encode(m.statuses[idx])
	})

	return mux
}

func newTestClient(t *testing.T, m *mockVendor, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(m.handler())
	t.Cleanup(srv.Close)

	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	cfg.BaseURL = srv.URL
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 5 * time.Millisecond
	}
	return NewClient(cfg)
}

func audioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := os.WriteFile(path, []byte("RIFF fake audio"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeImmediateCompletion(t *testing.T) {
	vendor := &mockVendor{t: t, statuses: []transcriptResponse{{
		ID:           "job-1",
		Status:       StatusCompleted,
		Text:         "Hello world.",
		Confidence:   0.87,
		LanguageCode: "en",
	}}}
	client := newTestClient(t, vendor, Config{})

	result, err := client.Transcribe(context.Background(), audioFixture(t), Options{})
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if result.Text != "Hello world." {
		t.Errorf("Text = %q, want %q", result.Text, "Hello world.")
	}
	if result.Confidence != 0.87 {
		t.Errorf("Confidence = %v, want 0.87", result.Confidence)
	}
	if result.LanguageCode != "en" {
		t.Errorf("LanguageCode = %q, want en", result.LanguageCode)
	}
	if vendor.uploads.Load() != 1 || vendor.submits.Load() != 1 {
		t.Errorf("expected one upload and one submit, got %d/%d", vendor.uploads.Load(), vendor.submits.Load())
	}
}

func TestAwaitCompletionPollsUntilCompleted(t *testing.T) {
	vendor := &mockVendor{t: t, statuses: []transcriptResponse{
		{Status: StatusProcessing},
		{Status: StatusProcessing},
		{Status: StatusCompleted, Text: "done", Confidence: 0.9, LanguageCode: "de"},
	}}
	client := newTestClient(t, vendor, Config{})

	result, err := client.AwaitCompletion(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("AwaitCompletion failed: %v", err)
	}
	if result.Text != "done" {
		t.Errorf("Text = %q, want done", result.Text)
	}
	if got := vendor.polls.Load(); got != 3 {
		t.Errorf("expected exactly 3 status requests, got %d", got)
	}
}

func TestAwaitCompletionJobError(t *testing.T) {
	vendor := &mockVendor{t: t, statuses: []transcriptResponse{
		{Status: StatusError, Error: "bad audio"},
	}}
	client := newTestClient(t, vendor, Config{})

	_, err := client.AwaitCompletion(context.Background(), "job-1")
	if err == nil {
		t.Fatal("expected job error")
	}

	var jerr *JobError
	if !errors.As(err, &jerr) {
		t.Fatalf("expected JobError, got %T", err)
	}
	if !strings.Contains(err.Error(), "bad audio") {
		t.Errorf("error should carry the vendor message: %v", err)
	}
}

func TestAwaitCompletionBoundedPolling(t *testing.T) {
	vendor := &mockVendor{t: t, statuses: []transcriptResponse{
		{Status: StatusProcessing},
	}}
	client := newTestClient(t, vendor, Config{MaxPollAttempts: 3})

	_, err := client.AwaitCompletion(context.Background(), "job-1")

	var terr *TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if terr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", terr.Attempts)
	}
	if got := vendor.polls.Load(); got != 3 {
		t.Errorf("expected 3 status requests, got %d", got)
	}
}

func TestAwaitCompletionContextCancelled(t *testing.T) {
	vendor := &mockVendor{t: t, statuses: []transcriptResponse{
		{Status: StatusQueued},
	}}
	client := newTestClient(t, vendor, Config{PollInterval: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.AwaitCompletion(ctx, "job-1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
}

func TestUploadFailureCarriesStatusAndBody(t *testing.T) {
	vendor := &mockVendor{t: t, uploadCode: http.StatusBadRequest}
	client := newTestClient(t, vendor, Config{})

	_, err := client.Upload(context.Background(), strings.NewReader("bytes"))

	var verr *VendorError
	if !errors.As(err, &verr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
	if verr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", verr.StatusCode)
	}
	if !strings.Contains(verr.Body, "upload rejected") {
		t.Errorf("Body = %q, want vendor body", verr.Body)
	}
}

func TestSubmitLanguageHandling(t *testing.T) {
	cases := []struct {
		name          string
		lang          string
		wantDetection bool
		wantCode      string
	}{
		{"auto keyword", "auto", true, ""},
		{"empty", "", true, ""},
		{"concrete code", "ja", false, "ja"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vendor := &mockVendor{t: t, statuses: []transcriptResponse{{Status: StatusCompleted}}}
			client := newTestClient(t, vendor, Config{})

			if _, err := client.Submit(context.Background(), "https://cdn.example/audio/abc", Options{Language: tc.lang}); err != nil {
				t.Fatalf("Submit failed: %v", err)
			}

			got := vendor.lastSubmit
			if !got.Punctuate || !got.FormatText {
				t.Error("punctuate and format_text must default to true")
			}
			if got.LanguageDetection != tc.wantDetection {
				t.Errorf("LanguageDetection = %v, want %v", got.LanguageDetection, tc.wantDetection)
			}
			if got.LanguageCode != tc.wantCode {
				t.Errorf("LanguageCode = %q, want %q", got.LanguageCode, tc.wantCode)
			}
		})
	}
}

func TestTranscribeWithoutCredentialReturnsPlaceholder(t *testing.T) {
	vendor := &mockVendor{t: t}
	srv := httptest.NewServer(vendor.handler())
	defer srv.Close()

	for _, apiKey := range []string{"", "your_api_key_here"} {
		client := NewClient(Config{APIKey: apiKey, BaseURL: srv.URL})

		result, err := client.Transcribe(context.Background(), audioFixture(t), Options{Language: "fr"})
		if err != nil {
			t.Fatalf("Transcribe failed: %v", err)
		}
		if !result.Placeholder {
			t.Error("expected a placeholder result")
		}
		if result.Confidence != 0.95 {
			t.Errorf("Confidence = %v, want 0.95", result.Confidence)
		}
		if result.LanguageCode != "fr" {
			t.Errorf("LanguageCode = %q, want fr", result.LanguageCode)
		}
	}

	if total := vendor.uploads.Load() + vendor.submits.Load() + vendor.polls.Load(); total != 0 {
		t.Errorf("placeholder mode must not contact the vendor, saw %d requests", total)
	}
}

func TestPlaceholderDefaultLanguage(t *testing.T) {
	client := NewClient(Config{})

	for _, lang := range []string{"", "auto"} {
		result, err := client.Transcribe(context.Background(), "unused.wav", Options{Language: lang})
		if err != nil {
			t.Fatalf("Transcribe failed: %v", err)
		}
		if result.LanguageCode != DefaultLanguage {
			t.Errorf("LanguageCode = %q, want %q", result.LanguageCode, DefaultLanguage)
		}
	}
}
