package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"scribe/internal/config"

	"github.com/labstack/echo/v4"
)

func getRequest(target string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return rec, echo.New().NewContext(req, rec)
}

func TestLanguagesIncludesAuto(t *testing.T) {
	h := NewMetaHandler(&config.Config{})
	rec, c := getRequest("/languages")

	if err := h.Languages(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := decodeBody(t, rec)
	langs := body["languages"].([]interface{})
	if len(langs) == 0 {
		t.Fatal("language list is empty")
	}
	first := langs[0].(map[string]interface{})
	if first["code"] != "auto" {
		t.Errorf("first language = %v, want auto", first["code"])
	}
}

func TestHealthReportsConfiguration(t *testing.T) {
	cases := []struct {
		apiKey string
		want   bool
	}{
		{"", false},
		{config.PlaceholderAPIKey, false},
		{"real-key", true},
	}

	for _, tc := range cases {
		h := NewMetaHandler(&config.Config{APIKey: tc.apiKey, FFmpegPath: "/usr/bin/ffmpeg"})
		rec, c := getRequest("/health")

		if err := h.Health(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}

		body := decodeBody(t, rec)
		if body["credential_configured"] != tc.want {
			t.Errorf("credential_configured = %v, want %v (key=%q)", body["credential_configured"], tc.want, tc.apiKey)
		}
		if body["ffmpeg_path"] != "/usr/bin/ffmpeg" {
			t.Errorf("ffmpeg_path = %v", body["ffmpeg_path"])
		}
	}
}
