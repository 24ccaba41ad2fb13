package summarizer

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/meridianbio/fieldlog/internal/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSummarize_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Met Dr. Smith to discuss Product X; reaction was positive."}},
			},
		})
	}))
	defer server.Close()

	s := New(llm.NewGroqClient("test-key", server.URL, "test-model"), discardLogger())

	got := s.Summarize(context.Background(), "Met with Dr. Smith about Product X, she liked it")
	if got != "Met Dr. Smith to discuss Product X; reaction was positive." {
		t.Errorf("unexpected summary: %q", got)
	}
}

func TestSummarize_EmptyContentFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": ""}},
			},
		})
	}))
	defer server.Close()

	s := New(llm.NewGroqClient("test-key", server.URL, "test-model"), discardLogger())

	raw := strings.Repeat("long interaction text ", 20)
	got := s.Summarize(context.Background(), raw)
	if got != raw[:200] {
		t.Errorf("expected first 200 chars of input, got %q", got)
	}
}

func TestSummarize_FallbackKeepsRunesIntact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": ""}},
			},
		})
	}))
	defer server.Close()

	s := New(llm.NewGroqClient("test-key", server.URL, "test-model"), discardLogger())

	// A multi-byte rune sits right at the 200-character boundary.
	raw := strings.Repeat("a", 199) + "é and more about Dr. André's visit"
	got := s.Summarize(context.Background(), raw)

	if !utf8.ValidString(got) {
		t.Fatalf("fallback produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 200 {
		t.Errorf("expected 200 characters, got %d", n)
	}
	if got != strings.Repeat("a", 199)+"é" {
		t.Errorf("unexpected truncation: %q", got)
	}
}

func TestSummarize_ErrorFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := New(llm.NewGroqClient("test-key", server.URL, "test-model"), discardLogger())

	got := s.Summarize(context.Background(), "short text")
	if got != "short text" {
		t.Errorf("expected raw text fallback, got %q", got)
	}
}
