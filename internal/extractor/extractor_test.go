package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meridianbio/fieldlog/internal/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fakeModelServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestExtract_Success(t *testing.T) {
	server := fakeModelServer(t, `HCP Name: Dr. Emily White
Topics discussed: Product X
Materials shared: Not mentioned
HCP sentiment: **Positive**
Outcomes: Agreed to trial
Interaction ID: Not mentioned`)
	defer server.Close()

	c := llm.NewGroqClient("test-key", server.URL, "test-model")
	ext := New(c, discardLogger())

	rec, err := ext.Extract(context.Background(), "Met with Dr. Emily White about Product X, went well")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.HCPName != "Dr. Emily White" {
		t.Errorf("expected Dr. Emily White, got %q", rec.HCPName)
	}
	if rec.HCPSentiment != "Positive" {
		t.Errorf("expected Positive, got %q", rec.HCPSentiment)
	}
	if rec.MaterialsShared != "" {
		t.Errorf("expected empty materials, got %q", rec.MaterialsShared)
	}
	if rec.InteractionID != 0 {
		t.Errorf("expected no interaction id, got %d", rec.InteractionID)
	}
}

func TestExtract_EmptyContent(t *testing.T) {
	server := fakeModelServer(t, "")
	defer server.Close()

	c := llm.NewGroqClient("test-key", server.URL, "test-model")
	ext := New(c, discardLogger())

	_, err := ext.Extract(context.Background(), "some text")
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestExtract_FallbackHCPName(t *testing.T) {
	// No HCP Name line in the structured response; the raw text has one.
	server := fakeModelServer(t, "Topics discussed: Product X\nHCP sentiment: Positive")
	defer server.Close()

	c := llm.NewGroqClient("test-key", server.URL, "test-model")
	ext := New(c, discardLogger())

	rec, err := ext.Extract(context.Background(), "Met with Dr. Jane Smith, discussed Product X, she seemed positive")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.HCPName != "Dr. Jane Smith" {
		t.Errorf("expected fallback name Dr. Jane Smith, got %q", rec.HCPName)
	}
}

func TestExtract_NoHCPName(t *testing.T) {
	server := fakeModelServer(t, "Topics discussed: quarterly numbers")
	defer server.Close()

	c := llm.NewGroqClient("test-key", server.URL, "test-model")
	ext := New(c, discardLogger())

	_, err := ext.Extract(context.Background(), "caught up about quarterly numbers")
	if !errors.Is(err, ErrNoHCPName) {
		t.Fatalf("expected ErrNoHCPName, got %v", err)
	}
}

func TestExtract_EditRequest(t *testing.T) {
	server := fakeModelServer(t, "HCP Name: Dr. Jones\nInteraction ID: 42\nOutcomes: corrected outcome")
	defer server.Close()

	c := llm.NewGroqClient("test-key", server.URL, "test-model")
	ext := New(c, discardLogger())

	rec, err := ext.Extract(context.Background(), "Edit interaction 42, outcome was corrected, HCP was Dr. Jones")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.InteractionID != 42 {
		t.Errorf("expected interaction id 42, got %d", rec.InteractionID)
	}
	if rec.Outcomes != "corrected outcome" {
		t.Errorf("expected outcomes, got %q", rec.Outcomes)
	}
}
