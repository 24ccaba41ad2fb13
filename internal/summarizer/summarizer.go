package summarizer

import (
	"context"
	"log/slog"

	"github.com/meridianbio/fieldlog/internal/llm"
)

const summarySystemPrompt = "Create a concise 1-2 sentence summary of the following interaction:"

type Summarizer struct {
	llm    llm.Client
	logger *slog.Logger
}

func New(client llm.Client, logger *slog.Logger) *Summarizer {
	return &Summarizer{llm: client, logger: logger}
}

// Summarize produces a short summary of rawText. It never fails the request:
// on any model error or empty content it falls back to a truncation of the
// input itself.
func (s *Summarizer) Summarize(ctx context.Context, rawText string) string {
	content, err := s.llm.Complete(ctx, summarySystemPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: rawText},
	})
	if err != nil {
		s.logger.Warn("summary generation failed, falling back to truncation", "error", err)
		return truncate(rawText, 200)
	}
	if content == "" {
		return truncate(rawText, 200)
	}
	return content
}

// truncate cuts to the first n characters, never splitting a rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
