package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianbio/fieldlog/internal/llm"
)

// ErrNoContent means the model returned nothing to parse.
var ErrNoContent = errors.New("no content from model")

// ErrNoHCPName means neither the structured response nor the raw-text
// fallback yielded an HCP name. Terminal for the request.
var ErrNoHCPName = errors.New("no hcp name identified")

type Extractor struct {
	llm    llm.Client
	logger *slog.Logger
	now    func() time.Time
}

func New(client llm.Client, logger *slog.Logger) *Extractor {
	return &Extractor{llm: client, logger: logger, now: time.Now}
}

// Extract sends rawText to the model with the fixed extraction instruction
// and parses the response into a normalized record. Single attempt, no retry.
func (e *Extractor) Extract(ctx context.Context, rawText string) (*ExtractedInteraction, error) {
	content, err := e.llm.Complete(ctx, extractionSystemPrompt, []llm.Message{
		{Role: llm.RoleUser, Content: rawText},
	})
	if err != nil {
		return nil, fmt.Errorf("llm extraction: %w", err)
	}
	if content == "" {
		return nil, ErrNoContent
	}

	e.logger.Debug("extraction response", "content", content)

	rec := parseResponse(content, e.now())

	if rec.HCPName == "" {
		if name := fallbackHCPName(rawText); name != "" {
			rec.HCPName = name
			e.logger.Debug("hcp name recovered from raw text", "hcp_name", name)
		}
	}
	if rec.HCPName == "" {
		return nil, ErrNoHCPName
	}

	e.logger.Info("extraction complete",
		"hcp_name", rec.HCPName,
		"sentiment", rec.HCPSentiment,
		"interaction_id", rec.InteractionID,
	)
	return &rec, nil
}
