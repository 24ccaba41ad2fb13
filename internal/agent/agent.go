package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meridianbio/fieldlog/internal/events"
	"github.com/meridianbio/fieldlog/internal/extractor"
	"github.com/meridianbio/fieldlog/internal/llm"
	"github.com/meridianbio/fieldlog/internal/store"
	"github.com/meridianbio/fieldlog/internal/summarizer"
)

// Gateway is the narrow read/write surface the agent needs from persistence.
// Lookups return nil (not an error) when the record is absent.
type Gateway interface {
	HCPByName(ctx context.Context, name string) (*store.HCP, error)
	CreateHCP(ctx context.Context, in store.HCPCreate) (*store.HCP, error)
	MostRecentInteractionByHCPName(ctx context.Context, name string) (*store.Interaction, error)
	CreateInteraction(ctx context.Context, in store.InteractionCreate) (*store.Interaction, error)
	UpdateInteraction(ctx context.Context, id int64, upd store.InteractionUpdate) (*store.Interaction, error)
}

// Announcer publishes domain events after successful writes. Best-effort.
type Announcer interface {
	Publish(subject string, data any) error
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the outcome of one chat request.
type Result struct {
	Status      string             `json:"status"`
	Message     string             `json:"response"`
	Interaction *store.Interaction `json:"interaction_object,omitempty"`
}

// User-facing failure messages. The chat surface returns these verbatim.
const (
	msgExtractionFailed = "AI agent could not extract information. Please try rephrasing."
	msgNoHCPName        = "Could not identify HCP name from your input. Please specify the HCP (e.g., 'Dr. John Doe')."
	msgTimeout          = "AI processing timed out. Please try again or simplify your request."
)

// Orchestrator drives the chat pipeline: extract, summarize, route to the
// log or edit path, write through the gateway. All model-bound work for one
// request shares a single timeout.
type Orchestrator struct {
	gateway    Gateway
	llm        llm.Client
	extractor  *extractor.Extractor
	summarizer *summarizer.Summarizer
	announce   Announcer
	logger     *slog.Logger
	timeout    time.Duration
	now        func() time.Time
}

func New(gw Gateway, client llm.Client, announce Announcer, logger *slog.Logger, timeout time.Duration) *Orchestrator {
	return &Orchestrator{
		gateway:    gw,
		llm:        client,
		extractor:  extractor.New(client, logger),
		summarizer: summarizer.New(client, logger),
		announce:   announce,
		logger:     logger,
		timeout:    timeout,
		now:        time.Now,
	}
}

// chat pipeline states
type chatState int

const (
	stateExtracting chatState = iota
	stateSummarizing
	stateResolving
	stateWriting
	stateDone
	stateFailed
)

// chatRun is the per-request scratch state. Created at request start,
// discarded when the result is returned.
type chatRun struct {
	rawText string
	rec     *extractor.ExtractedInteraction
	summary string
	hcp     *store.HCP
	result  Result
}

// Process handles one chat request end to end. It always returns a Result;
// failures are reported as status "error" with a human-readable message,
// never as a panic or an error crossing the HTTP boundary.
func (o *Orchestrator) Process(ctx context.Context, rawText string) Result {
	log := o.logger.With("request_id", uuid.New().String()[:8])

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	run := &chatRun{rawText: rawText}
	state := stateExtracting

	for state != stateDone && state != stateFailed {
		if ctx.Err() != nil {
			log.Warn("chat request timed out", "state", state)
			return Result{Status: StatusError, Message: msgTimeout}
		}

		switch state {
		case stateExtracting:
			state = o.stepExtract(ctx, log, run)
		case stateSummarizing:
			state = o.stepSummarize(ctx, run)
		case stateResolving:
			state = o.stepResolve(ctx, log, run)
		case stateWriting:
			state = o.stepWrite(ctx, log, run)
		}
	}

	return run.result
}

func (o *Orchestrator) stepExtract(ctx context.Context, log *slog.Logger, run *chatRun) chatState {
	rec, err := o.extractor.Extract(ctx, run.rawText)
	switch {
	case err == nil:
		run.rec = rec
		return stateSummarizing
	case errors.Is(err, extractor.ErrNoContent):
		run.result = Result{Status: StatusError, Message: msgExtractionFailed}
	case errors.Is(err, extractor.ErrNoHCPName):
		run.result = Result{Status: StatusError, Message: msgNoHCPName}
	case errors.Is(err, context.DeadlineExceeded):
		run.result = Result{Status: StatusError, Message: msgTimeout}
	default:
		log.Error("extraction failed", "error", err)
		run.result = unexpected(err)
	}
	return stateFailed
}

func (o *Orchestrator) stepSummarize(ctx context.Context, run *chatRun) chatState {
	run.summary = o.summarizer.Summarize(ctx, run.rawText)
	return stateResolving
}

func (o *Orchestrator) stepResolve(ctx context.Context, log *slog.Logger, run *chatRun) chatState {
	hcp, err := o.gateway.HCPByName(ctx, run.rec.HCPName)
	if err != nil {
		log.Error("hcp lookup failed", "hcp_name", run.rec.HCPName, "error", err)
		run.result = unexpected(err)
		return stateFailed
	}
	if hcp == nil {
		if run.rec.InteractionID != 0 {
			run.result = Result{Status: StatusError,
				Message: fmt.Sprintf("HCP '%s' not found for editing interaction. Please create it first.", run.rec.HCPName)}
		} else {
			run.result = Result{Status: StatusError,
				Message: fmt.Sprintf("HCP '%s' not found", run.rec.HCPName)}
		}
		return stateFailed
	}
	run.hcp = hcp
	return stateWriting
}

func (o *Orchestrator) stepWrite(ctx context.Context, log *slog.Logger, run *chatRun) chatState {
	if run.rec.InteractionID != 0 {
		return o.writeEdit(ctx, log, run)
	}
	return o.writeLog(ctx, log, run)
}

// writeEdit applies a partial update carrying only the fields the extractor
// evidently changed from their defaults, plus the resolved hcp_id, the fresh
// summary, and the verbatim raw text. Default detection compares against the
// clock the extractor used, so a tick between extraction and write cannot
// smuggle an unchanged date or time into the payload.
func (o *Orchestrator) writeEdit(ctx context.Context, log *slog.Logger, run *chatRun) chatState {
	rec := run.rec
	extractedAt := rec.ExtractedAt

	upd := store.InteractionUpdate{HCPID: &run.hcp.ID}
	setIfPresent(&upd.Attendees, rec.Attendees)
	setIfPresent(&upd.TopicsDiscussed, rec.TopicsDiscussed)
	setIfPresent(&upd.MaterialsShared, rec.MaterialsShared)
	setIfPresent(&upd.SamplesDistributed, rec.SamplesDistributed)
	setIfPresent(&upd.HCPSentiment, rec.HCPSentiment)
	setIfPresent(&upd.Outcomes, rec.Outcomes)
	setIfPresent(&upd.FollowUpActions, rec.FollowUpActions)

	if rec.InteractionType != "Meeting" {
		upd.InteractionType = &rec.InteractionType
	}
	if rec.InteractionDate != extractedAt.Format("2006-01-02") {
		if d, err := time.Parse("2006-01-02", rec.InteractionDate); err == nil {
			upd.InteractionDate = &d
		} else {
			log.Warn("skipping unparseable interaction date", "value", rec.InteractionDate)
		}
	}
	if rec.InteractionTime != extractedAt.Format("15:04") {
		upd.InteractionTime = &rec.InteractionTime
	}
	upd.Summary = &run.summary
	upd.RawTextInput = &run.rawText

	updated, err := o.gateway.UpdateInteraction(ctx, rec.InteractionID, upd)
	if err != nil {
		log.Error("interaction update failed", "interaction_id", rec.InteractionID, "error", err)
		run.result = unexpected(err)
		return stateFailed
	}
	if updated == nil {
		run.result = Result{Status: StatusError,
			Message: fmt.Sprintf("Interaction with ID %d not found.", rec.InteractionID)}
		return stateFailed
	}

	o.publish(events.SubjectInteractionUpdated, updated)
	log.Info("interaction updated via chat", "interaction_id", updated.ID, "hcp_id", updated.HCPID)
	run.result = Result{
		Status:      StatusSuccess,
		Message:     fmt.Sprintf("Interaction %d updated successfully!", updated.ID),
		Interaction: updated,
	}
	return stateDone
}

func (o *Orchestrator) writeLog(ctx context.Context, log *slog.Logger, run *chatRun) chatState {
	rec := run.rec

	date, err := time.Parse("2006-01-02", rec.InteractionDate)
	if err != nil {
		date = o.now()
	}

	created, err := o.gateway.CreateInteraction(ctx, store.InteractionCreate{
		HCPID:              run.hcp.ID,
		InteractionType:    rec.InteractionType,
		InteractionDate:    date,
		InteractionTime:    rec.InteractionTime,
		Attendees:          rec.Attendees,
		TopicsDiscussed:    rec.TopicsDiscussed,
		MaterialsShared:    rec.MaterialsShared,
		SamplesDistributed: rec.SamplesDistributed,
		HCPSentiment:       rec.HCPSentiment,
		Outcomes:           rec.Outcomes,
		FollowUpActions:    rec.FollowUpActions,
		Summary:            run.summary,
		RawTextInput:       run.rawText,
	})
	if err != nil {
		log.Error("interaction create failed", "hcp_id", run.hcp.ID, "error", err)
		run.result = unexpected(err)
		return stateFailed
	}

	o.publish(events.SubjectInteractionLogged, created)
	log.Info("interaction logged via chat", "interaction_id", created.ID, "hcp_id", created.HCPID)
	run.result = Result{
		Status:      StatusSuccess,
		Message:     fmt.Sprintf("Interaction logged for %s", run.hcp.Name),
		Interaction: created,
	}
	return stateDone
}

func (o *Orchestrator) publish(subject string, data any) {
	if o.announce == nil {
		return
	}
	if err := o.announce.Publish(subject, data); err != nil {
		o.logger.Warn("event publish failed", "subject", subject, "error", err)
	}
}

func unexpected(err error) Result {
	return Result{Status: StatusError,
		Message: fmt.Sprintf("An unexpected error occurred: %v. Please try again.", err)}
}

func setIfPresent(dst **string, v string) {
	if v != "" {
		s := v
		*dst = &s
	}
}
