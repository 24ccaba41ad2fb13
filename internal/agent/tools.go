package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meridianbio/fieldlog/internal/events"
	"github.com/meridianbio/fieldlog/internal/llm"
	"github.com/meridianbio/fieldlog/internal/store"
)

// ToolName is the closed catalog of operations the model may invoke. The
// dispatch switch below is exhaustive over these five; anything else is
// rejected at runtime.
type ToolName string

const (
	ToolCreateHCP             ToolName = "create_hcp"
	ToolLogInteraction        ToolName = "log_interaction"
	ToolEditInteraction       ToolName = "edit_interaction"
	ToolMostRecentInteraction ToolName = "get_most_recent_interaction_by_hcp_name"
	ToolHCPByName             ToolName = "get_hcp_by_name"
)

// toolResult is the structured payload wrapped into a tool-result message.
// The loop router re-parses it from the serialized message, so the shape is
// part of the routing contract.
type toolResult struct {
	Status      string             `json:"status"`
	Message     string             `json:"message"`
	Interaction *store.Interaction `json:"interaction_object,omitempty"`
	HCP         *store.HCP         `json:"hcp,omitempty"`
	HCPID       int64              `json:"hcp_id,omitempty"`
}

func toolError(format string, args ...any) toolResult {
	return toolResult{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

type createHCPArgs struct {
	Name        string `json:"name"`
	Specialty   string `json:"specialty,omitempty"`
	ContactInfo string `json:"contact_info,omitempty"`
}

type logInteractionArgs struct {
	HCPName            string `json:"hcp_name"`
	InteractionType    string `json:"interaction_type,omitempty"`
	InteractionDate    string `json:"interaction_date,omitempty"`
	InteractionTime    string `json:"interaction_time,omitempty"`
	Attendees          string `json:"attendees,omitempty"`
	TopicsDiscussed    string `json:"topics_discussed,omitempty"`
	MaterialsShared    string `json:"materials_shared,omitempty"`
	SamplesDistributed string `json:"samples_distributed,omitempty"`
	HCPSentiment       string `json:"hcp_sentiment,omitempty"`
	Outcomes           string `json:"outcomes,omitempty"`
	FollowUpActions    string `json:"follow_up_actions,omitempty"`
	Summary            string `json:"summary,omitempty"`
	RawTextInput       string `json:"raw_text_input,omitempty"`
}

type editInteractionArgs struct {
	InteractionID      int64   `json:"interaction_id"`
	HCPID              *int64  `json:"hcp_id,omitempty"`
	InteractionType    *string `json:"interaction_type,omitempty"`
	InteractionDate    *string `json:"interaction_date,omitempty"`
	InteractionTime    *string `json:"interaction_time,omitempty"`
	Attendees          *string `json:"attendees,omitempty"`
	TopicsDiscussed    *string `json:"topics_discussed,omitempty"`
	MaterialsShared    *string `json:"materials_shared,omitempty"`
	SamplesDistributed *string `json:"samples_distributed,omitempty"`
	HCPSentiment       *string `json:"hcp_sentiment,omitempty"`
	Outcomes           *string `json:"outcomes,omitempty"`
	FollowUpActions    *string `json:"follow_up_actions,omitempty"`
	Summary            *string `json:"summary,omitempty"`
}

type hcpNameArgs struct {
	HCPName string `json:"hcp_name"`
}

type nameArgs struct {
	Name string `json:"name"`
}

// dispatchTool executes one model-issued tool call against the gateway.
// userInput is the original message; log_interaction backfills its summary
// and raw text from it when the model left them out.
func (o *Orchestrator) dispatchTool(ctx context.Context, call llm.ToolCall, userInput string) toolResult {
	switch ToolName(call.Name) {
	case ToolCreateHCP:
		var args createHCPArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return toolError("invalid arguments for %s: %v", call.Name, err)
		}
		return o.toolCreateHCP(ctx, args)

	case ToolLogInteraction:
		var args logInteractionArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return toolError("invalid arguments for %s: %v", call.Name, err)
		}
		if args.Summary == "" && userInput != "" {
			args.Summary = o.summarizer.Summarize(ctx, userInput)
		}
		if args.RawTextInput == "" {
			args.RawTextInput = userInput
		}
		return o.toolLogInteraction(ctx, args)

	case ToolEditInteraction:
		var args editInteractionArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return toolError("invalid arguments for %s: %v", call.Name, err)
		}
		return o.toolEditInteraction(ctx, args)

	case ToolMostRecentInteraction:
		var args hcpNameArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return toolError("invalid arguments for %s: %v", call.Name, err)
		}
		return o.toolMostRecentInteraction(ctx, args.HCPName)

	case ToolHCPByName:
		var args nameArgs
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return toolError("invalid arguments for %s: %v", call.Name, err)
		}
		return o.toolHCPByName(ctx, args.Name)

	default:
		return toolError("tool '%s' not found", call.Name)
	}
}

func (o *Orchestrator) toolCreateHCP(ctx context.Context, args createHCPArgs) toolResult {
	hcp, err := o.gateway.CreateHCP(ctx, store.HCPCreate{
		Name:        args.Name,
		Specialty:   args.Specialty,
		ContactInfo: args.ContactInfo,
	})
	if err != nil {
		return toolError("Failed to create HCP: %v", err)
	}
	o.publish(events.SubjectHCPCreated, hcp)
	return toolResult{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("HCP '%s' created with ID %d.", hcp.Name, hcp.ID),
		HCP:     hcp,
	}
}

func (o *Orchestrator) toolLogInteraction(ctx context.Context, args logInteractionArgs) toolResult {
	hcp, err := o.gateway.HCPByName(ctx, args.HCPName)
	if err != nil {
		return toolError("Failed to look up HCP: %v", err)
	}
	if hcp == nil {
		return toolError("HCP '%s' not found", args.HCPName)
	}

	now := o.now()
	if args.InteractionType == "" {
		args.InteractionType = "Meeting"
	}
	if args.InteractionTime == "" {
		args.InteractionTime = now.Format("15:04")
	}
	date, err := time.Parse("2006-01-02", args.InteractionDate)
	if err != nil {
		date = now
	}

	created, err := o.gateway.CreateInteraction(ctx, store.InteractionCreate{
		HCPID:              hcp.ID,
		InteractionType:    args.InteractionType,
		InteractionDate:    date,
		InteractionTime:    args.InteractionTime,
		Attendees:          args.Attendees,
		TopicsDiscussed:    args.TopicsDiscussed,
		MaterialsShared:    args.MaterialsShared,
		SamplesDistributed: args.SamplesDistributed,
		HCPSentiment:       defaultIfEmpty(args.HCPSentiment, "Neutral"),
		Outcomes:           args.Outcomes,
		FollowUpActions:    args.FollowUpActions,
		Summary:            args.Summary,
		RawTextInput:       args.RawTextInput,
	})
	if err != nil {
		return toolError("Failed to log interaction: %v", err)
	}
	o.publish(events.SubjectInteractionLogged, created)
	return toolResult{
		Status:      StatusSuccess,
		Message:     fmt.Sprintf("Interaction logged for %s", args.HCPName),
		Interaction: created,
	}
}

func (o *Orchestrator) toolEditInteraction(ctx context.Context, args editInteractionArgs) toolResult {
	upd := store.InteractionUpdate{
		HCPID:              args.HCPID,
		InteractionType:    args.InteractionType,
		InteractionTime:    args.InteractionTime,
		Attendees:          args.Attendees,
		TopicsDiscussed:    args.TopicsDiscussed,
		MaterialsShared:    args.MaterialsShared,
		SamplesDistributed: args.SamplesDistributed,
		HCPSentiment:       args.HCPSentiment,
		Outcomes:           args.Outcomes,
		FollowUpActions:    args.FollowUpActions,
		Summary:            args.Summary,
	}
	if args.InteractionDate != nil {
		d, err := time.Parse("2006-01-02", *args.InteractionDate)
		if err != nil {
			return toolError("Invalid date format for interaction_date: %s", *args.InteractionDate)
		}
		upd.InteractionDate = &d
	}

	updated, err := o.gateway.UpdateInteraction(ctx, args.InteractionID, upd)
	if err != nil {
		return toolError("Failed to update interaction %d: %v", args.InteractionID, err)
	}
	if updated == nil {
		return toolError("Interaction with ID %d not found.", args.InteractionID)
	}
	o.publish(events.SubjectInteractionUpdated, updated)
	return toolResult{
		Status:      StatusSuccess,
		Message:     fmt.Sprintf("Interaction %d updated successfully!", updated.ID),
		Interaction: updated,
	}
}

func (o *Orchestrator) toolMostRecentInteraction(ctx context.Context, hcpName string) toolResult {
	interaction, err := o.gateway.MostRecentInteractionByHCPName(ctx, hcpName)
	if err != nil {
		return toolError("Failed to look up interactions: %v", err)
	}
	if interaction == nil {
		return toolError("No recent interaction found for HCP '%s'.", hcpName)
	}
	return toolResult{
		Status:      StatusSuccess,
		Message:     fmt.Sprintf("Found interaction %d for %s.", interaction.ID, hcpName),
		Interaction: interaction,
	}
}

func (o *Orchestrator) toolHCPByName(ctx context.Context, name string) toolResult {
	hcp, err := o.gateway.HCPByName(ctx, name)
	if err != nil {
		return toolError("Failed to look up HCP: %v", err)
	}
	if hcp == nil {
		return toolError("HCP '%s' not found. Please create HCP first.", name)
	}
	return toolResult{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Found HCP '%s' with ID %d.", hcp.Name, hcp.ID),
		HCPID:   hcp.ID,
	}
}

func defaultIfEmpty(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// toolDefs advertises the catalog to the model.
func toolDefs() []llm.Tool {
	return []llm.Tool{
		{
			Name:        string(ToolCreateHCP),
			Description: "Creates a new Healthcare Professional in the database.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "The full name of the Healthcare Professional."},
					"specialty": {"type": "string", "description": "The medical specialty of the HCP (e.g., 'Cardiology')."},
					"contact_info": {"type": "string", "description": "Contact details for the HCP."}
				},
				"required": ["name"]
			}`),
		},
		{
			Name:        string(ToolLogInteraction),
			Description: "Logs an interaction with an existing Healthcare Professional.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"hcp_name": {"type": "string", "description": "The name of the HCP the interaction was with."},
					"interaction_type": {"type": "string", "description": "Type of interaction (e.g., 'Meeting', 'Call', 'Email')."},
					"interaction_date": {"type": "string", "description": "Date of the interaction in YYYY-MM-DD format."},
					"interaction_time": {"type": "string", "description": "Time of the interaction in HH:MM format (24-hour)."},
					"attendees": {"type": "string", "description": "Comma-separated names of other attendees."},
					"topics_discussed": {"type": "string", "description": "Key topics discussed during the interaction."},
					"materials_shared": {"type": "string", "description": "Materials or documents shared with the HCP."},
					"samples_distributed": {"type": "string", "description": "Samples of products distributed."},
					"hcp_sentiment": {"type": "string", "description": "Observed sentiment: 'Positive', 'Neutral' or 'Negative'."},
					"outcomes": {"type": "string", "description": "Key outcomes, agreements, or decisions."},
					"follow_up_actions": {"type": "string", "description": "Required follow-up actions."},
					"summary": {"type": "string", "description": "A concise summary of the interaction."}
				},
				"required": ["hcp_name", "topics_discussed"]
			}`),
		},
		{
			Name:        string(ToolEditInteraction),
			Description: "Edits an existing interaction. Requires interaction_id and the fields to update.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"interaction_id": {"type": "integer", "description": "The ID of the interaction to be edited."},
					"hcp_id": {"type": "integer", "description": "The ID of the new HCP to link this interaction to, if changing HCP."},
					"interaction_type": {"type": "string"},
					"interaction_date": {"type": "string", "description": "New date in YYYY-MM-DD format."},
					"interaction_time": {"type": "string", "description": "New time in HH:MM format (24-hour)."},
					"attendees": {"type": "string"},
					"topics_discussed": {"type": "string"},
					"materials_shared": {"type": "string"},
					"samples_distributed": {"type": "string"},
					"hcp_sentiment": {"type": "string"},
					"outcomes": {"type": "string"},
					"follow_up_actions": {"type": "string"},
					"summary": {"type": "string"}
				},
				"required": ["interaction_id"]
			}`),
		},
		{
			Name:        string(ToolMostRecentInteraction),
			Description: "Gets the most recent interaction for a given HCP name. Useful for finding interaction IDs when the user refers to an HCP's last interaction.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"hcp_name": {"type": "string", "description": "The name of the HCP to look up the most recent interaction for."}
				},
				"required": ["hcp_name"]
			}`),
		},
		{
			Name:        string(ToolHCPByName),
			Description: "Gets an HCP's details by their name. Useful for finding an HCP's ID.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {"type": "string", "description": "The full name of the HCP."}
				},
				"required": ["name"]
			}`),
		},
	}
}
