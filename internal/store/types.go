package store

import "time"

// HCP is a Healthcare Professional. Name is the unique lookup key used
// throughout the chat agent; HCPs are created once and never mutated here.
type HCP struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Specialty   string `json:"specialty,omitempty"`
	ContactInfo string `json:"contact_info,omitempty"`
}

type HCPCreate struct {
	Name        string `json:"name"`
	Specialty   string `json:"specialty,omitempty"`
	ContactInfo string `json:"contact_info,omitempty"`
}

// Interaction is a single recorded encounter with an HCP.
// InteractionTime is a free-text clock string (e.g. "19:36"), kept verbatim.
type Interaction struct {
	ID                 int64     `json:"id"`
	HCPID              int64     `json:"hcp_id"`
	InteractionType    string    `json:"interaction_type"`
	InteractionDate    time.Time `json:"interaction_date"`
	InteractionTime    string    `json:"interaction_time"`
	Attendees          string    `json:"attendees,omitempty"`
	TopicsDiscussed    string    `json:"topics_discussed,omitempty"`
	MaterialsShared    string    `json:"materials_shared,omitempty"`
	SamplesDistributed string    `json:"samples_distributed,omitempty"`
	HCPSentiment       string    `json:"hcp_sentiment,omitempty"`
	Outcomes           string    `json:"outcomes,omitempty"`
	FollowUpActions    string    `json:"follow_up_actions,omitempty"`
	Summary            string    `json:"summary,omitempty"`
	RawTextInput       string    `json:"raw_text_input,omitempty"`
}

type InteractionCreate struct {
	HCPID              int64     `json:"hcp_id"`
	InteractionType    string    `json:"interaction_type,omitempty"`
	InteractionDate    time.Time `json:"interaction_date,omitempty"`
	InteractionTime    string    `json:"interaction_time,omitempty"`
	Attendees          string    `json:"attendees,omitempty"`
	TopicsDiscussed    string    `json:"topics_discussed,omitempty"`
	MaterialsShared    string    `json:"materials_shared,omitempty"`
	SamplesDistributed string    `json:"samples_distributed,omitempty"`
	HCPSentiment       string    `json:"hcp_sentiment,omitempty"`
	Outcomes           string    `json:"outcomes,omitempty"`
	FollowUpActions    string    `json:"follow_up_actions,omitempty"`
	Summary            string    `json:"summary,omitempty"`
	RawTextInput       string    `json:"raw_text_input,omitempty"`
}

// InteractionUpdate carries a partial update. Nil fields are left untouched,
// never cleared.
type InteractionUpdate struct {
	HCPID              *int64     `json:"hcp_id,omitempty"`
	InteractionType    *string    `json:"interaction_type,omitempty"`
	InteractionDate    *time.Time `json:"interaction_date,omitempty"`
	InteractionTime    *string    `json:"interaction_time,omitempty"`
	Attendees          *string    `json:"attendees,omitempty"`
	TopicsDiscussed    *string    `json:"topics_discussed,omitempty"`
	MaterialsShared    *string    `json:"materials_shared,omitempty"`
	SamplesDistributed *string    `json:"samples_distributed,omitempty"`
	HCPSentiment       *string    `json:"hcp_sentiment,omitempty"`
	Outcomes           *string    `json:"outcomes,omitempty"`
	FollowUpActions    *string    `json:"follow_up_actions,omitempty"`
	Summary            *string    `json:"summary,omitempty"`
	RawTextInput       *string    `json:"raw_text_input,omitempty"`
}
