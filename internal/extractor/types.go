package extractor

import "time"

// ExtractedInteraction is the normalized output of a field extraction pass.
// It mirrors an interaction's editable fields but carries the HCP by name,
// not id; resolution to an id happens later. InteractionID is non-zero when
// the user's message refers to an existing interaction (an edit request).
type ExtractedInteraction struct {
	HCPName            string
	InteractionType    string
	InteractionDate    string // YYYY-MM-DD
	InteractionTime    string // HH:MM
	Attendees          string
	TopicsDiscussed    string
	MaterialsShared    string
	SamplesDistributed string
	HCPSentiment       string // Positive | Neutral | Negative
	Outcomes           string
	FollowUpActions    string
	InteractionID      int64

	// ExtractedAt is the clock the date/time defaults were derived from.
	// Consumers comparing fields against their defaults must use this
	// instant, not a fresh one.
	ExtractedAt time.Time
}
