package extractor

import (
	"testing"
	"time"
)

var parseNow = time.Date(2026, 5, 4, 19, 36, 0, 0, time.UTC)

func TestParseResponse_AllFields(t *testing.T) {
	resp := `HCP Name: Dr. Emily White
Topics discussed: Product X efficacy data
Materials shared: Product X brochure
Samples distributed: Sample A
HCP sentiment: Positive
Outcomes: Agreed to a follow-up trial
Follow-up actions: Send the phase 3 study`

	rec := parseResponse(resp, parseNow)

	if rec.HCPName != "Dr. Emily White" {
		t.Errorf("expected HCP name, got %q", rec.HCPName)
	}
	if rec.TopicsDiscussed != "Product X efficacy data" {
		t.Errorf("expected topics, got %q", rec.TopicsDiscussed)
	}
	if rec.MaterialsShared != "Product X brochure" {
		t.Errorf("expected materials, got %q", rec.MaterialsShared)
	}
	if rec.SamplesDistributed != "Sample A" {
		t.Errorf("expected samples, got %q", rec.SamplesDistributed)
	}
	if rec.HCPSentiment != "Positive" {
		t.Errorf("expected Positive, got %q", rec.HCPSentiment)
	}
	if rec.Outcomes != "Agreed to a follow-up trial" {
		t.Errorf("expected outcomes, got %q", rec.Outcomes)
	}
	if rec.FollowUpActions != "Send the phase 3 study" {
		t.Errorf("expected follow-ups, got %q", rec.FollowUpActions)
	}
	if rec.InteractionID != 0 {
		t.Errorf("expected no interaction id, got %d", rec.InteractionID)
	}
}

func TestParseResponse_Defaults(t *testing.T) {
	rec := parseResponse("nothing structured here", parseNow)

	if rec.InteractionType != "Meeting" {
		t.Errorf("expected default type Meeting, got %q", rec.InteractionType)
	}
	if rec.InteractionDate != "2026-05-04" {
		t.Errorf("expected default date 2026-05-04, got %q", rec.InteractionDate)
	}
	if rec.InteractionTime != "19:36" {
		t.Errorf("expected default time 19:36, got %q", rec.InteractionTime)
	}
	if rec.HCPSentiment != "Neutral" {
		t.Errorf("expected default sentiment Neutral, got %q", rec.HCPSentiment)
	}
	if rec.HCPName != "" || rec.TopicsDiscussed != "" || rec.Outcomes != "" {
		t.Errorf("expected empty free-text fields, got %+v", rec)
	}
}

func TestParseResponse_SentimentAsteriskDecoration(t *testing.T) {
	rec := parseResponse("HCP sentiment: **Positive**", parseNow)
	if rec.HCPSentiment != "Positive" {
		t.Errorf("expected Positive, got %q", rec.HCPSentiment)
	}
}

func TestParseResponse_SentimentClassification(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"HCP sentiment: Positive", "Positive"},
		{"HCP sentiment: very positive overall", "Positive"},
		{"HCP sentiment: Negative", "Negative"},
		{"HCP sentiment: somewhat negative", "Negative"},
		{"HCP sentiment: Neutral", "Neutral"},
		{"hcp sentiment: POSITIVE", "Positive"},
		// "positive" is tested before "negative"; first substring wins.
		{"HCP sentiment: positive with negative undertones", "Positive"},
		// unclassifiable value keeps the default
		{"HCP sentiment: ambivalent", "Neutral"},
		{"HCP sentiment: Not mentioned", "Neutral"},
	}
	for _, tc := range cases {
		rec := parseResponse(tc.line, parseNow)
		if rec.HCPSentiment != tc.want {
			t.Errorf("%q: expected %q, got %q", tc.line, tc.want, rec.HCPSentiment)
		}
	}
}

func TestParseResponse_AbsentSentinels(t *testing.T) {
	for _, sentinel := range []string{"Not mentioned", "N/A", "None", "Unknown", "not MENTIONED"} {
		rec := parseResponse("Topics discussed: "+sentinel, parseNow)
		if rec.TopicsDiscussed != "" {
			t.Errorf("sentinel %q: expected empty topics, got %q", sentinel, rec.TopicsDiscussed)
		}
	}
}

func TestParseResponse_SentinelPerField(t *testing.T) {
	resp := `HCP Name: Dr. A B
Topics discussed: n/a
Materials shared: None
Samples distributed: unknown
Outcomes: Not mentioned
Follow-up actions: N/A`

	rec := parseResponse(resp, parseNow)
	if rec.HCPName != "Dr. A B" {
		t.Errorf("expected name kept, got %q", rec.HCPName)
	}
	for field, got := range map[string]string{
		"topics":     rec.TopicsDiscussed,
		"materials":  rec.MaterialsShared,
		"samples":    rec.SamplesDistributed,
		"outcomes":   rec.Outcomes,
		"follow-ups": rec.FollowUpActions,
	} {
		if got != "" {
			t.Errorf("%s: expected empty, got %q", field, got)
		}
	}
}

func TestParseResponse_AsteriskStripping(t *testing.T) {
	rec := parseResponse("HCP Name: **Dr. Jane Smith**", parseNow)
	if rec.HCPName != "Dr. Jane Smith" {
		t.Errorf("expected stripped name, got %q", rec.HCPName)
	}
}

func TestParseResponse_OneAssignmentPerLine(t *testing.T) {
	// "HCP Name" matches first; the same line never also assigns topics.
	rec := parseResponse("HCP Name: Dr. X. Topics discussed: hidden", parseNow)
	if rec.HCPName == "" {
		t.Fatal("expected hcp name assigned")
	}
	if rec.TopicsDiscussed != "" {
		t.Errorf("expected topics unassigned from shared line, got %q", rec.TopicsDiscussed)
	}
}

func TestParseResponse_InteractionID(t *testing.T) {
	rec := parseResponse("Interaction ID: 42\nHCP Name: Dr. Jane Smith", parseNow)
	if rec.InteractionID != 42 {
		t.Errorf("expected interaction id 42, got %d", rec.InteractionID)
	}

	rec = parseResponse("Interaction ID: Not mentioned", parseNow)
	if rec.InteractionID != 0 {
		t.Errorf("expected no interaction id, got %d", rec.InteractionID)
	}
}

func TestParseResponse_LaterLineReassigns(t *testing.T) {
	resp := "HCP Name: Dr. First Guess\n" +
		"HCP Name: **Dr. Emily White**\n" +
		"HCP sentiment: *neutral*"
	rec := parseResponse(resp, parseNow)
	if rec.HCPName != "Dr. Emily White" {
		t.Errorf("expected Dr. Emily White, got %q", rec.HCPName)
	}
	if rec.HCPSentiment != "Neutral" {
		t.Errorf("expected Neutral, got %q", rec.HCPSentiment)
	}
}

func TestFallbackHCPName(t *testing.T) {
	got := fallbackHCPName("Met with Dr. Jane Smith, discussed Product X, she seemed positive")
	if got != "Dr. Jane Smith" {
		t.Errorf("expected Dr. Jane Smith, got %q", got)
	}

	if got := fallbackHCPName("caught up with the team about Q3 numbers"); got != "" {
		t.Errorf("expected empty fallback, got %q", got)
	}
}
