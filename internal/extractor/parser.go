package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The key-value patterns below are the compatibility surface with the model's
// expected output format. Changing them changes which responses parse.
var (
	sentimentPattern = regexp.MustCompile(`(?i)HCP sentiment:\s*(.+)`)

	fieldPatterns = []struct {
		re     *regexp.Regexp
		assign func(*ExtractedInteraction, string)
	}{
		{regexp.MustCompile(`(?i)HCP Name:\s*(.+)`), func(r *ExtractedInteraction, v string) { r.HCPName = v }},
		{regexp.MustCompile(`(?i)Topics discussed:\s*(.+)`), func(r *ExtractedInteraction, v string) { r.TopicsDiscussed = v }},
		{regexp.MustCompile(`(?i)Materials shared:\s*(.+)`), func(r *ExtractedInteraction, v string) { r.MaterialsShared = v }},
		{regexp.MustCompile(`(?i)Samples distributed:\s*(.+)`), func(r *ExtractedInteraction, v string) { r.SamplesDistributed = v }},
		{regexp.MustCompile(`(?i)Outcomes:\s*(.+)`), func(r *ExtractedInteraction, v string) { r.Outcomes = v }},
		{regexp.MustCompile(`(?i)Follow-up actions:\s*(.+)`), func(r *ExtractedInteraction, v string) { r.FollowUpActions = v }},
	}

	asteriskPattern      = regexp.MustCompile(`^\*+\s*|\s*\*+$`)
	interactionIDPattern = regexp.MustCompile(`(?i)Interaction ID:\s*(\d+)`)
	drNamePattern        = regexp.MustCompile(`(?i)Dr\.?\s?\w+\s?\w+`)
)

// absent values the model uses instead of leaving a field blank
var absentSentinels = map[string]bool{
	"not mentioned": true,
	"n/a":           true,
	"none":          true,
	"unknown":       true,
}

func stripDecoration(v string) string {
	return strings.TrimSpace(asteriskPattern.ReplaceAllString(strings.TrimSpace(v), ""))
}

// parseResponse turns the model's line-oriented key-value response into a
// normalized record. One field assignment per line, sentiment tested first,
// then the labeled patterns in fixed order, first match wins.
func parseResponse(text string, now time.Time) ExtractedInteraction {
	rec := ExtractedInteraction{
		InteractionType: "Meeting",
		InteractionDate: now.Format("2006-01-02"),
		InteractionTime: now.Format("15:04"),
		HCPSentiment:    "Neutral",
		ExtractedAt:     now,
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := sentimentPattern.FindStringSubmatch(line); m != nil {
			v := strings.ToLower(stripDecoration(m[1]))
			switch {
			case strings.Contains(v, "positive"):
				rec.HCPSentiment = "Positive"
			case strings.Contains(v, "negative"):
				rec.HCPSentiment = "Negative"
			case strings.Contains(v, "neutral"):
				rec.HCPSentiment = "Neutral"
			}
			continue
		}

		for _, fp := range fieldPatterns {
			m := fp.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			v := stripDecoration(m[1])
			if absentSentinels[strings.ToLower(v)] {
				v = ""
			}
			fp.assign(&rec, v)
			break
		}
	}

	// The model sometimes wraps sentinels in decoration the first pass missed.
	if absentSentinels[strings.ToLower(rec.MaterialsShared)] {
		rec.MaterialsShared = ""
	}
	if absentSentinels[strings.ToLower(rec.SamplesDistributed)] {
		rec.SamplesDistributed = ""
	}

	if m := interactionIDPattern.FindStringSubmatch(text); m != nil {
		if id, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			rec.InteractionID = id
		}
	}

	return rec
}

// fallbackHCPName scans raw user text for a "Dr. First Last" shape. Used when
// the structured response carried no HCP Name line.
func fallbackHCPName(rawText string) string {
	return strings.TrimSpace(drNamePattern.FindString(rawText))
}
