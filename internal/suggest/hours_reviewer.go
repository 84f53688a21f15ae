// Package suggest asks an LLM to propose a structured week of opening hours
// from legacy free-text the deterministic parser could not fully handle. The
// suggestion is advisory: it pre-fills the admin hours form and a curator
// confirms every value before anything is saved.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"antiques-directory/internal/hours"
	"antiques-directory/internal/models"
	"antiques-directory/pkg/circuit"
	errs "antiques-directory/pkg/errors"
)

// DaySuggestion is one proposed day in parser order (Sunday first).
type DaySuggestion struct {
	Day            string `json:"day"`
	Open           string `json:"open,omitempty"`
	Close          string `json:"close,omitempty"`
	Closed         bool   `json:"closed"`
	ByAppointment  bool   `json:"by_appointment"`
	Confidence     string `json:"confidence,omitempty"`
	SourceFragment string `json:"source_fragment,omitempty"`
}

// Suggestion is the full LLM response for one legacy hours string.
type Suggestion struct {
	Days  []DaySuggestion `json:"days"`
	Notes string          `json:"notes,omitempty"`
}

type HoursReviewer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	breaker *circuit.Breaker
}

// NewHoursReviewer builds a reviewer, or nil when no API key is configured.
// Callers treat a nil reviewer as "feature off".
func NewHoursReviewer(apiKey, model string, timeout time.Duration, breaker *circuit.Breaker) *HoursReviewer {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &HoursReviewer{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
		breaker: breaker,
	}
}

// SuggestHours sends the legacy text plus the segments the parser rejected
// and returns a proposed week. Segments already parsed cleanly are listed so
// the model does not contradict them.
func (hr *HoursReviewer) SuggestHours(ctx context.Context, legacyText string, skipped []hours.SkippedSegment) (*Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, hr.timeout)
	defer cancel()

	userPrompt := hr.buildUserPrompt(legacyText, skipped)

	var resp openai.ChatCompletionResponse
	err := hr.breaker.Do(ctx, func(ctx context.Context) error {
		var err error
		resp, err = hr.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: hr.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: hoursSystemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature:    0.2,
			ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		})
		return err
	})
	if err != nil {
		return nil, errs.NewExternal("suggest.SuggestHours", "openai", "chat completion failed", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errs.NewExternal("suggest.SuggestHours", "openai", "empty completion", nil)
	}

	return parseResponse(resp.Choices[0].Message.Content)
}

func (hr *HoursReviewer) buildUserPrompt(legacyText string, skipped []hours.SkippedSegment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Opening hours text from a shop listing:\n%q\n\n", legacyText)
	if len(skipped) > 0 {
		b.WriteString("The automatic parser could not interpret these fragments:\n")
		for _, s := range skipped {
			fmt.Fprintf(&b, "- %q (%s)\n", s.Segment, s.Reason)
		}
		b.WriteString("\n")
	}
	b.WriteString("Propose hours for all seven days, Sunday first.")
	return b.String()
}

// parseResponse tolerates markdown fencing around the JSON body.
func parseResponse(response string) (*Suggestion, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var s Suggestion
	if err := json.Unmarshal([]byte(response), &s); err != nil {
		return nil, errs.NewExternal("suggest.parseResponse", "openai",
			"failed to parse hours suggestion response", err)
	}
	if len(s.Days) != 7 {
		return nil, errs.NewExternal("suggest.parseResponse", "openai",
			fmt.Sprintf("expected 7 days, got %d", len(s.Days)), nil)
	}
	return &s, nil
}

// ToDayHours converts a suggestion into records the admin form can render.
// Days with malformed times come back closed rather than failing the whole
// suggestion.
func (s *Suggestion) ToDayHours(placeID int64) []models.DayHours {
	week := make([]models.DayHours, 7)
	for i := range week {
		week[i] = models.DayHours{PlaceID: placeID, DayOfWeek: models.StorageDay(i), IsClosed: true}
	}
	for i, d := range s.Days {
		if i >= 7 {
			break
		}
		rec := &week[i]
		switch {
		case d.ByAppointment:
			rec.IsClosed = false
			rec.IsByAppointment = true
		case d.Closed:
			// already closed
		case validClock(d.Open) && validClock(d.Close):
			rec.IsClosed = false
			open, close := d.Open, d.Close
			rec.OpenTime = &open
			rec.CloseTime = &close
		}
	}
	return week
}

func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, c := range []byte{s[0], s[1], s[3], s[4]} {
		if c < '0' || c > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h <= 23 && m <= 59
}

const hoursSystemPrompt = `You are a data entry assistant for a directory of antique shops.
Given free-text opening hours, produce a structured week.
Times are 24-hour "HH:MM". Use closed=true for closed days and
by_appointment=true for appointment-only days. If the text is silent about a
day, mark it closed. Never invent times that are not implied by the text.
Output JSON: {"days": [{"day": "Sunday", "open": "10:00", "close": "17:00",
"closed": false, "by_appointment": false, "confidence": "high",
"source_fragment": "..."}, ...], "notes": "..."}`
