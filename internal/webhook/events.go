// Package webhook handles MeetingBaaS webhook events: meeting completion,
// bot failure, and bot status changes.
package webhook

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/daikw/meetbot/internal/transcript"
)

// Event names MeetingBaaS sends.
const (
	EventComplete     = "complete"
	EventFailed       = "failed"
	EventStatusChange = "bot.status_change"
)

// Event is the envelope of every MeetingBaaS webhook call.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// CompleteData carries the final recording and transcript of a finished
// meeting.
type CompleteData struct {
	BotID      string               `json:"bot_id"`
	MP4        string               `json:"mp4,omitempty"`
	Speakers   []string             `json:"speakers,omitempty"`
	Transcript []transcript.Segment `json:"transcript,omitempty"`
}

// FailedData reports a bot that never made it into its meeting.
type FailedData struct {
	BotID string `json:"bot_id"`
	Error string `json:"error,omitempty"`
}

// StatusChangeData reports a bot connection state transition.
type StatusChangeData struct {
	BotID  string    `json:"bot_id"`
	Status BotStatus `json:"status"`
}

// BotStatus is the nested status object of a status_change event.
type BotStatus struct {
	Connection string `json:"connection"`
	Timestamp  string `json:"timestamp,omitempty"`
}

// ParseEvent reads and parses a webhook event envelope.
func ParseEvent(r io.Reader) (*Event, error) {
	var event Event
	if err := json.NewDecoder(r).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook event: %w", err)
	}
	if event.Event == "" {
		return nil, fmt.Errorf("webhook event has no event name")
	}
	return &event, nil
}

// Complete decodes the event payload as a complete event.
func (e *Event) Complete() (*CompleteData, error) {
	if e.Event != EventComplete {
		return nil, fmt.Errorf("event is %q, not %q", e.Event, EventComplete)
	}
	var data CompleteData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse complete event data: %w", err)
	}
	return &data, nil
}

// Failed decodes the event payload as a failed event.
func (e *Event) Failed() (*FailedData, error) {
	if e.Event != EventFailed {
		return nil, fmt.Errorf("event is %q, not %q", e.Event, EventFailed)
	}
	var data FailedData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse failed event data: %w", err)
	}
	return &data, nil
}

// StatusChange decodes the event payload as a status change event.
func (e *Event) StatusChange() (*StatusChangeData, error) {
	if e.Event != EventStatusChange {
		return nil, fmt.Errorf("event is %q, not %q", e.Event, EventStatusChange)
	}
	var data StatusChangeData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse status change event data: %w", err)
	}
	return &data, nil
}
