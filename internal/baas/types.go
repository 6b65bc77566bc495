package baas

// JoinRequest carries everything MeetingBaaS needs to put a speaking bot
// into a meeting.
type JoinRequest struct {
	MeetingURL       string         `json:"meeting_url"`
	BotName          string         `json:"bot_name"`
	BotImage         string         `json:"bot_image,omitempty"`
	EntryMessage     string         `json:"entry_message,omitempty"`
	TextMessage      string         `json:"text_message,omitempty"`
	WebhookURL       string         `json:"webhook_url,omitempty"`
	DeduplicationKey string         `json:"deduplication_key,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`

	// Fixed internally; not exposed through the console API.
	StreamingAudioFrequency string `json:"streaming_audio_frequency,omitempty"`
}

// JoinResponse is MeetingBaaS's acknowledgement of a bot creation.
type JoinResponse struct {
	BotID string `json:"bot_id"`
}

// LeaveResponse reports whether a bot was removed from its meeting.
type LeaveResponse struct {
	OK bool `json:"ok"`
}
