// Package transcript persists meeting transcripts delivered by webhook
// events and serves them back to the console.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned when no transcript exists for a meeting.
var ErrNotFound = errors.New("transcript not found")

// Word is one recognized word with its timing.
type Word struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Word  string  `json:"word"`
}

// Segment is one speaker's contiguous run of words.
type Segment struct {
	Speaker string `json:"speaker"`
	Words   []Word `json:"words"`
}

// Transcript is the stored form of a finished meeting's transcript.
type Transcript struct {
	MeetingID    string    `json:"meeting_id"`
	BotID        string    `json:"bot_id,omitempty"`
	Persona      string    `json:"persona,omitempty"`
	RecordingURL string    `json:"recording_url,omitempty"`
	Speakers     []string  `json:"speakers,omitempty"`
	Segments     []Segment `json:"segments"`
	SavedAt      time.Time `json:"saved_at"`
}

// Text flattens the transcript into speaker-labelled lines.
func (t *Transcript) Text() string {
	var b strings.Builder
	for _, seg := range t.Segments {
		words := make([]string, 0, len(seg.Words))
		for _, w := range seg.Words {
			words = append(words, w.Word)
		}
		fmt.Fprintf(&b, "%s: %s\n", seg.Speaker, strings.Join(words, " "))
	}
	return b.String()
}

// Store reads and writes transcripts as one JSON file per meeting.
type Store struct {
	dir string
}

// NewStore creates a transcript store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes a transcript, stamping SavedAt.
func (s *Store) Save(t *Transcript) error {
	if t.MeetingID == "" {
		return fmt.Errorf("meeting ID is required")
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create transcripts directory: %w", err)
	}

	t.SavedAt = time.Now().UTC()
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}

	if err := os.WriteFile(s.path(t.MeetingID), data, 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	log.Info().Str("meeting_id", t.MeetingID).Int("segments", len(t.Segments)).Msg("Saved transcript")
	return nil
}

// Get loads the transcript for a meeting.
func (s *Store) Get(meetingID string) (*Transcript, error) {
	data, err := os.ReadFile(s.path(meetingID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return &t, nil
}

// List returns the meeting IDs of all stored transcripts, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read transcripts directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, "_transcript.json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, "_transcript.json"))
	}

	sort.Strings(ids)
	return ids, nil
}

func (s *Store) path(meetingID string) string {
	return filepath.Join(s.dir, meetingID+"_transcript.json")
}
