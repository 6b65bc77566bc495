package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/daikw/meetbot/internal/registry"
	"github.com/daikw/meetbot/internal/transcript"
)

// Dispatcher routes webhook events to the active-bot registry and the
// transcript store. Events for bots the registry no longer knows are
// logged and acknowledged rather than rejected, since MeetingBaaS retries
// failed deliveries.
type Dispatcher struct {
	registry    *registry.Registry
	transcripts *transcript.Store
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(reg *registry.Registry, transcripts *transcript.Store) *Dispatcher {
	return &Dispatcher{registry: reg, transcripts: transcripts}
}

// Handle applies one event.
func (d *Dispatcher) Handle(ctx context.Context, e *Event) error {
	switch e.Event {
	case EventComplete:
		data, err := e.Complete()
		if err != nil {
			return err
		}
		return d.handleComplete(ctx, data)
	case EventFailed:
		data, err := e.Failed()
		if err != nil {
			return err
		}
		return d.handleFailed(ctx, data)
	case EventStatusChange:
		data, err := e.StatusChange()
		if err != nil {
			return err
		}
		return d.handleStatusChange(ctx, data)
	default:
		log.Warn().Str("event", e.Event).Msg("Ignoring unknown webhook event")
		return nil
	}
}

func (d *Dispatcher) handleComplete(ctx context.Context, data *CompleteData) error {
	t := &transcript.Transcript{
		MeetingID:    data.BotID,
		BotID:        data.BotID,
		RecordingURL: data.MP4,
		Speakers:     data.Speakers,
		Segments:     data.Transcript,
	}

	rec, err := d.registry.ByBotID(ctx, data.BotID)
	switch {
	case err == nil:
		t.Persona = rec.Persona
		if err := d.registry.Remove(ctx, data.BotID); err != nil && !errors.Is(err, registry.ErrNotFound) {
			return fmt.Errorf("failed to retire bot record: %w", err)
		}
	case errors.Is(err, registry.ErrNotFound):
		log.Warn().Str("bot_id", data.BotID).Msg("Complete event for unknown bot")
	default:
		return err
	}

	if len(data.Transcript) == 0 {
		log.Debug().Str("bot_id", data.BotID).Msg("Complete event carried no transcript")
		return nil
	}
	return d.transcripts.Save(t)
}

func (d *Dispatcher) handleFailed(ctx context.Context, data *FailedData) error {
	log.Error().Str("bot_id", data.BotID).Str("error", data.Error).Msg("Bot failed to join meeting")

	err := d.registry.SetStatus(ctx, data.BotID, registry.StatusFailed)
	if errors.Is(err, registry.ErrNotFound) {
		log.Warn().Str("bot_id", data.BotID).Msg("Failed event for unknown bot")
		return nil
	}
	return err
}

func (d *Dispatcher) handleStatusChange(ctx context.Context, data *StatusChangeData) error {
	err := d.registry.SetStatus(ctx, data.BotID, data.Status.Connection)
	if errors.Is(err, registry.ErrNotFound) {
		log.Warn().Str("bot_id", data.BotID).Msg("Status change for unknown bot")
		return nil
	}
	return err
}
