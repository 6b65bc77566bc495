package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Bot lifecycle statuses, mirroring the webhook events MeetingBaaS sends.
const (
	StatusJoining   = "joining"
	StatusConnected = "connected"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ErrNotFound is returned when no record matches the given ID.
var ErrNotFound = errors.New("bot record not found")

// Record tracks one launched bot: the internal client ID assigned at
// launch, the MeetingBaaS bot ID, and the launch parameters needed to
// service later webhook events and console queries.
type Record struct {
	ClientID     string    `json:"client_id"`
	BotID        string    `json:"bot_id"`
	MeetingURL   string    `json:"meeting_url"`
	Persona      string    `json:"persona"`
	EntryMessage string    `json:"entry_message,omitempty"`
	TextMessage  string    `json:"text_message,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Registry stores active-bot records in Redis. Records are JSON values
// under a key prefix, with a secondary index from MeetingBaaS bot IDs to
// client IDs.
type Registry struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Option configures a Registry.
type Option func(*Registry)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// WithTTL sets an expiry on records; 0 means no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.ttl = ttl
	}
}

// New creates a registry backed by the given Redis client.
func New(client *redis.Client, opts ...Option) *Registry {
	r := &Registry{
		client: client,
		prefix: "meetbot",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewClientID mints an internal client ID for a bot launch.
func NewClientID() string {
	return uuid.NewString()
}

// Put stores a record and indexes it by bot ID.
func (r *Registry) Put(ctx context.Context, rec Record) error {
	if rec.ClientID == "" {
		return fmt.Errorf("client ID is required")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal bot record: %w", err)
	}

	if err := r.client.Set(ctx, r.recordKey(rec.ClientID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store bot record: %w", err)
	}
	if rec.BotID != "" {
		if err := r.client.Set(ctx, r.indexKey(rec.BotID), rec.ClientID, r.ttl).Err(); err != nil {
			return fmt.Errorf("failed to index bot record: %w", err)
		}
	}

	log.Debug().Str("client_id", rec.ClientID).Str("bot_id", rec.BotID).Msg("Stored bot record")
	return nil
}

// Get fetches a record by internal client ID.
func (r *Registry) Get(ctx context.Context, clientID string) (Record, error) {
	data, err := r.client.Get(ctx, r.recordKey(clientID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("failed to fetch bot record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal bot record: %w", err)
	}
	return rec, nil
}

// ByBotID fetches a record by MeetingBaaS bot ID.
func (r *Registry) ByBotID(ctx context.Context, botID string) (Record, error) {
	clientID, err := r.client.Get(ctx, r.indexKey(botID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("failed to resolve bot ID: %w", err)
	}
	return r.Get(ctx, clientID)
}

// List returns all records, oldest launch first.
func (r *Registry) List(ctx context.Context) ([]Record, error) {
	records := []Record{}
	iter := r.client.Scan(ctx, 0, r.prefix+":bots:*", 100).Iterator()
	for iter.Next(ctx) {
		data, err := r.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // expired between Scan and Get
			}
			return nil, fmt.Errorf("failed to fetch bot record: %w", err)
		}
		var rec Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bot record: %w", err)
		}
		records = append(records, rec)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list bot records: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// SetStatus updates the status of the record with the given bot ID.
func (r *Registry) SetStatus(ctx context.Context, botID, status string) error {
	rec, err := r.ByBotID(ctx, botID)
	if err != nil {
		return err
	}
	rec.Status = status
	return r.Put(ctx, rec)
}

// Remove deletes the record with the given bot ID and its index entry.
func (r *Registry) Remove(ctx context.Context, botID string) error {
	rec, err := r.ByBotID(ctx, botID)
	if err != nil {
		return err
	}

	if err := r.client.Del(ctx, r.recordKey(rec.ClientID), r.indexKey(botID)).Err(); err != nil {
		return fmt.Errorf("failed to delete bot record: %w", err)
	}

	log.Debug().Str("bot_id", botID).Msg("Removed bot record")
	return nil
}

func (r *Registry) recordKey(clientID string) string {
	return fmt.Sprintf("%s:bots:%s", r.prefix, clientID)
}

func (r *Registry) indexKey(botID string) string {
	return fmt.Sprintf("%s:botid:%s", r.prefix, botID)
}
