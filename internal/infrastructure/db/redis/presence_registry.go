package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/CodeOrigin25/Mandi-Link/internal/core/domain"
)

// PresenceRegistry keeps one Redis hash per role.
// Key format: presence:<role>, field <identity_id> → JSON snapshot.
// HSET/HDEL make add and remove idempotent by construction.
type PresenceRegistry struct {
	client *redis.Client
}

// NewPresenceRegistry wraps the given Redis client.
func NewPresenceRegistry(client *redis.Client) *PresenceRegistry {
	return &PresenceRegistry{client: client}
}

func (p *PresenceRegistry) AddEntry(ctx context.Context, entry domain.PresenceEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encode presence entry: %v", domain.ErrWriteFailed, err)
	}
	if err := p.client.HSet(ctx, p.key(entry.Role), entry.IdentityID, payload).Err(); err != nil {
		return fmt.Errorf("%w: presence upsert: %v", domain.ErrWriteFailed, err)
	}
	return nil
}

func (p *PresenceRegistry) RemoveEntry(ctx context.Context, role domain.Role, identityID string) error {
	if err := p.client.HDel(ctx, p.key(role), identityID).Err(); err != nil {
		return fmt.Errorf("%w: presence delete: %v", domain.ErrWriteFailed, err)
	}
	return nil
}

func (p *PresenceRegistry) ListByRole(ctx context.Context, role domain.Role) ([]domain.PresenceEntry, error) {
	fields, err := p.client.HGetAll(ctx, p.key(role)).Result()
	if err != nil {
		return nil, fmt.Errorf("presence list: %w", err)
	}

	entries := make([]domain.PresenceEntry, 0, len(fields))
	for id, raw := range fields {
		var entry domain.PresenceEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("decode presence entry %s: %w", id, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (p *PresenceRegistry) key(role domain.Role) string {
	return "presence:" + string(role)
}
