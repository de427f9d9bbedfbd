package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/whms/health-portal/internal/credential"
)

const replayTTL = time.Hour

// ReplayGuard remembers recently used QR payloads so a scanned code cannot
// open a second session within the TTL window.
// Key format: qr_used:<identity_id>:<issued_at_millis>
type ReplayGuard struct {
	client *redis.Client
}

// NewReplayGuard creates a ReplayGuard wrapping the given Redis client.
func NewReplayGuard(client *redis.Client) *ReplayGuard {
	return &ReplayGuard{client: client}
}

// Seen reports whether this exact payload has already been used.
func (g *ReplayGuard) Seen(ctx context.Context, p *credential.Payload) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(p)).Result()
	if err != nil {
		return false, fmt.Errorf("replay check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this payload has been used (expires after replayTTL).
func (g *ReplayGuard) Mark(ctx context.Context, p *credential.Payload) error {
	return g.client.Set(ctx, g.key(p), "1", replayTTL).Err()
}

func (g *ReplayGuard) key(p *credential.Payload) string {
	return fmt.Sprintf("qr_used:%s:%d", p.IdentityID, p.IssuedAt)
}
