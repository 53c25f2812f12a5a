// Package confirm implements one-time operator confirmation tokens for
// dispatch actions. A token is minted for a specific action on a specific
// resource, stored in redis with a short TTL and consumed exactly once; the
// dispatch handlers require a valid token before mutating anything.
package confirm

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"aquaops_backend/platform/apperr"
)

const keyPrefix = "dispatch:confirm:"

// Store issues and redeems one-time confirmation tokens.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a confirmation token store with the given time-to-live.
func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// TTL returns the lifetime of minted tokens.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Mint issues a fresh token binding the organization, action and resource.
func (s *Store) Mint(ctx context.Context, organizationID uuid.UUID, action string, resourceID uuid.UUID) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate confirmation token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.client.Set(ctx, keyPrefix+token, binding(organizationID, action, resourceID), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store confirmation token: %w", err)
	}
	return token, nil
}

// Consume redeems a token for the given action. The GetDel makes redemption
// one-shot: a second consumer of the same token sees a missing key.
func (s *Store) Consume(ctx context.Context, token string, organizationID uuid.UUID, action string, resourceID uuid.UUID) error {
	if token == "" {
		return ErrConfirmationRequired()
	}

	stored, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrConfirmationRequired()
		}
		return fmt.Errorf("failed to redeem confirmation token: %w", err)
	}

	if stored != binding(organizationID, action, resourceID) {
		return ErrConfirmationMismatch()
	}
	return nil
}

func binding(organizationID uuid.UUID, action string, resourceID uuid.UUID) string {
	return organizationID.String() + "|" + action + "|" + resourceID.String()
}

// ErrConfirmationRequired reports a missing, expired or already-used token.
func ErrConfirmationRequired() *apperr.Error {
	return apperr.PreconditionRequired("a valid confirmation token is required for this action")
}

// ErrConfirmationMismatch reports a token minted for a different action or
// resource.
func ErrConfirmationMismatch() *apperr.Error {
	return apperr.PreconditionRequired("confirmation token does not match this action")
}
