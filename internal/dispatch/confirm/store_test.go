package confirm

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaops_backend/platform/apperr"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, 2*time.Minute), mr
}

func TestMintAndConsume(t *testing.T) {
	store, _ := newTestStore(t)
	orgID := uuid.New()
	resourceID := uuid.New()

	token, err := store.Mint(context.Background(), orgID, "assign_installation", resourceID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = store.Consume(context.Background(), token, orgID, "assign_installation", resourceID)
	require.NoError(t, err)

	// One-shot: the same token cannot be redeemed twice.
	err = store.Consume(context.Background(), token, orgID, "assign_installation", resourceID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPreconditionRequired))
}

func TestConsumeMismatch(t *testing.T) {
	store, _ := newTestStore(t)
	orgID := uuid.New()
	resourceID := uuid.New()

	tests := []struct {
		name     string
		org      uuid.UUID
		action   string
		resource uuid.UUID
	}{
		{"different action", orgID, "close_service", resourceID},
		{"different resource", orgID, "assign_installation", uuid.New()},
		{"different organization", uuid.New(), "assign_installation", resourceID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, err := store.Mint(context.Background(), orgID, "assign_installation", resourceID)
			require.NoError(t, err)

			err = store.Consume(context.Background(), token, tc.org, tc.action, tc.resource)
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindPreconditionRequired))
		})
	}
}

func TestConsumeExpired(t *testing.T) {
	store, mr := newTestStore(t)
	orgID := uuid.New()
	resourceID := uuid.New()

	token, err := store.Mint(context.Background(), orgID, "complete_installation", resourceID)
	require.NoError(t, err)

	mr.FastForward(3 * time.Minute)

	err = store.Consume(context.Background(), token, orgID, "complete_installation", resourceID)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPreconditionRequired))
}

func TestConsumeEmptyToken(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.Consume(context.Background(), "", uuid.New(), "assign_service", uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPreconditionRequired))
}
