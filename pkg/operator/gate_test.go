package operator_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grantfox/tenantcore/pkg/audit"
	"github.com/grantfox/tenantcore/pkg/operator"
)

type recordingStorage struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingStorage) Store(ctx context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingStorage) all() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Event(nil), s.events...)
}

func newGate(t *testing.T) (*operator.Gate, *operator.MemorySource, *recordingStorage) {
	t.Helper()
	source := operator.NewMemorySource()
	storage := &recordingStorage{}
	gate := operator.NewGate(source, operator.WithAuditLogger(audit.NewLogger(storage)))
	return gate, source, storage
}

func TestGate_Authorize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("platform operator is granted", func(t *testing.T) {
		t.Parallel()
		gate, source, storage := newGate(t)

		opID := uuid.New()
		source.Put(operator.User{ID: opID, Email: "ops@example.com", PlatformOperator: true})

		require.NoError(t, gate.Authorize(ctx, opID))

		events := storage.all()
		require.Len(t, events, 1)
		assert.Equal(t, "admin_override.granted", events[0].Action)
		assert.Equal(t, opID.String(), events[0].Actor)
		assert.Equal(t, audit.ResultSuccess, events[0].Result)
	})

	t.Run("regular user is denied", func(t *testing.T) {
		t.Parallel()
		gate, source, storage := newGate(t)

		userID := uuid.New()
		source.Put(operator.User{ID: userID, Email: "user@example.com"})

		err := gate.Authorize(ctx, userID)
		assert.ErrorIs(t, err, operator.ErrOverrideDenied)

		events := storage.all()
		require.Len(t, events, 1)
		assert.Equal(t, "admin_override.denied", events[0].Action)
		assert.Equal(t, userID.String(), events[0].Actor)
		assert.Equal(t, audit.ResultDenied, events[0].Result)
		assert.NotEmpty(t, events[0].Error)
	})

	t.Run("tenant owner is not an operator", func(t *testing.T) {
		t.Parallel()
		gate, source, _ := newGate(t)

		// Owning a tenant grants no platform capability; the flag decides.
		ownerID := uuid.New()
		source.Put(operator.User{ID: ownerID, Email: "owner@example.com", PlatformOperator: false})

		assert.ErrorIs(t, gate.Authorize(ctx, ownerID), operator.ErrOverrideDenied)
	})

	t.Run("unknown user is denied", func(t *testing.T) {
		t.Parallel()
		gate, _, storage := newGate(t)

		err := gate.Authorize(ctx, uuid.New())
		assert.ErrorIs(t, err, operator.ErrOverrideDenied)

		events := storage.all()
		require.Len(t, events, 1)
		assert.Equal(t, "admin_override.denied", events[0].Action)
		assert.Equal(t, audit.ResultDenied, events[0].Result)
	})

	t.Run("grant is per call, flag change takes effect immediately", func(t *testing.T) {
		t.Parallel()
		gate, source, _ := newGate(t)

		userID := uuid.New()
		source.Put(operator.User{ID: userID, PlatformOperator: true})
		require.NoError(t, gate.Authorize(ctx, userID))

		source.Put(operator.User{ID: userID, PlatformOperator: false})
		assert.ErrorIs(t, gate.Authorize(ctx, userID), operator.ErrOverrideDenied,
			"gate must not remember previous grants")
	})
}
