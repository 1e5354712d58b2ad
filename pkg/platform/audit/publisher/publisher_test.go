package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "sppg/pkg/domain"
	audit "sppg/pkg/platform/audit"
	"sppg/pkg/platform/audit/store/memory"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	tenantID := id.TenantID(uuid.New())
	event := audit.Event{
		TenantID: tenantID,
		Action:   string(audit.EventEnrollmentCreated),
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := store.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventEnrollmentCreated), events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero(), "publisher should stamp emission time")
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))

	tenantID := id.TenantID(uuid.New())
	event := audit.Event{
		TenantID:    tenantID,
		Action:      string(audit.EventEnrollmentRejected),
		FailureCode: "budget_tolerance",
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	// Close drains the buffer before returning.
	pub.Close()

	events, err := store.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "budget_tolerance", events[0].FailureCode)
}

func TestPublisher_EmitAfterCloseIsNoop(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	pub.Close()

	tenantID := id.TenantID(uuid.New())
	for i := 0; i < 32; i++ {
		err := pub.Emit(context.Background(), audit.Event{
			TenantID:  tenantID,
			Action:    string(audit.EventProgramCreated),
			Timestamp: time.Now(),
		})
		require.NoError(t, err)
	}

	events, err := store.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPublisher_ConcurrentEmitAndClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(4))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 64; i++ {
			_ = pub.Emit(context.Background(), audit.Event{
				TenantID: id.TenantID(uuid.New()),
				Action:   string(audit.EventEnrollmentCreated),
			})
		}
	}()
	pub.Close()
	<-done
}
