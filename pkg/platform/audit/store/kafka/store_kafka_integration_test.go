//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	id "sppg/pkg/domain"
	audit "sppg/pkg/platform/audit"
	auditkafka "sppg/pkg/platform/audit/store/kafka"
	"sppg/pkg/testutil/containers"
)

func TestKafkaAuditStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redpanda := containers.NewRedpandaContainer(t)
	ctx := context.Background()

	store, err := auditkafka.New(ctx, []string{redpanda.Broker}, "")
	require.NoError(t, err)
	defer store.Close()

	tenantID := id.TenantID(uuid.New())
	programID := id.NewProgramID()
	event := audit.Event{
		Timestamp:   time.Now().UTC(),
		TenantID:    tenantID,
		ProgramID:   programID,
		Action:      string(audit.EventEnrollmentRejected),
		TargetGroup: "school_children",
		Reason:      "declared monthly budget deviates from expectation",
		FailureCode: "budget_tolerance",
		RequestID:   uuid.NewString(),
	}
	require.NoError(t, store.Append(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(auditkafka.DefaultTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, tenantID.String(), string(records[0].Key))

	var decoded struct {
		TenantID    string `json:"tenant_id"`
		ProgramID   string `json:"program_id"`
		Action      string `json:"action"`
		TargetGroup string `json:"target_group"`
		FailureCode string `json:"failure_code"`
		UserID      string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(records[0].Value, &decoded))
	require.Equal(t, tenantID.String(), decoded.TenantID)
	require.Equal(t, programID.String(), decoded.ProgramID)
	require.Equal(t, string(audit.EventEnrollmentRejected), decoded.Action)
	require.Equal(t, "school_children", decoded.TargetGroup)
	require.Equal(t, "budget_tolerance", decoded.FailureCode)
	require.Empty(t, decoded.UserID, "nil user must be omitted")
}
