package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lt-line-dashboard/internal/domain"
)

func appendN(t *testing.T, log *RingNotificationLog, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		err := log.Append(ctx, &domain.NotificationItem{
			ID:        fmt.Sprintf("id-%d", i),
			Timestamp: time.Now(),
			LineID:    "LT-001",
			Message:   fmt.Sprintf("message %d", i),
			Status:    domain.LineStatusFault,
		})
		require.NoError(t, err)
	}
}

func TestRingNotificationLogOrdering(t *testing.T) {
	log := NewRingNotificationLog(20)
	appendN(t, log, 3)

	items, err := log.FindRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Найновіший запис попереду
	assert.Equal(t, "id-2", items[0].ID)
	assert.Equal(t, "id-0", items[2].ID)
}

func TestRingNotificationLogEviction(t *testing.T) {
	log := NewRingNotificationLog(20)
	appendN(t, log, 25)

	items, err := log.FindRecent(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 20, "log must never exceed its capacity")

	// Витіснено п'ять найстаріших
	assert.Equal(t, "id-24", items[0].ID)
	assert.Equal(t, "id-5", items[19].ID)
}

func TestRingNotificationLogClear(t *testing.T) {
	log := NewRingNotificationLog(20)
	appendN(t, log, 7)

	require.NoError(t, log.Clear(context.Background()))

	items, err := log.FindRecent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRingNotificationLogDefaultCapacity(t *testing.T) {
	log := NewRingNotificationLog(0)
	appendN(t, log, DefaultNotificationCapacity+1)

	items, err := log.FindRecent(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, DefaultNotificationCapacity)
}
