package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dinnerparty/internal/models"
	"github.com/mmynk/dinnerparty/internal/party"
)

func TestOrderJanitorSweep(t *testing.T) {
	ledger := party.NewOrderLedger(nil)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	stale := &models.Order{
		OrderID:   "stale",
		PartyID:   "party-1",
		Members:   []models.OrderMember{{UserEmail: "a@example.com"}},
		CreatedAt: now.Add(-time.Hour).Unix(),
	}
	fresh := &models.Order{
		OrderID:   "fresh",
		PartyID:   "party-2",
		Members:   []models.OrderMember{{UserEmail: "b@example.com"}},
		CreatedAt: now.Add(-time.Minute).Unix(),
	}
	require.NoError(t, ledger.ProcessOrder(stale))
	require.NoError(t, ledger.ProcessOrder(fresh))

	j := NewOrderJanitor(ledger, 30*time.Minute, time.Minute)
	j.now = func() time.Time { return now }

	assert.Equal(t, 1, j.Sweep())

	_, err := ledger.Outstanding("stale")
	assert.Error(t, err)
	n, err := ledger.Outstanding("fresh")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The party of the evicted order can order again.
	stale.OrderID = "stale-retry"
	stale.CreatedAt = now.Unix()
	assert.NoError(t, ledger.ProcessOrder(stale))
}

func TestOrderJanitorStopsOnCancel(t *testing.T) {
	ledger := party.NewOrderLedger(nil)
	j := NewOrderJanitor(ledger, time.Minute, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Start(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
