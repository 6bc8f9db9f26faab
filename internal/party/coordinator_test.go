package party

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dinnerparty/internal/apperr"
	"github.com/mmynk/dinnerparty/internal/models"
)

type fakeGateway struct {
	mu         sync.Mutex
	authErr    error
	captureErr error
	captured   []string
}

func (g *fakeGateway) Authorize(_ context.Context, payerID string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.authErr != nil {
		return "", g.authErr
	}
	return "token-" + payerID, nil
}

func (g *fakeGateway) Capture(_ context.Context, token string, p *models.PaymentRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.captureErr != nil {
		return g.captureErr
	}
	g.captured = append(g.captured, p.UserEmail)
	return nil
}

func (g *fakeGateway) captures() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.captured)
}

func payment(orderID, email string, amount float64) *models.PaymentRequest {
	return &models.PaymentRequest{
		UserEmail:     email,
		PartyID:       "p-1",
		OrderID:       orderID,
		PaymentAmount: amount,
		PaymentMethod: "CARD",
		CardName:      "A. Diner",
	}
}

func newCoordinatorFixture(t *testing.T, timeout time.Duration, emails ...string) (*PaymentCoordinator, *OrderLedger, *fakeGateway) {
	t.Helper()

	ledger := NewOrderLedger(nil)
	require.NoError(t, ledger.ProcessOrder(testOrder("o-1", "p-1", emails...)))
	gw := &fakeGateway{}
	return NewPaymentCoordinator(ledger, gw, WithSettlementTimeout(timeout)), ledger, gw
}

func TestPaymentCoordinator_BarrierReleasesWhenEveryonePaid(t *testing.T) {
	c, ledger, _ := newCoordinatorFixture(t, time.Minute, "a@x.io", "b@x.io")
	ctx := context.Background()

	first := make(chan models.PaymentResult, 1)
	go func() { first <- c.ProcessPayment(ctx, payment("o-1", "a@x.io", 10)) }()

	require.Eventually(t, func() bool {
		n, _ := ledger.Outstanding("o-1")
		return n == 1
	}, time.Second, 5*time.Millisecond)

	select {
	case res := <-first:
		t.Fatalf("first payer released early: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}

	second := c.ProcessPayment(ctx, payment("o-1", "b@x.io", 10))
	require.True(t, second.Success)
	assert.Equal(t, 2, second.GroupSize)
	assert.Equal(t, 70.0, second.Rewards)
	assert.Equal(t, models.SettlementComplete, second.Mode)

	select {
	case res := <-first:
		require.True(t, res.Success)
		assert.Equal(t, 2, res.GroupSize)
		assert.Equal(t, 70.0, res.Rewards)
	case <-time.After(time.Second):
		t.Fatal("first payer was not released")
	}
}

func TestPaymentCoordinator_SoftTimeout(t *testing.T) {
	c, ledger, _ := newCoordinatorFixture(t, 50*time.Millisecond, "a@x.io", "b@x.io")

	start := time.Now()
	res := c.ProcessPayment(context.Background(), payment("o-1", "a@x.io", 10))

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.True(t, res.Success, "timeout is a completion mode, not a failure")
	assert.Equal(t, 1, res.GroupSize)
	assert.Equal(t, 60.0, res.Rewards)
	assert.Equal(t, models.SettlementTimeout, res.Mode)

	n, err := ledger.Outstanding("o-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the recorded payment is not rolled back")
}

func TestPaymentCoordinator_SimulatedFailure(t *testing.T) {
	c, ledger, gw := newCoordinatorFixture(t, time.Minute, "a@x.io", "b@x.io")

	req := payment("o-1", "a@x.io", 10)
	req.SimulateFailure = true
	res := c.ProcessPayment(context.Background(), req)

	assert.False(t, res.Success)
	assert.Equal(t, string(apperr.KindPaymentDeclined), res.ErrorKind)
	assert.Zero(t, gw.captures())

	n, err := ledger.Outstanding("o-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPaymentCoordinator_GatewayFailures(t *testing.T) {
	tests := []struct {
		name       string
		authErr    error
		captureErr error
	}{
		{name: "authorization declined", authErr: fmt.Errorf("token: %w", apperr.ErrPaymentDeclined)},
		{name: "capture declined", captureErr: fmt.Errorf("capture: %w", apperr.ErrPaymentDeclined)},
		{name: "gateway unreachable", authErr: fmt.Errorf("dial: %w", apperr.ErrGatewayDown)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ledger, gw := newCoordinatorFixture(t, time.Minute, "a@x.io", "b@x.io")
			gw.authErr = tt.authErr
			gw.captureErr = tt.captureErr

			res := c.ProcessPayment(context.Background(), payment("o-1", "a@x.io", 10))

			assert.False(t, res.Success)
			assert.Equal(t, string(apperr.KindPaymentDeclined), res.ErrorKind)
			assert.NotEmpty(t, res.Message)

			n, _ := ledger.Outstanding("o-1")
			assert.Equal(t, 2, n)
		})
	}
}

func TestPaymentCoordinator_OrderNotFound(t *testing.T) {
	c, ledger, gw := newCoordinatorFixture(t, time.Minute, "a@x.io")

	require.NoError(t, ledger.HandleMemberLeft("p-1", "a@x.io"))

	res := c.ProcessPayment(context.Background(), payment("o-1", "a@x.io", 10))
	assert.False(t, res.Success)
	assert.Equal(t, string(apperr.KindNotFound), res.ErrorKind)
	assert.Zero(t, gw.captures(), "unknown orders are not charged")
}

func TestPaymentCoordinator_MemberLeavingReleasesWaiters(t *testing.T) {
	c, ledger, _ := newCoordinatorFixture(t, time.Minute, "a@x.io", "b@x.io")

	done := make(chan models.PaymentResult, 1)
	go func() { done <- c.ProcessPayment(context.Background(), payment("o-1", "a@x.io", 4)) }()

	require.Eventually(t, func() bool {
		n, _ := ledger.Outstanding("o-1")
		return n == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, ledger.HandleMemberLeft("p-1", "b@x.io"))

	select {
	case res := <-done:
		require.True(t, res.Success)
		assert.Equal(t, 1, res.GroupSize)
		assert.Equal(t, 30.0, res.Rewards)
		assert.Equal(t, models.SettlementComplete, res.Mode)
	case <-time.After(time.Second):
		t.Fatal("payer still blocked after the last unpaid member left")
	}
}

func TestPaymentCoordinator_ConcurrentPayersAllSettle(t *testing.T) {
	emails := []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io"}
	c, _, gw := newCoordinatorFixture(t, time.Minute, emails...)

	var wg sync.WaitGroup
	results := make([]models.PaymentResult, len(emails))
	for i, e := range emails {
		wg.Add(1)
		go func(i int, e string) {
			defer wg.Done()
			results[i] = c.ProcessPayment(context.Background(), payment("o-1", e, 2))
		}(i, e)
	}
	wg.Wait()

	assert.Equal(t, len(emails), gw.captures())
	for _, res := range results {
		require.True(t, res.Success)
		assert.Equal(t, len(emails), res.GroupSize)
		assert.Equal(t, 60.0, res.Rewards)
	}
}

func TestPaymentCoordinator_SweepKeepsWaitingOrder(t *testing.T) {
	ledger := NewOrderLedger(nil)
	now := time.Now()
	ledger.now = func() time.Time { return now.Add(-29 * time.Minute) }
	require.NoError(t, ledger.ProcessOrder(testOrder("o-1", "p-1", "a@x.io", "b@x.io")))
	ledger.now = time.Now
	c := NewPaymentCoordinator(ledger, &fakeGateway{}, WithSettlementTimeout(time.Minute))

	done := make(chan models.PaymentResult, 1)
	go func() { done <- c.ProcessPayment(context.Background(), payment("o-1", "a@x.io", 10)) }()

	require.Eventually(t, func() bool {
		n, _ := ledger.Outstanding("o-1")
		return n == 1
	}, time.Second, 5*time.Millisecond)

	assert.Zero(t, ledger.EvictBefore(now.Add(-28*time.Minute)))

	select {
	case res := <-done:
		t.Fatalf("payer released by the sweep: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}

	res := c.ProcessPayment(context.Background(), payment("o-1", "b@x.io", 10))
	require.True(t, res.Success)
	assert.Equal(t, 2, res.GroupSize)

	first := <-done
	require.True(t, first.Success)
	assert.Equal(t, models.SettlementComplete, first.Mode)
	assert.Equal(t, 70.0, first.Rewards)
}

func TestPaymentCoordinator_CancelledCallerStillWaits(t *testing.T) {
	c, ledger, _ := newCoordinatorFixture(t, time.Minute, "a@x.io", "b@x.io")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan models.PaymentResult, 1)
	go func() { done <- c.ProcessPayment(ctx, payment("o-1", "a@x.io", 10)) }()

	require.Eventually(t, func() bool {
		n, _ := ledger.Outstanding("o-1")
		return n == 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case res := <-done:
		t.Fatalf("cancellation ended the wait early: %+v", res)
	case <-time.After(50 * time.Millisecond):
	}

	c.ProcessPayment(context.Background(), payment("o-1", "b@x.io", 10))

	select {
	case res := <-done:
		require.True(t, res.Success)
		assert.Equal(t, 2, res.GroupSize)
		assert.Equal(t, 70.0, res.Rewards)
	case <-time.After(time.Second):
		t.Fatal("payer not released after everyone paid")
	}
}
