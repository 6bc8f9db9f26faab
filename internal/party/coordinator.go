package party

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mmynk/dinnerparty/internal/apperr"
	"github.com/mmynk/dinnerparty/internal/calculator"
	"github.com/mmynk/dinnerparty/internal/metrics"
	"github.com/mmynk/dinnerparty/internal/models"
)

// DefaultSettlementTimeout is how long a payer waits for the rest of the party.
const DefaultSettlementTimeout = 5 * time.Minute

var tracer = otel.Tracer("github.com/mmynk/dinnerparty/internal/party")

// PaymentGateway executes card payments. Implementations return errors
// wrapping apperr.ErrPaymentDeclined or apperr.ErrGatewayDown.
type PaymentGateway interface {
	// Authorize obtains a payment token for the payer.
	Authorize(ctx context.Context, payerID string) (string, error)

	// Capture charges the payment using the token from Authorize.
	Capture(ctx context.Context, token string, payment *models.PaymentRequest) error
}

// CoordinatorOption configures a PaymentCoordinator.
type CoordinatorOption func(*PaymentCoordinator)

// WithSettlementTimeout overrides DefaultSettlementTimeout.
func WithSettlementTimeout(d time.Duration) CoordinatorOption {
	return func(c *PaymentCoordinator) { c.timeout = d }
}

// WithCoordinatorMetrics records payment outcomes in m.
func WithCoordinatorMetrics(m *metrics.Metrics) CoordinatorOption {
	return func(c *PaymentCoordinator) { c.metrics = m }
}

// PaymentCoordinator settles individual payments against the order ledger.
type PaymentCoordinator struct {
	ledger  *OrderLedger
	gateway PaymentGateway
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewPaymentCoordinator creates a coordinator over ledger and gateway.
func NewPaymentCoordinator(ledger *OrderLedger, gateway PaymentGateway, opts ...CoordinatorOption) *PaymentCoordinator {
	c := &PaymentCoordinator{
		ledger:  ledger,
		gateway: gateway,
		timeout: DefaultSettlementTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessPayment charges the payer, records the payment and then blocks until
// every member of the order has paid or the settlement timeout elapses. The
// reward is computed from the members who had paid when the wait ended, so two
// payers on the same order may see different rewards.
//
// Failures are reported in the result, never as an error.
func (c *PaymentCoordinator) ProcessPayment(ctx context.Context, req *models.PaymentRequest) models.PaymentResult {
	ctx, span := tracer.Start(ctx, "PaymentCoordinator.ProcessPayment", trace.WithAttributes(
		attribute.String("order.id", req.OrderID),
		attribute.String("party.id", req.PartyID),
		attribute.Float64("payment.amount", req.PaymentAmount),
	))
	defer span.End()

	log := slog.With("order_id", req.OrderID, "email", req.UserEmail)

	if req.SimulateFailure {
		log.Info("Simulated payment failure")
		return c.fail(span, "declined", apperr.KindPaymentDeclined, apperr.ErrPaymentDeclined)
	}

	if _, err := c.ledger.Outstanding(req.OrderID); err != nil {
		log.Warn("Payment for unknown order")
		return c.fail(span, "not_found", apperr.KindNotFound, err)
	}

	log.Debug("Authorizing payment")
	token, err := c.gateway.Authorize(ctx, req.UserEmail)
	if err != nil {
		log.Warn("Payment authorization failed", "error", err)
		return c.fail(span, outcomeOf(err), apperr.KindPaymentDeclined, err)
	}

	log.Debug("Capturing payment")
	if err := c.gateway.Capture(ctx, token, req); err != nil {
		log.Warn("Payment capture failed", "error", err)
		return c.fail(span, outcomeOf(err), apperr.KindPaymentDeclined, err)
	}

	settlement, err := c.ledger.MarkPaid(req.OrderID, req.UserEmail)
	if err != nil {
		log.Warn("Order vanished after capture", "error", err)
		return c.fail(span, "not_found", apperr.KindNotFound, err)
	}
	defer settlement.Release()

	start := time.Now()
	c.await(settlement)
	paid, outstanding := settlement.State()

	mode := models.SettlementComplete
	if outstanding > 0 {
		mode = models.SettlementTimeout
	}
	waited := time.Since(start)
	c.metrics.ObserveBarrierWait(string(mode), waited)

	rewards := calculator.Rewards(paid, req.PaymentAmount)
	c.metrics.IncPayment("settled")
	c.metrics.AddRewards(rewards)

	span.SetAttributes(
		attribute.Int("settlement.group_size", paid),
		attribute.String("settlement.mode", string(mode)),
		attribute.Float64("settlement.rewards", rewards),
	)
	log.Info("Payment settled",
		"group_size", paid,
		"outstanding", outstanding,
		"mode", mode,
		"rewards", rewards,
		"waited_ms", waited.Milliseconds(),
	)

	return models.PaymentResult{
		Success:   true,
		Rewards:   rewards,
		GroupSize: paid,
		Mode:      mode,
	}
}

// await blocks until the barrier opens or the timeout elapses. Neither is an
// error: settlement proceeds with whoever has paid. The caller cannot cut the
// wait short; the ledger releases waiters on shutdown.
func (c *PaymentCoordinator) await(s *Settlement) {
	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-s.Done():
	case <-timer.C:
	}
}

// fail reports a failed payment. Gateway faults of any kind surface to the
// payer as a declined payment; the message keeps the diagnostic.
func (c *PaymentCoordinator) fail(span trace.Span, outcome string, kind apperr.Kind, err error) models.PaymentResult {
	c.metrics.IncPayment(outcome)
	span.SetStatus(codes.Error, err.Error())
	return models.PaymentResult{
		Success:   false,
		ErrorKind: string(kind),
		Message:   err.Error(),
	}
}

func outcomeOf(err error) string {
	if errors.Is(err, apperr.ErrGatewayDown) {
		return "transport"
	}
	return "declined"
}
