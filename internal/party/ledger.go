package party

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/dinnerparty/internal/apperr"
	"github.com/mmynk/dinnerparty/internal/metrics"
	"github.com/mmynk/dinnerparty/internal/models"
)

var (
	errEmptyOrder      = apperr.New(apperr.KindValidation, "order must have at least one member")
	errDuplicateMember = apperr.New(apperr.KindValidation, "order lists a member twice")
)

// orderEntry is one order and the emails still expected to pay it.
// Lock order: OrderLedger.mu before orderEntry.mu.
type orderEntry struct {
	mu         sync.Mutex
	order      *models.Order
	pending    map[string]struct{}
	settled    chan struct{} // closed once pending is empty or the order is dropped
	closed     bool
	waiters    int       // payers between MarkPaid and Settlement.Release
	lastActive time.Time // last order, payment, departure or barrier exit
}

func newOrderEntry(order *models.Order) (*orderEntry, error) {
	e := &orderEntry{
		order:      order,
		pending:    make(map[string]struct{}, len(order.Members)),
		settled:    make(chan struct{}),
		lastActive: time.Unix(order.CreatedAt, 0),
	}
	for _, m := range order.Members {
		if _, dup := e.pending[m.UserEmail]; dup {
			return nil, fmt.Errorf("%s: %w", m.UserEmail, errDuplicateMember)
		}
		e.pending[m.UserEmail] = struct{}{}
	}
	return e, nil
}

// idleSince reports whether nobody is waiting on the order and nothing has
// happened to it since cutoff. Callers hold e.mu.
func (e *orderEntry) idleSince(cutoff time.Time) bool {
	return e.waiters == 0 && e.lastActive.Before(cutoff)
}

// release wakes every waiter. Callers hold e.mu.
func (e *orderEntry) release() {
	if !e.closed {
		e.closed = true
		close(e.settled)
	}
}

// Settlement is a payer's handle on an order's payment barrier. The order
// is not evicted while a Settlement is unreleased.
type Settlement struct {
	entry    *orderEntry
	ledger   *OrderLedger
	released sync.Once
}

// Done is closed when nobody is left to pay or the order is dropped.
func (s *Settlement) Done() <-chan struct{} {
	return s.entry.settled
}

// State returns the number of members who have paid and the number still
// outstanding, read atomically.
func (s *Settlement) State() (paid, outstanding int) {
	s.entry.mu.Lock()
	defer s.entry.mu.Unlock()
	outstanding = len(s.entry.pending)
	return len(s.entry.order.Members) - outstanding, outstanding
}

// Release ends the payer's wait. Calling it more than once is a no-op.
func (s *Settlement) Release() {
	s.released.Do(func() {
		s.entry.mu.Lock()
		defer s.entry.mu.Unlock()
		s.entry.waiters--
		s.entry.lastActive = s.ledger.now()
	})
}

// OrderLedger tracks in-flight orders and their pending payers.
// State is process-local and lost on restart.
type OrderLedger struct {
	mu      sync.Mutex
	orders  map[string]*orderEntry
	parties map[string]string // party ID -> latest order ID
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewOrderLedger creates an empty ledger. m may be nil.
func NewOrderLedger(m *metrics.Metrics) *OrderLedger {
	return &OrderLedger{
		orders:  make(map[string]*orderEntry),
		parties: make(map[string]string),
		metrics: m,
		now:     time.Now,
	}
}

// ProcessOrder records the order and expects a payment from every member.
// A party may have only one unsettled order at a time.
func (l *OrderLedger) ProcessOrder(order *models.Order) error {
	if len(order.Members) == 0 {
		return errEmptyOrder
	}
	o := *order
	o.Members = append([]models.OrderMember(nil), order.Members...)
	if o.CreatedAt == 0 {
		o.CreatedAt = l.now().Unix()
	}
	entry, err := newOrderEntry(&o)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.orders[order.OrderID]; ok {
		slog.Warn("Duplicate order rejected", "order_id", order.OrderID, "party_id", order.PartyID)
		return fmt.Errorf("order %s already exists: %w", order.OrderID, apperr.ErrOrderConflict)
	}
	if openID, ok := l.parties[order.PartyID]; ok && l.isOpen(openID) {
		slog.Warn("Party already has an open order", "party_id", order.PartyID, "open_order_id", openID)
		return fmt.Errorf("order %s is still open: %w", openID, apperr.ErrOrderConflict)
	}

	l.orders[order.OrderID] = entry
	l.parties[order.PartyID] = order.OrderID
	l.metrics.IncOrdersPlaced()

	slog.Info("Order recorded", "order_id", order.OrderID, "party_id", order.PartyID, "members", len(order.Members))
	return nil
}

// isOpen reports whether the order still waits for payments. Callers hold l.mu.
func (l *OrderLedger) isOpen(orderID string) bool {
	e, ok := l.orders[orderID]
	if !ok {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.closed
}

// Outstanding returns how many members of the order have not paid yet.
func (l *OrderLedger) Outstanding(orderID string) (int, error) {
	e, err := l.entry(orderID)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending), nil
}

// Order returns a copy of the order as currently recorded.
func (l *OrderLedger) Order(orderID string) (*models.Order, error) {
	e, err := l.entry(orderID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	o := *e.order
	o.Members = append([]models.OrderMember(nil), e.order.Members...)
	return &o, nil
}

// MarkPaid removes email from the order's pending set. Removing an email that
// already paid is a no-op. The returned Settlement lets the payer wait and
// must be released once the wait is over.
func (l *OrderLedger) MarkPaid(orderID, email string) (*Settlement, error) {
	// l.mu is held throughout so a sweep cannot drop the order between the
	// lookup and the waiter registration.
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrOrderNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.pending, email)
	e.waiters++
	e.lastActive = l.now()
	if len(e.pending) == 0 {
		e.release()
	}
	return &Settlement{entry: e, ledger: l}, nil
}

// HandleMemberLeft drops a departed member from the party's order. The order
// is deleted once it has no members left.
func (l *OrderLedger) HandleMemberLeft(partyID, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	orderID, ok := l.parties[partyID]
	if !ok {
		return fmt.Errorf("party %s: %w", partyID, apperr.ErrOrderNotFound)
	}
	e := l.orders[orderID]

	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.order.Members[:0]
	for _, m := range e.order.Members {
		if m.UserEmail != email {
			kept = append(kept, m)
		}
	}
	e.order.Members = kept
	delete(e.pending, email)
	e.lastActive = l.now()

	if len(e.order.Members) == 0 {
		e.release()
		delete(l.orders, orderID)
		delete(l.parties, partyID)
		slog.Info("Last member left, order removed", "order_id", orderID, "party_id", partyID)
		return nil
	}
	if len(e.pending) == 0 {
		e.release()
	}

	slog.Info("Member removed from order", "order_id", orderID, "party_id", partyID, "email", email)
	return nil
}

// EvictBefore drops orders that have seen no activity since cutoff and have
// no payer waiting on them. It returns the number of orders dropped.
func (l *OrderLedger) EvictBefore(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for id, e := range l.orders {
		e.mu.Lock()
		idle := e.idleSince(cutoff)
		e.mu.Unlock()
		if !idle {
			continue
		}
		l.drop(id, e)
		n++
	}
	l.metrics.AddOrdersEvicted(n)
	return n
}

// Close drops every order so blocked payers return immediately.
func (l *OrderLedger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for id, e := range l.orders {
		l.drop(id, e)
	}
}

// drop removes an order and wakes its waiters. Callers hold l.mu.
func (l *OrderLedger) drop(orderID string, e *orderEntry) {
	e.mu.Lock()
	e.release()
	partyID := e.order.PartyID
	e.mu.Unlock()

	delete(l.orders, orderID)
	if l.parties[partyID] == orderID {
		delete(l.parties, partyID)
	}
}

func (l *OrderLedger) entry(orderID string) (*orderEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrOrderNotFound)
	}
	return e, nil
}
