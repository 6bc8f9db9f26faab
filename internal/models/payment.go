package models

// PaymentRequest is one member's payment towards a party order.
type PaymentRequest struct {
	UserEmail     string
	PartyID       string
	OrderID       string
	PaymentAmount float64

	// Card fields are forwarded to the payment gateway untouched.
	PaymentMethod         string
	CardToken             string
	CardExpiry            string
	CardVerificationToken string
	CardName              string

	// SimulateFailure makes the payment fail before the gateway is contacted.
	SimulateFailure bool
}

// SettlementMode describes how the payment barrier was left.
type SettlementMode string

const (
	// SettlementComplete means every expected payer had paid.
	SettlementComplete SettlementMode = "complete"
	// SettlementTimeout means the wait ceiling elapsed with payers outstanding.
	SettlementTimeout SettlementMode = "timeout"
)

// PaymentResult is the outcome of a payment.
// A declined payment is reported here rather than as an error.
type PaymentResult struct {
	Success bool

	// Rewards and GroupSize are set when Success is true.
	Rewards   float64
	GroupSize int
	Mode      SettlementMode

	// ErrorKind and Message are set when Success is false.
	ErrorKind string
	Message   string
}
