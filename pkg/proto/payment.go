package proto

type PlaceOrderRequest struct {
	PartyId      string         `json:"partyId"`
	OrderId      string         `json:"orderId"`
	RestaurantId string         `json:"restaurantId"`
	Members      []*OrderMember `json:"members"`
}

type PlaceOrderResponse struct {
	Success bool `json:"success"`
}

type PayRequest struct {
	UserEmail             string  `json:"userEmail"`
	PartyId               string  `json:"partyId"`
	OrderId               string  `json:"orderId"`
	PaymentAmount         float64 `json:"paymentAmount"`
	PaymentMethod         string  `json:"paymentMethod"`
	CardToken             string  `json:"cardToken"`
	CardExpiry            string  `json:"cardExpiry"`
	CardVerificationToken string  `json:"cardVerificationToken"`
	CardName              string  `json:"cardName"`
	// SimulateFailure declines the payment without contacting the payment service.
	SimulateFailure bool `json:"simulateFailure,omitempty"`
}

// PayResponse reports the payment outcome. Declines are not RPC errors.
type PayResponse struct {
	Success   bool    `json:"success"`
	Rewards   float64 `json:"rewards,omitempty"`
	GroupSize int32   `json:"groupSize,omitempty"`
	Mode      string  `json:"mode,omitempty"`
	ErrorKind string  `json:"errorKind,omitempty"`
	Message   string  `json:"message,omitempty"`
}

type MemberLeftPartyRequest struct {
	PartyId   string `json:"partyId"`
	UserEmail string `json:"userEmail"`
}

// MemberLeftPartyResponse reports the outcome the same way PayResponse does.
type MemberLeftPartyResponse struct {
	Success   bool   `json:"success"`
	ErrorKind string `json:"errorKind,omitempty"`
	Message   string `json:"message"`
}
