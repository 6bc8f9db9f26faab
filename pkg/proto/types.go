package proto

// User is the public view of an account.
type User struct {
	Id        string  `json:"id"`
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Currency  float64 `json:"currency"`
	GroupId   string  `json:"groupId,omitempty"`
	CreatedAt int64   `json:"createdAt"`
}

// Group is a dining party.
type Group struct {
	Id        string   `json:"id"`
	Name      string   `json:"name,omitempty"`
	LeaderId  string   `json:"leaderId,omitempty"`
	Members   []string `json:"members"`
	Status    string   `json:"status"`
	CreatedAt int64    `json:"createdAt"`
}

// OrderItem is a menu item and quantity.
type OrderItem struct {
	MenuItemId string `json:"menuItemId"`
	Quantity   int32  `json:"quantity"`
}

// OrderMember is one member's part of an order.
type OrderMember struct {
	UserEmail string       `json:"userEmail"`
	Items     []*OrderItem `json:"items"`
}
