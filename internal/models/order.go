package models

// Order is the shared order a party places at a restaurant.
// Orders are held in memory only and are lost on restart.
type Order struct {
	OrderID      string
	PartyID      string
	RestaurantID string
	Members      []OrderMember
	CreatedAt    int64
}

// OrderMember is one member's part of an order.
type OrderMember struct {
	UserEmail string
	Items     []OrderItem
}

// OrderItem is a menu item and the quantity ordered.
type OrderItem struct {
	MenuItemID string
	Quantity   int32
}

// MemberEmails returns the emails of the order's members in order.
func (o *Order) MemberEmails() []string {
	emails := make([]string, len(o.Members))
	for i, m := range o.Members {
		emails[i] = m.UserEmail
	}
	return emails
}
