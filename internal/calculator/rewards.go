package calculator

const (
	// PointsPerMember is awarded for every party member who paid.
	PointsPerMember = 10
	// PointsPerMoney is awarded for every money unit the payer paid.
	PointsPerMoney = 5
)

// Rewards computes the loyalty points for a payment.
// Based on the formula: rewards = paid_members × 10 + payment_amount × 5
func Rewards(paidMembers int, paymentAmount float64) float64 {
	if paidMembers < 0 {
		paidMembers = 0
	}
	return float64(paidMembers*PointsPerMember) + paymentAmount*PointsPerMoney
}
