package calculator

import (
	"math"
	"testing"
)

func TestRewards(t *testing.T) {
	tests := []struct {
		name          string
		paidMembers   int
		paymentAmount float64
		want          float64
	}{
		{name: "whole party paid", paidMembers: 2, paymentAmount: 10, want: 70},
		{name: "only the payer paid", paidMembers: 1, paymentAmount: 10, want: 60},
		{name: "fractional amount", paidMembers: 3, paymentAmount: 12.5, want: 92.5},
		{name: "order vanished before settlement", paidMembers: 0, paymentAmount: 4, want: 20},
		{name: "negative count clamps to zero", paidMembers: -1, paymentAmount: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Rewards(tt.paidMembers, tt.paymentAmount)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Rewards(%d, %v) = %v, want %v", tt.paidMembers, tt.paymentAmount, got, tt.want)
			}
		})
	}
}
