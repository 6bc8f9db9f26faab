package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dinnerparty/internal/apperr"
	"github.com/mmynk/dinnerparty/internal/middleware"
	"github.com/mmynk/dinnerparty/internal/party"
	pb "github.com/mmynk/dinnerparty/pkg/proto"
	"github.com/mmynk/dinnerparty/pkg/proto/protoconnect"
)

// PaymentService implements the Connect PaymentService.
type PaymentService struct {
	protoconnect.UnimplementedPaymentServiceHandler
	ledger      *party.OrderLedger
	coordinator *party.PaymentCoordinator
}

// NewPaymentService creates a PaymentService over the ledger and coordinator.
func NewPaymentService(ledger *party.OrderLedger, coordinator *party.PaymentCoordinator) *PaymentService {
	return &PaymentService{
		ledger:      ledger,
		coordinator: coordinator,
	}
}

// PlaceOrder records a party order and starts waiting for every member's payment.
func (s *PaymentService) PlaceOrder(ctx context.Context, req *connect.Request[pb.PlaceOrderRequest]) (*connect.Response[pb.PlaceOrderResponse], error) {
	slog.Info("PlaceOrder request received",
		"order_id", req.Msg.OrderId,
		"party_id", req.Msg.PartyId,
		"restaurant_id", req.Msg.RestaurantId,
		"members_count", len(req.Msg.Members),
	)

	if err := validateOrder(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.ledger.ProcessOrder(fromProtoOrder(req.Msg)); err != nil {
		return nil, apperr.ToConnect(err)
	}

	return connect.NewResponse(&pb.PlaceOrderResponse{Success: true}), nil
}

// Pay charges one member and blocks until the party settles. Payment
// failures are reported in the response body, not as RPC errors.
func (s *PaymentService) Pay(ctx context.Context, req *connect.Request[pb.PayRequest]) (*connect.Response[pb.PayResponse], error) {
	msg := req.Msg
	if msg.UserEmail == "" {
		msg.UserEmail = middleware.GetEmail(ctx)
	}
	slog.Info("Pay request received", "order_id", msg.OrderId, "party_id", msg.PartyId, "email", msg.UserEmail)

	switch {
	case msg.OrderId == "":
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("order_id required"))
	case msg.UserEmail == "":
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("user_email required"))
	case msg.PaymentAmount < 0:
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("payment_amount must not be negative"))
	}

	result := s.coordinator.ProcessPayment(ctx, fromProtoPayment(msg))

	return connect.NewResponse(&pb.PayResponse{
		Success:   result.Success,
		Rewards:   result.Rewards,
		GroupSize: int32(result.GroupSize),
		Mode:      string(result.Mode),
		ErrorKind: result.ErrorKind,
		Message:   result.Message,
	}), nil
}

// MemberLeftParty drops a member from the party's open order.
func (s *PaymentService) MemberLeftParty(ctx context.Context, req *connect.Request[pb.MemberLeftPartyRequest]) (*connect.Response[pb.MemberLeftPartyResponse], error) {
	slog.Info("MemberLeftParty request received", "party_id", req.Msg.PartyId, "email", req.Msg.UserEmail)

	if err := s.ledger.HandleMemberLeft(req.Msg.PartyId, req.Msg.UserEmail); err != nil {
		slog.Warn("MemberLeftParty failed", "party_id", req.Msg.PartyId, "error", err)
		return connect.NewResponse(&pb.MemberLeftPartyResponse{
			Success:   false,
			ErrorKind: string(apperr.KindOf(err)),
			Message:   err.Error(),
		}), nil
	}

	return connect.NewResponse(&pb.MemberLeftPartyResponse{
		Success: true,
		Message: fmt.Sprintf("%s removed from party order", req.Msg.UserEmail),
	}), nil
}

func validateOrder(req *pb.PlaceOrderRequest) error {
	if req.OrderId == "" {
		return errors.New("order_id required")
	}
	if req.PartyId == "" {
		return errors.New("party_id required")
	}
	if len(req.Members) == 0 {
		return errors.New("at least one member required")
	}

	seen := make(map[string]bool, len(req.Members))
	for i, m := range req.Members {
		if m == nil || m.UserEmail == "" {
			return fmt.Errorf("member %d: user_email required", i)
		}
		if seen[m.UserEmail] {
			return fmt.Errorf("member %s listed twice", m.UserEmail)
		}
		seen[m.UserEmail] = true
		for _, item := range m.Items {
			if item == nil || item.Quantity <= 0 {
				return fmt.Errorf("member %s: item quantity must be positive", m.UserEmail)
			}
		}
	}
	return nil
}
