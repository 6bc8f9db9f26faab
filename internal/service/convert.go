package service

import (
	"github.com/mmynk/dinnerparty/internal/models"
	pb "github.com/mmynk/dinnerparty/pkg/proto"
)

func toProtoUser(u *models.User) *pb.User {
	return &pb.User{
		Id:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Currency:  u.Currency,
		GroupId:   u.GroupID,
		CreatedAt: u.CreatedAt,
	}
}

func toProtoGroup(g *models.Group) *pb.Group {
	return &pb.Group{
		Id:        g.ID,
		Name:      g.Name,
		LeaderId:  g.LeaderID,
		Members:   g.Members,
		Status:    string(g.Status),
		CreatedAt: g.CreatedAt,
	}
}

func fromProtoOrder(req *pb.PlaceOrderRequest) *models.Order {
	order := &models.Order{
		OrderID:      req.OrderId,
		PartyID:      req.PartyId,
		RestaurantID: req.RestaurantId,
		Members:      make([]models.OrderMember, 0, len(req.Members)),
	}
	for _, m := range req.Members {
		member := models.OrderMember{UserEmail: m.UserEmail}
		for _, item := range m.Items {
			member.Items = append(member.Items, models.OrderItem{
				MenuItemID: item.MenuItemId,
				Quantity:   item.Quantity,
			})
		}
		order.Members = append(order.Members, member)
	}
	return order
}

func fromProtoPayment(req *pb.PayRequest) *models.PaymentRequest {
	return &models.PaymentRequest{
		UserEmail:             req.UserEmail,
		PartyID:               req.PartyId,
		OrderID:               req.OrderId,
		PaymentAmount:         req.PaymentAmount,
		PaymentMethod:         req.PaymentMethod,
		CardToken:             req.CardToken,
		CardExpiry:            req.CardExpiry,
		CardVerificationToken: req.CardVerificationToken,
		CardName:              req.CardName,
		SimulateFailure:       req.SimulateFailure,
	}
}
