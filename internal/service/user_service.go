package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dinnerparty/internal/apperr"
	"github.com/mmynk/dinnerparty/internal/storage"
	pb "github.com/mmynk/dinnerparty/pkg/proto"
	"github.com/mmynk/dinnerparty/pkg/proto/protoconnect"
)

// UserService implements the Connect UserService.
type UserService struct {
	protoconnect.UnimplementedUserServiceHandler
	users storage.UserStore
}

// NewUserService creates a UserService backed by the user directory.
func NewUserService(users storage.UserStore) *UserService {
	return &UserService{users: users}
}

// GetUser returns a user's public profile.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[pb.GetUserRequest]) (*connect.Response[pb.GetUserResponse], error) {
	if req.Msg.UserId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("user_id required"))
	}

	user, err := s.users.GetUserByID(ctx, req.Msg.UserId)
	if err != nil {
		return nil, userError(err)
	}
	return connect.NewResponse(&pb.GetUserResponse{User: toProtoUser(user)}), nil
}

// AdjustCurrency adds Delta to the caller's balance.
func (s *UserService) AdjustCurrency(ctx context.Context, req *connect.Request[pb.AdjustCurrencyRequest]) (*connect.Response[pb.AdjustCurrencyResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.AdjustCurrency(ctx, userID, req.Msg.Delta)
	if err != nil {
		slog.Error("AdjustCurrency failed", "user_id", userID, "error", err)
		return nil, userError(err)
	}

	slog.Info("Currency adjusted", "user_id", userID, "delta", req.Msg.Delta, "balance", user.Currency)
	return connect.NewResponse(&pb.AdjustCurrencyResponse{User: toProtoUser(user)}), nil
}

func userError(err error) *connect.Error {
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.ToConnect(apperr.ErrUserNotFound)
	}
	return connect.NewError(connect.CodeInternal, err)
}
