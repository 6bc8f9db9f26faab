package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dinnerparty/internal/auth"
	"github.com/mmynk/dinnerparty/internal/middleware"
	"github.com/mmynk/dinnerparty/internal/models"
	"github.com/mmynk/dinnerparty/internal/party"
	"github.com/mmynk/dinnerparty/internal/storage"
	pb "github.com/mmynk/dinnerparty/pkg/proto"
	"github.com/mmynk/dinnerparty/pkg/proto/protoconnect"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	protoconnect.UnimplementedAuthServiceHandler
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	registry      *party.GroupRegistry
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. The registry is used
// to take a returning user out of the group they were left in.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, registry *party.GroupRegistry, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		registry:      registry,
		logger:        logger,
	}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[pb.RegisterRequest]) (*connect.Response[pb.RegisterResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email, "username", req.Msg.Username)

	if req.Msg.Email == "" || req.Msg.Username == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, req.Msg.Username, req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		switch {
		case errors.Is(err, auth.ErrAccountExists):
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		case errors.Is(err, auth.ErrWeakPassword):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		default:
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&pb.RegisterResponse{User: toProtoUser(user), Token: token}), nil
}

// Login authenticates a user by email or username and returns a JWT token.
// A user still holding a group is taken out of it first.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[pb.LoginRequest]) (*connect.Response[pb.LoginResponse], error) {
	s.logger.Info("Login request", "identifier", req.Msg.Identifier)

	if req.Msg.Identifier == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Identifier, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "identifier", req.Msg.Identifier, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	if user.InGroup() {
		user = s.autoLeave(ctx, user)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return connect.NewResponse(&pb.LoginResponse{User: toProtoUser(user), Token: token}), nil
}

// autoLeave removes the user from their stale group. Failures never block
// the login; the user is returned as last read.
func (s *AuthService) autoLeave(ctx context.Context, user *models.User) *models.User {
	groupID := user.GroupID
	if err := s.registry.Leave(ctx, groupID, user.ID); err != nil {
		s.logger.Warn("Auto-leave on login failed", "user_id", user.ID, "group_id", groupID, "error", err)
		return user
	}
	s.logger.Info("User left stale group on login", "user_id", user.ID, "group_id", groupID)

	fresh, err := s.users.GetUserByID(ctx, user.ID)
	if err != nil {
		s.logger.Warn("Failed to reload user after auto-leave", "user_id", user.ID, "error", err)
		return user
	}
	return fresh
}

// Logout invalidates the user's session (currently a no-op since JWTs are stateless).
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[pb.LogoutRequest]) (*connect.Response[pb.LogoutResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Logout request", "user_id", userID)
	return connect.NewResponse(&pb.LogoutResponse{}), nil
}

// GetCurrentUser returns the currently authenticated user's information.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[pb.GetCurrentUserRequest]) (*connect.Response[pb.GetCurrentUserResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	s.logger.Info("GetCurrentUser request", "user_id", userID)

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, userError(err)
	}

	return connect.NewResponse(&pb.GetCurrentUserResponse{User: toProtoUser(user)}), nil
}
