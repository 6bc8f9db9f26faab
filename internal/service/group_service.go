package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/dinnerparty/internal/apperr"
	"github.com/mmynk/dinnerparty/internal/auth"
	"github.com/mmynk/dinnerparty/internal/middleware"
	"github.com/mmynk/dinnerparty/internal/party"
	pb "github.com/mmynk/dinnerparty/pkg/proto"
	"github.com/mmynk/dinnerparty/pkg/proto/protoconnect"
)

var errGroupIDRequired = errors.New("group_id required")

// GroupService implements the Connect GroupService. The caller is always the
// authenticated user.
type GroupService struct {
	protoconnect.UnimplementedGroupServiceHandler
	registry *party.GroupRegistry
}

// NewGroupService creates a new GroupService on top of the registry.
func NewGroupService(registry *party.GroupRegistry) *GroupService {
	return &GroupService{registry: registry}
}

// CreateGroup starts a group led by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[pb.CreateGroupRequest]) (*connect.Response[pb.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "user_id", userID, "name", req.Msg.Name)

	group, err := s.registry.Create(ctx, userID, req.Msg.Name)
	if err != nil {
		slog.Warn("CreateGroup failed", "user_id", userID, "error", err)
		return nil, apperr.ToConnect(err)
	}

	return connect.NewResponse(&pb.CreateGroupResponse{Group: toProtoGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[pb.GetGroupRequest]) (*connect.Response[pb.GetGroupResponse], error) {
	if req.Msg.GroupId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupId)

	group, err := s.registry.FindOne(ctx, req.Msg.GroupId)
	if err != nil {
		return nil, apperr.ToConnect(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "status", group.Status, "members_count", len(group.Members))
	return connect.NewResponse(&pb.GetGroupResponse{Group: toProtoGroup(group)}), nil
}

// JoinGroup adds the caller to an active group.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[pb.JoinGroupRequest]) (*connect.Response[pb.JoinGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	group, err := s.registry.Join(ctx, req.Msg.GroupId, userID)
	if err != nil {
		slog.Warn("JoinGroup failed", "user_id", userID, "group_id", req.Msg.GroupId, "error", err)
		return nil, apperr.ToConnect(err)
	}

	return connect.NewResponse(&pb.JoinGroupResponse{Group: toProtoGroup(group)}), nil
}

// LeaveGroup removes the caller from a group.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[pb.LeaveGroupRequest]) (*connect.Response[pb.LeaveGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.GroupId == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errGroupIDRequired)
	}

	if err := s.registry.Leave(ctx, req.Msg.GroupId, userID); err != nil {
		slog.Warn("LeaveGroup failed", "user_id", userID, "group_id", req.Msg.GroupId, "error", err)
		return nil, apperr.ToConnect(err)
	}

	return connect.NewResponse(&pb.LeaveGroupResponse{}), nil
}

// callerID returns the authenticated user set by the auth middleware.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
