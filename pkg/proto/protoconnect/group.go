package protoconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	pb "github.com/mmynk/dinnerparty/pkg/proto"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "dinnerparty.v1.GroupService"

const (
	GroupServiceCreateGroupProcedure = "/" + GroupServiceName + "/CreateGroup"
	GroupServiceGetGroupProcedure    = "/" + GroupServiceName + "/GetGroup"
	GroupServiceJoinGroupProcedure   = "/" + GroupServiceName + "/JoinGroup"
	GroupServiceLeaveGroupProcedure  = "/" + GroupServiceName + "/LeaveGroup"
)

// GroupServiceHandler is the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[pb.CreateGroupRequest]) (*connect.Response[pb.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[pb.GetGroupRequest]) (*connect.Response[pb.GetGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[pb.JoinGroupRequest]) (*connect.Response[pb.JoinGroupResponse], error)
	LeaveGroup(context.Context, *connect.Request[pb.LeaveGroupRequest]) (*connect.Response[pb.LeaveGroupResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler for the service. It returns the
// path to mount the handler on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createGroupHandler := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroupHandler := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	joinGroupHandler := connect.NewUnaryHandler(GroupServiceJoinGroupProcedure, svc.JoinGroup, opts...)
	leaveGroupHandler := connect.NewUnaryHandler(GroupServiceLeaveGroupProcedure, svc.LeaveGroup, opts...)
	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroupHandler.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroupHandler.ServeHTTP(w, r)
		case GroupServiceJoinGroupProcedure:
			joinGroupHandler.ServeHTTP(w, r)
		case GroupServiceLeaveGroupProcedure:
			leaveGroupHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[pb.CreateGroupRequest]) (*connect.Response[pb.CreateGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GroupServiceCreateGroupProcedure))
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[pb.GetGroupRequest]) (*connect.Response[pb.GetGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GroupServiceGetGroupProcedure))
}

func (UnimplementedGroupServiceHandler) JoinGroup(context.Context, *connect.Request[pb.JoinGroupRequest]) (*connect.Response[pb.JoinGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GroupServiceJoinGroupProcedure))
}

func (UnimplementedGroupServiceHandler) LeaveGroup(context.Context, *connect.Request[pb.LeaveGroupRequest]) (*connect.Response[pb.LeaveGroupResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(GroupServiceLeaveGroupProcedure))
}

// GroupServiceClient is a client for the GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[pb.CreateGroupRequest]) (*connect.Response[pb.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[pb.GetGroupRequest]) (*connect.Response[pb.GetGroupResponse], error)
	JoinGroup(context.Context, *connect.Request[pb.JoinGroupRequest]) (*connect.Response[pb.JoinGroupResponse], error)
	LeaveGroup(context.Context, *connect.Request[pb.LeaveGroupRequest]) (*connect.Response[pb.LeaveGroupResponse], error)
}

// NewGroupServiceClient constructs a client for the service at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts    = clientOptions(opts)
	return &groupServiceClient{
		createGroup: connect.NewClient[pb.CreateGroupRequest, pb.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:    connect.NewClient[pb.GetGroupRequest, pb.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		joinGroup:   connect.NewClient[pb.JoinGroupRequest, pb.JoinGroupResponse](httpClient, baseURL+GroupServiceJoinGroupProcedure, opts...),
		leaveGroup:  connect.NewClient[pb.LeaveGroupRequest, pb.LeaveGroupResponse](httpClient, baseURL+GroupServiceLeaveGroupProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup *connect.Client[pb.CreateGroupRequest, pb.CreateGroupResponse]
	getGroup    *connect.Client[pb.GetGroupRequest, pb.GetGroupResponse]
	joinGroup   *connect.Client[pb.JoinGroupRequest, pb.JoinGroupResponse]
	leaveGroup  *connect.Client[pb.LeaveGroupRequest, pb.LeaveGroupResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[pb.CreateGroupRequest]) (*connect.Response[pb.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[pb.GetGroupRequest]) (*connect.Response[pb.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) JoinGroup(ctx context.Context, req *connect.Request[pb.JoinGroupRequest]) (*connect.Response[pb.JoinGroupResponse], error) {
	return c.joinGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) LeaveGroup(ctx context.Context, req *connect.Request[pb.LeaveGroupRequest]) (*connect.Response[pb.LeaveGroupResponse], error) {
	return c.leaveGroup.CallUnary(ctx, req)
}
