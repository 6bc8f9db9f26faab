package protoconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	pb "github.com/mmynk/dinnerparty/pkg/proto"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "dinnerparty.v1.AuthService"

const (
	AuthServiceRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthServiceLogoutProcedure         = "/" + AuthServiceName + "/Logout"
	AuthServiceGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// AuthServiceHandler is the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[pb.RegisterRequest]) (*connect.Response[pb.RegisterResponse], error)
	Login(context.Context, *connect.Request[pb.LoginRequest]) (*connect.Response[pb.LoginResponse], error)
	Logout(context.Context, *connect.Request[pb.LogoutRequest]) (*connect.Response[pb.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[pb.GetCurrentUserRequest]) (*connect.Response[pb.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for the service. It returns the
// path to mount the handler on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	registerHandler := connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...)
	loginHandler := connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...)
	logoutHandler := connect.NewUnaryHandler(AuthServiceLogoutProcedure, svc.Logout, opts...)
	getCurrentUserHandler := connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...)
	return "/" + AuthServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case AuthServiceRegisterProcedure:
			registerHandler.ServeHTTP(w, r)
		case AuthServiceLoginProcedure:
			loginHandler.ServeHTTP(w, r)
		case AuthServiceLogoutProcedure:
			logoutHandler.ServeHTTP(w, r)
		case AuthServiceGetCurrentUserProcedure:
			getCurrentUserHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[pb.RegisterRequest]) (*connect.Response[pb.RegisterResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(AuthServiceRegisterProcedure))
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[pb.LoginRequest]) (*connect.Response[pb.LoginResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(AuthServiceLoginProcedure))
}

func (UnimplementedAuthServiceHandler) Logout(context.Context, *connect.Request[pb.LogoutRequest]) (*connect.Response[pb.LogoutResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(AuthServiceLogoutProcedure))
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[pb.GetCurrentUserRequest]) (*connect.Response[pb.GetCurrentUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(AuthServiceGetCurrentUserProcedure))
}

// AuthServiceClient is a client for the AuthService service.
type AuthServiceClient interface {
	Register(context.Context, *connect.Request[pb.RegisterRequest]) (*connect.Response[pb.RegisterResponse], error)
	Login(context.Context, *connect.Request[pb.LoginRequest]) (*connect.Response[pb.LoginResponse], error)
	Logout(context.Context, *connect.Request[pb.LogoutRequest]) (*connect.Response[pb.LogoutResponse], error)
	GetCurrentUser(context.Context, *connect.Request[pb.GetCurrentUserRequest]) (*connect.Response[pb.GetCurrentUserResponse], error)
}

// NewAuthServiceClient constructs a client for the service at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts    = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[pb.RegisterRequest, pb.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[pb.LoginRequest, pb.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		logout:         connect.NewClient[pb.LogoutRequest, pb.LogoutResponse](httpClient, baseURL+AuthServiceLogoutProcedure, opts...),
		getCurrentUser: connect.NewClient[pb.GetCurrentUserRequest, pb.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	register       *connect.Client[pb.RegisterRequest, pb.RegisterResponse]
	login          *connect.Client[pb.LoginRequest, pb.LoginResponse]
	logout         *connect.Client[pb.LogoutRequest, pb.LogoutResponse]
	getCurrentUser *connect.Client[pb.GetCurrentUserRequest, pb.GetCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[pb.RegisterRequest]) (*connect.Response[pb.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[pb.LoginRequest]) (*connect.Response[pb.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) Logout(ctx context.Context, req *connect.Request[pb.LogoutRequest]) (*connect.Response[pb.LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[pb.GetCurrentUserRequest]) (*connect.Response[pb.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
