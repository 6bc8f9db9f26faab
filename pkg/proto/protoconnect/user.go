package protoconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	pb "github.com/mmynk/dinnerparty/pkg/proto"
)

// UserServiceName is the fully-qualified name of the UserService service.
const UserServiceName = "dinnerparty.v1.UserService"

const (
	UserServiceGetUserProcedure        = "/" + UserServiceName + "/GetUser"
	UserServiceAdjustCurrencyProcedure = "/" + UserServiceName + "/AdjustCurrency"
)

// UserServiceHandler is the server side of UserService.
type UserServiceHandler interface {
	GetUser(context.Context, *connect.Request[pb.GetUserRequest]) (*connect.Response[pb.GetUserResponse], error)
	AdjustCurrency(context.Context, *connect.Request[pb.AdjustCurrencyRequest]) (*connect.Response[pb.AdjustCurrencyResponse], error)
}

// NewUserServiceHandler builds an HTTP handler for the service. It returns the
// path to mount the handler on.
func NewUserServiceHandler(svc UserServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getUserHandler := connect.NewUnaryHandler(UserServiceGetUserProcedure, svc.GetUser, opts...)
	adjustCurrencyHandler := connect.NewUnaryHandler(UserServiceAdjustCurrencyProcedure, svc.AdjustCurrency, opts...)
	return "/" + UserServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case UserServiceGetUserProcedure:
			getUserHandler.ServeHTTP(w, r)
		case UserServiceAdjustCurrencyProcedure:
			adjustCurrencyHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedUserServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedUserServiceHandler struct{}

func (UnimplementedUserServiceHandler) GetUser(context.Context, *connect.Request[pb.GetUserRequest]) (*connect.Response[pb.GetUserResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(UserServiceGetUserProcedure))
}

func (UnimplementedUserServiceHandler) AdjustCurrency(context.Context, *connect.Request[pb.AdjustCurrencyRequest]) (*connect.Response[pb.AdjustCurrencyResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(UserServiceAdjustCurrencyProcedure))
}

// UserServiceClient is a client for the UserService service.
type UserServiceClient interface {
	GetUser(context.Context, *connect.Request[pb.GetUserRequest]) (*connect.Response[pb.GetUserResponse], error)
	AdjustCurrency(context.Context, *connect.Request[pb.AdjustCurrencyRequest]) (*connect.Response[pb.AdjustCurrencyResponse], error)
}

// NewUserServiceClient constructs a client for the service at baseURL.
func NewUserServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) UserServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts    = clientOptions(opts)
	return &userServiceClient{
		getUser:        connect.NewClient[pb.GetUserRequest, pb.GetUserResponse](httpClient, baseURL+UserServiceGetUserProcedure, opts...),
		adjustCurrency: connect.NewClient[pb.AdjustCurrencyRequest, pb.AdjustCurrencyResponse](httpClient, baseURL+UserServiceAdjustCurrencyProcedure, opts...),
	}
}

type userServiceClient struct {
	getUser        *connect.Client[pb.GetUserRequest, pb.GetUserResponse]
	adjustCurrency *connect.Client[pb.AdjustCurrencyRequest, pb.AdjustCurrencyResponse]
}

func (c *userServiceClient) GetUser(ctx context.Context, req *connect.Request[pb.GetUserRequest]) (*connect.Response[pb.GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *userServiceClient) AdjustCurrency(ctx context.Context, req *connect.Request[pb.AdjustCurrencyRequest]) (*connect.Response[pb.AdjustCurrencyResponse], error) {
	return c.adjustCurrency.CallUnary(ctx, req)
}
