package protoconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	pb "github.com/mmynk/dinnerparty/pkg/proto"
)

// PaymentServiceName is the fully-qualified name of the PaymentService service.
const PaymentServiceName = "dinnerparty.v1.PaymentService"

const (
	PaymentServicePlaceOrderProcedure      = "/" + PaymentServiceName + "/PlaceOrder"
	PaymentServicePayProcedure             = "/" + PaymentServiceName + "/Pay"
	PaymentServiceMemberLeftPartyProcedure = "/" + PaymentServiceName + "/MemberLeftParty"
)

// PaymentServiceHandler is the server side of PaymentService.
type PaymentServiceHandler interface {
	PlaceOrder(context.Context, *connect.Request[pb.PlaceOrderRequest]) (*connect.Response[pb.PlaceOrderResponse], error)
	Pay(context.Context, *connect.Request[pb.PayRequest]) (*connect.Response[pb.PayResponse], error)
	MemberLeftParty(context.Context, *connect.Request[pb.MemberLeftPartyRequest]) (*connect.Response[pb.MemberLeftPartyResponse], error)
}

// NewPaymentServiceHandler builds an HTTP handler for the service. It returns the
// path to mount the handler on.
func NewPaymentServiceHandler(svc PaymentServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	placeOrderHandler := connect.NewUnaryHandler(PaymentServicePlaceOrderProcedure, svc.PlaceOrder, opts...)
	payHandler := connect.NewUnaryHandler(PaymentServicePayProcedure, svc.Pay, opts...)
	memberLeftPartyHandler := connect.NewUnaryHandler(PaymentServiceMemberLeftPartyProcedure, svc.MemberLeftParty, opts...)
	return "/" + PaymentServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PaymentServicePlaceOrderProcedure:
			placeOrderHandler.ServeHTTP(w, r)
		case PaymentServicePayProcedure:
			payHandler.ServeHTTP(w, r)
		case PaymentServiceMemberLeftPartyProcedure:
			memberLeftPartyHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedPaymentServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedPaymentServiceHandler struct{}

func (UnimplementedPaymentServiceHandler) PlaceOrder(context.Context, *connect.Request[pb.PlaceOrderRequest]) (*connect.Response[pb.PlaceOrderResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(PaymentServicePlaceOrderProcedure))
}

func (UnimplementedPaymentServiceHandler) Pay(context.Context, *connect.Request[pb.PayRequest]) (*connect.Response[pb.PayResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(PaymentServicePayProcedure))
}

func (UnimplementedPaymentServiceHandler) MemberLeftParty(context.Context, *connect.Request[pb.MemberLeftPartyRequest]) (*connect.Response[pb.MemberLeftPartyResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errUnimplemented(PaymentServiceMemberLeftPartyProcedure))
}

// PaymentServiceClient is a client for the PaymentService service.
type PaymentServiceClient interface {
	PlaceOrder(context.Context, *connect.Request[pb.PlaceOrderRequest]) (*connect.Response[pb.PlaceOrderResponse], error)
	Pay(context.Context, *connect.Request[pb.PayRequest]) (*connect.Response[pb.PayResponse], error)
	MemberLeftParty(context.Context, *connect.Request[pb.MemberLeftPartyRequest]) (*connect.Response[pb.MemberLeftPartyResponse], error)
}

// NewPaymentServiceClient constructs a client for the service at baseURL.
func NewPaymentServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PaymentServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts    = clientOptions(opts)
	return &paymentServiceClient{
		placeOrder:      connect.NewClient[pb.PlaceOrderRequest, pb.PlaceOrderResponse](httpClient, baseURL+PaymentServicePlaceOrderProcedure, opts...),
		pay:             connect.NewClient[pb.PayRequest, pb.PayResponse](httpClient, baseURL+PaymentServicePayProcedure, opts...),
		memberLeftParty: connect.NewClient[pb.MemberLeftPartyRequest, pb.MemberLeftPartyResponse](httpClient, baseURL+PaymentServiceMemberLeftPartyProcedure, opts...),
	}
}

type paymentServiceClient struct {
	placeOrder      *connect.Client[pb.PlaceOrderRequest, pb.PlaceOrderResponse]
	pay             *connect.Client[pb.PayRequest, pb.PayResponse]
	memberLeftParty *connect.Client[pb.MemberLeftPartyRequest, pb.MemberLeftPartyResponse]
}

func (c *paymentServiceClient) PlaceOrder(ctx context.Context, req *connect.Request[pb.PlaceOrderRequest]) (*connect.Response[pb.PlaceOrderResponse], error) {
	return c.placeOrder.CallUnary(ctx, req)
}

func (c *paymentServiceClient) Pay(ctx context.Context, req *connect.Request[pb.PayRequest]) (*connect.Response[pb.PayResponse], error) {
	return c.pay.CallUnary(ctx, req)
}

func (c *paymentServiceClient) MemberLeftParty(ctx context.Context, req *connect.Request[pb.MemberLeftPartyRequest]) (*connect.Response[pb.MemberLeftPartyResponse], error) {
	return c.memberLeftParty.CallUnary(ctx, req)
}
