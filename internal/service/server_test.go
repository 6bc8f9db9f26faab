package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/dinnerparty/internal/auth"
	"github.com/mmynk/dinnerparty/internal/middleware"
	"github.com/mmynk/dinnerparty/internal/models"
	"github.com/mmynk/dinnerparty/internal/party"
	"github.com/mmynk/dinnerparty/internal/storage/sqlite"
	"github.com/mmynk/dinnerparty/pkg/logging"
	pb "github.com/mmynk/dinnerparty/pkg/proto"
	"github.com/mmynk/dinnerparty/pkg/proto/protoconnect"
)

// testGateway approves every payment unless declineFor names the payer.
type testGateway struct {
	mu         sync.Mutex
	declineFor string
	captures   int
}

func (g *testGateway) Authorize(_ context.Context, payerID string) (string, error) {
	return "token-" + payerID, nil
}

func (g *testGateway) Capture(_ context.Context, _ string, payment *models.PaymentRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if payment.UserEmail == g.declineFor {
		return errors.New("card declined")
	}
	g.captures++
	return nil
}

type testServer struct {
	auth    protoconnect.AuthServiceClient
	groups  protoconnect.GroupServiceClient
	payment protoconnect.PaymentServiceClient
	users   protoconnect.UserServiceClient
	ledger  *party.OrderLedger
	gateway *testGateway
}

type serverOptions struct {
	leaderRole        bool
	settlementTimeout time.Duration
}

func defaultServerOptions() serverOptions {
	return serverOptions{leaderRole: true, settlementTimeout: 5 * time.Second}
}

// setupTestServer wires every service onto an httptest server backed by a
// temp sqlite database, the same way cmd/server does.
func setupTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	gateway := &testGateway{}
	ledger := party.NewOrderLedger(nil)
	registry := party.NewGroupRegistry(store, store,
		party.WithLeaderRole(opts.leaderRole),
		party.WithMemberLeftNotifier(ledger),
	)
	coordinator := party.NewPaymentCoordinator(ledger, gateway,
		party.WithSettlementTimeout(opts.settlementTimeout),
	)
	logger := logging.New(io.Discard, slog.LevelError)

	requireAuth := connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor())
	mux := http.NewServeMux()
	mux.Handle(protoconnect.NewAuthServiceHandler(
		NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, registry, logger),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	))
	mux.Handle(protoconnect.NewGroupServiceHandler(NewGroupService(registry), requireAuth))
	mux.Handle(protoconnect.NewPaymentServiceHandler(NewPaymentService(ledger, coordinator), requireAuth))
	mux.Handle(protoconnect.NewUserServiceHandler(NewUserService(store), requireAuth))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		ledger.Close()
		server.Close()
		store.Close()
	})

	return &testServer{
		auth:    protoconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:  protoconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		payment: protoconnect.NewPaymentServiceClient(http.DefaultClient, server.URL),
		users:   protoconnect.NewUserServiceClient(http.DefaultClient, server.URL),
		ledger:  ledger,
		gateway: gateway,
	}
}

// session is a registered user and their bearer token.
type session struct {
	user  *pb.User
	token string
}

func (ts *testServer) register(t *testing.T, username string) session {
	t.Helper()

	resp, err := ts.auth.Register(context.Background(), connect.NewRequest(&pb.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return session{user: resp.Msg.User, token: resp.Msg.Token}
}

// authed builds a request carrying the session's token.
func authed[T any](s session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.token)
	return req
}

func codeOf(t *testing.T, err error) connect.Code {
	t.Helper()

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect.Error, got %T", err)
	}
	return connectErr.Code()
}
