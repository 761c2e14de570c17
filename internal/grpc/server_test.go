package grpc

import (
	"context"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/crypto"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]string
}

func (o *recordingObserver) ObserveRPC(method, code string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls[method] = code
}

func (o *recordingObserver) code(method string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[method]
}

func testPrincipal(t *testing.T, seed string) principal.Principal {
	t.Helper()
	kp, err := crypto.KeyPairFromSeed([]byte(seed))
	require.NoError(t, err)
	return principal.FromPublicKey(kp.PublicKey())
}

type fixture struct {
	client   *CreditLedgerClient
	admin    principal.Principal
	observer *recordingObserver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	admin := testPrincipal(t, "admin")
	cfg := service.DefaultConfig()
	cfg.Admin = admin
	svc, err := service.New(cfg, service.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, svc.Start())

	obs := &recordingObserver{calls: map[string]string{}}
	srv, err := NewServer(nil, svc, WithLogger(logger), WithObserver(obs))
	require.NoError(t, err)

	lis := bufconn.Listen(1024 * 1024)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &fixture{client: NewCreditLedgerClient(conn), admin: admin, observer: obs}
}

func (f *fixture) call(t *testing.T, method string, fields map[string]interface{}) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.client.Call(ctx, method, req)
}

func (f *fixture) submit(t *testing.T, txJSON map[string]interface{}) *structpb.Struct {
	t.Helper()
	resp, err := f.call(t, "Submit", map[string]interface{}{"tx_json": txJSON})
	require.NoError(t, err)
	return resp
}

func TestCreditLedgerService(t *testing.T) {
	f := newFixture(t)
	issuer := testPrincipal(t, "issuer")
	buyer := testPrincipal(t, "buyer")

	resp := f.submit(t, map[string]interface{}{
		"TransactionType": "AddIssuer", "Account": string(f.admin), "Target": string(issuer),
	})
	assert.Equal(t, "tesSUCCESS", resp.Fields["engine_result"].GetStringValue())
	assert.True(t, resp.Fields["applied"].GetBoolValue())

	f.submit(t, map[string]interface{}{
		"TransactionType": "IssueCredits", "Account": string(issuer), "Amount": 500, "ProjectLabel": "Forest", "Price": 1200,
	})
	f.submit(t, map[string]interface{}{
		"TransactionType": "TransferCredits", "Account": string(issuer), "To": string(buyer), "Amount": 200,
	})
	f.submit(t, map[string]interface{}{
		"TransactionType": "RetireCredits", "Account": string(buyer), "Amount": 50,
	})

	t.Run("balance", func(t *testing.T) {
		resp, err := f.call(t, "GetCreditBalance", map[string]interface{}{"account": string(buyer)})
		require.NoError(t, err)
		assert.EqualValues(t, 150, resp.Fields["balance"].GetNumberValue())
		assert.Equal(t, codes.OK.String(), f.observer.code("grpc.GetCreditBalance"))
	})

	t.Run("totals", func(t *testing.T) {
		resp, err := f.call(t, "GetTotalCreditsRetired", nil)
		require.NoError(t, err)
		assert.EqualValues(t, 50, resp.Fields["total_retired"].GetNumberValue())
		assert.EqualValues(t, 500, resp.Fields["total_issued"].GetNumberValue())
	})

	t.Run("issuer data", func(t *testing.T) {
		resp, err := f.call(t, "GetIssuerData", map[string]interface{}{"issuer": string(issuer)})
		require.NoError(t, err)
		assert.Equal(t, "Forest", resp.Fields["project_label"].GetStringValue())
		assert.EqualValues(t, 500, resp.Fields["amount"].GetNumberValue())
		assert.EqualValues(t, 0, resp.Fields["validations"].GetNumberValue())
	})

	t.Run("price", func(t *testing.T) {
		resp, err := f.call(t, "GetCreditPrice", map[string]interface{}{"issuer": string(issuer)})
		require.NoError(t, err)
		assert.EqualValues(t, 1200, resp.Fields["price"].GetNumberValue())
	})
}

func TestCreditLedgerErrors(t *testing.T) {
	f := newFixture(t)
	stranger := testPrincipal(t, "stranger")

	t.Run("unknown issuer", func(t *testing.T) {
		_, err := f.call(t, "GetCreditPrice", map[string]interface{}{"issuer": string(stranger)})
		assert.Equal(t, codes.NotFound, status.Code(err))
		assert.Equal(t, codes.NotFound.String(), f.observer.code("grpc.GetCreditPrice"))

		_, err = f.call(t, "GetIssuerData", map[string]interface{}{"issuer": string(stranger)})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("malformed principal", func(t *testing.T) {
		_, err := f.call(t, "GetCreditBalance", map[string]interface{}{"account": "not-a-principal"})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("missing field", func(t *testing.T) {
		_, err := f.call(t, "GetCreditBalance", nil)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("unknown transaction type", func(t *testing.T) {
		_, err := f.call(t, "Submit", map[string]interface{}{
			"tx_json": map[string]interface{}{"TransactionType": "Payment", "Account": string(stranger)},
		})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("rejected transaction is not a call error", func(t *testing.T) {
		resp := f.submit(t, map[string]interface{}{
			"TransactionType": "AddValidator", "Account": string(stranger), "Target": string(stranger),
		})
		assert.Equal(t, "tecUNAUTHORIZED", resp.Fields["engine_result"].GetStringValue())
		assert.False(t, resp.Fields["applied"].GetBoolValue())
	})
}

func TestAmountEncoding(t *testing.T) {
	assert.Equal(t, float64(42), amount(42))
	assert.Equal(t, "18446744073709551615", amount(^uint64(0)))
}

func TestServerConfigValidate(t *testing.T) {
	require.NoError(t, DefaultServerConfig().Validate())

	cfg := DefaultServerConfig()
	cfg.Address = "no-port"
	assert.Error(t, cfg.Validate())

	cfg = DefaultServerConfig()
	cfg.MaxRecvMsgSize = 0
	assert.Error(t, cfg.Validate())
}

func newTCPClient(t *testing.T, requireSignatures bool, opts ...Option) (*CreditLedgerClient, principal.Principal) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	admin := testPrincipal(t, "admin")
	cfg := service.DefaultConfig()
	cfg.Admin = admin
	cfg.RequireSignatures = requireSignatures
	svc, err := service.New(cfg, service.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, svc.Start())

	srv, err := NewServer(nil, svc, append([]Option{WithLogger(logger)}, opts...)...)
	require.NoError(t, err)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///"+lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewCreditLedgerClient(conn), admin
}

func callClient(t *testing.T, c *CreditLedgerClient, method string, fields map[string]interface{}) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.Call(ctx, method, req)
}

func TestUnsignedSubmitNeedsAdminPeer(t *testing.T) {
	addIssuer := func(admin principal.Principal) map[string]interface{} {
		return map[string]interface{}{"tx_json": map[string]interface{}{
			"TransactionType": "AddIssuer", "Account": string(admin), "Target": string(admin),
		}}
	}

	t.Run("peer outside admin networks", func(t *testing.T) {
		client, admin := newTCPClient(t, false, WithAdminNetworks([]string{"203.0.113.0/24"}))

		_, err := callClient(t, client, "Submit", addIssuer(admin))
		assert.Equal(t, codes.PermissionDenied, status.Code(err))

		resp, err := callClient(t, client, "GetCreditBalance", map[string]interface{}{"account": string(admin)})
		require.NoError(t, err)
		assert.Equal(t, float64(0), resp.Fields["balance"].GetNumberValue())
	})

	t.Run("loopback peer by default", func(t *testing.T) {
		client, admin := newTCPClient(t, false)

		resp, err := callClient(t, client, "Submit", addIssuer(admin))
		require.NoError(t, err)
		assert.Equal(t, "tesSUCCESS", resp.Fields["engine_result"].GetStringValue())
	})

	t.Run("signed ledger serves any peer", func(t *testing.T) {
		client, admin := newTCPClient(t, true, WithAdminNetworks(nil))

		resp, err := callClient(t, client, "Submit", addIssuer(admin))
		require.NoError(t, err)
		assert.False(t, resp.Fields["applied"].GetBoolValue())
		assert.Equal(t, "temBAD_SEQUENCE", resp.Fields["engine_result"].GetStringValue())
	})
}

func TestParseNetworks(t *testing.T) {
	nets := parseNetworks([]string{"10.0.0.0/8", "192.0.2.1", "::1", "bogus/99"})
	require.Len(t, nets, 3)
	assert.True(t, nets[0].Contains(net.ParseIP("10.1.2.3")))
	assert.True(t, nets[1].Contains(net.ParseIP("192.0.2.1")))
	assert.False(t, nets[1].Contains(net.ParseIP("192.0.2.2")))
	assert.True(t, nets[2].Contains(net.ParseIP("::1")))
}
