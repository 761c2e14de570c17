package rpc

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/crypto"
)

type fixedStepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedStepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func testPrincipal(t *testing.T, seed string) principal.Principal {
	t.Helper()
	kp, err := crypto.KeyPairFromSeed([]byte(seed))
	require.NoError(t, err)
	return principal.FromPublicKey(kp.PublicKey())
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T) (*service.Service, principal.Principal) {
	t.Helper()
	admin := testPrincipal(t, "admin")
	cfg := service.DefaultConfig()
	cfg.Admin = admin
	cfg.Clock = &fixedStepClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	svc, err := service.New(cfg, service.WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, svc.Start())
	return svc, admin
}

type observation struct {
	method, status string
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *fakeObserver) ObserveRPC(method, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{method, status})
}

func call(t *testing.T, h http.Handler, method string, params interface{}) map[string]interface{} {
	t.Helper()
	return callFrom(t, h, "127.0.0.1:40000", method, params)
}

func callFrom(t *testing.T, h http.Handler, remoteAddr, method string, params interface{}) map[string]interface{} {
	t.Helper()
	body := map[string]interface{}{"method": method}
	if params != nil {
		body["params"] = []interface{}{params}
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Result)
	return resp.Result
}

func requireSuccess(t *testing.T, result map[string]interface{}) {
	t.Helper()
	require.Equal(t, "success", result["status"], "result: %v", result)
}

func TestCreditLifecycleOverJSONRPC(t *testing.T) {
	svc, admin := newTestLedger(t)
	srv := NewServer(svc, 5*time.Second, WithLogger(quietLogger()))
	h := NewHandler(srv, nil, nil)

	issuer := testPrincipal(t, "issuer")
	validator := testPrincipal(t, "validator")
	buyer := testPrincipal(t, "buyer")

	for _, step := range []struct {
		method string
		params map[string]interface{}
	}{
		{"add_issuer", map[string]interface{}{"account": admin, "issuer": issuer}},
		{"add_validator", map[string]interface{}{"account": admin, "validator": validator}},
		{"issue_credits", map[string]interface{}{"account": issuer, "amount": 1000, "project_label": "Solar Project", "price": 2000}},
		{"transfer_credits", map[string]interface{}{"account": issuer, "destination": buyer, "amount": 400}},
		{"retire_credits", map[string]interface{}{"account": buyer, "amount": 150}},
		{"validate_credits", map[string]interface{}{"account": validator, "issuer": issuer}},
		{"set_credit_price", map[string]interface{}{"account": issuer, "price": 2500}},
	} {
		result := call(t, h, step.method, step.params)
		requireSuccess(t, result)
		assert.Equal(t, "tesSUCCESS", result["engine_result"], step.method)
		assert.Equal(t, true, result["applied"], step.method)
	}

	result := call(t, h, "get_credit_balance", map[string]interface{}{"account": buyer})
	requireSuccess(t, result)
	assert.EqualValues(t, 250, result["balance"])

	result = call(t, h, "get_total_credits_retired", nil)
	assert.EqualValues(t, 150, result["total_retired"])

	result = call(t, h, "get_credit_price", map[string]interface{}{"issuer": issuer})
	assert.EqualValues(t, 2500, result["price"])

	result = call(t, h, "get_issuer_data", map[string]interface{}{"issuer": issuer})
	data, ok := result["issuer_data"].(map[string]interface{})
	require.True(t, ok, "issuer_data: %v", result["issuer_data"])
	assert.EqualValues(t, 1, data["validations"])

	result = call(t, h, "ledger_accept", nil)
	requireSuccess(t, result)
	assert.EqualValues(t, 3, result["ledger_current_index"])

	result = call(t, h, "ledger", map[string]interface{}{"ledger_index": "validated", "transactions": true})
	requireSuccess(t, result)
	ledgerObj := result["ledger"].(map[string]interface{})
	assert.Len(t, ledgerObj["transactions"], 7)
}

func TestRejectedCallReportsResultCode(t *testing.T) {
	svc, _ := newTestLedger(t)
	h := NewHandler(NewServer(svc, 0, WithLogger(quietLogger())), nil, nil)
	stranger := testPrincipal(t, "stranger")

	result := call(t, h, "add_issuer", map[string]interface{}{"account": stranger, "issuer": stranger})
	requireSuccess(t, result)
	assert.Equal(t, "tecUNAUTHORIZED", result["engine_result"])
	assert.Equal(t, false, result["applied"])

	result = call(t, h, "get_credit_price", map[string]interface{}{"issuer": stranger})
	assert.Equal(t, "error", result["status"])
	assert.Equal(t, "objectNotFound", result["error"])
}

func TestSubmitBatchClosesLedger(t *testing.T) {
	svc, admin := newTestLedger(t)
	h := NewHandler(NewServer(svc, 0, WithLogger(quietLogger())), nil, nil)
	issuer := testPrincipal(t, "issuer")

	result := call(t, h, "submit_batch", map[string]interface{}{
		"transactions": []interface{}{
			map[string]interface{}{"TransactionType": "AddIssuer", "Account": admin, "Target": issuer},
			map[string]interface{}{"TransactionType": "IssueCredits", "Account": issuer, "Amount": 100, "ProjectLabel": "P"},
			map[string]interface{}{"TransactionType": "RetireCredits", "Account": issuer, "Amount": 500},
		},
	})
	requireSuccess(t, result)
	assert.EqualValues(t, 2, result["ledger_index"])
	assert.EqualValues(t, 2, result["applied_count"])
	assert.EqualValues(t, 1, result["failed_count"])

	results := result["results"].([]interface{})
	require.Len(t, results, 3)
	assert.Equal(t, "tecINSUFFICIENT_BALANCE", results[2].(map[string]interface{})["engine_result"])
	assert.Equal(t, uint32(3), svc.GetCurrentLedgerIndex())

	hash := results[1].(map[string]interface{})["hash"].(string)
	result = call(t, h, "tx", map[string]interface{}{"transaction": hash})
	requireSuccess(t, result)
	assert.Equal(t, "IssueCredits", result["TransactionType"])
	assert.Equal(t, true, result["validated"])
}

func TestErrorResponses(t *testing.T) {
	svc, _ := newTestLedger(t)
	obs := &fakeObserver{}
	h := NewHandler(NewServer(svc, 0, WithLogger(quietLogger()), WithObserver(obs)), nil, nil)

	t.Run("unknown method", func(t *testing.T) {
		result := call(t, h, "wallet_propose", nil)
		assert.Equal(t, "error", result["status"])
		assert.Equal(t, "unknownCmd", result["error"])
		assert.EqualValues(t, -32601, result["error_code"])
		req := result["request"].(map[string]interface{})
		assert.Equal(t, "wallet_propose", req["command"])
	})

	t.Run("invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{")))
		assert.Contains(t, rec.Body.String(), "jsonInvalid")
	})

	t.Run("secret is masked in echoed request", func(t *testing.T) {
		result := call(t, h, "retire_credits", map[string]interface{}{"account": "bad", "amount": 1, "secret": "00"})
		req := result["request"].(map[string]interface{})
		assert.Equal(t, "<masked>", req["secret"])
	})

	t.Run("unsupported api version", func(t *testing.T) {
		result := call(t, h, "ping", map[string]interface{}{"api_version": 9})
		assert.Equal(t, "invalidApiVersion", result["error"])
	})

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Contains(t, obs.seen, observation{"wallet_propose", "unknownCmd"})
}

func TestGetRequestAndHealth(t *testing.T) {
	svc, _ := newTestLedger(t)
	h := NewHandler(NewServer(svc, 0, WithLogger(quietLogger()), WithVersion("1.2.3")), nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?command=server_info", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp struct {
		Result struct {
			Status string                 `json:"status"`
			Info   map[string]interface{} `json:"info"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Result.Status)
	assert.Equal(t, "1.2.3", resp.Result.Info["build_version"])
	assert.Equal(t, "standalone", resp.Result.Info["server_state"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAdminRole(t *testing.T) {
	svc, _ := newTestLedger(t)

	t.Run("loopback is admin", func(t *testing.T) {
		h := NewHandler(NewServer(svc, 0, WithLogger(quietLogger())), nil, nil)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"ping"}`))
		req.RemoteAddr = "127.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Contains(t, rec.Body.String(), `"role":"admin"`)
	})

	t.Run("remote guest cannot accept ledgers", func(t *testing.T) {
		h := NewHandler(NewServer(svc, 0, WithLogger(quietLogger())), nil, nil)
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"method":"ledger_accept"}`))
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", "127.0.0.1")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Contains(t, rec.Body.String(), "commandUntrusted")
	})

	t.Run("configured network", func(t *testing.T) {
		srv := NewServer(svc, 0, WithLogger(quietLogger()), WithAdminNetworks([]string{"203.0.113.0/24"}))
		assert.True(t, srv.isAdmin("203.0.113.7:1"))
		assert.False(t, srv.isAdmin("127.0.0.1:1"))
	})
}

func TestRegistryListsCreditMethods(t *testing.T) {
	svc, _ := newTestLedger(t)
	srv := NewServer(svc, 0, WithLogger(quietLogger()))
	methods := srv.Registry().List()
	for _, m := range []string{
		"add_issuer", "add_validator", "issue_credits", "transfer_credits",
		"retire_credits", "validate_credits", "set_credit_price",
		"get_credit_balance", "get_total_credits_retired", "get_issuer_data", "get_credit_price",
	} {
		assert.Contains(t, methods, m)
	}
}

func TestUnsignedLedgerWritesNeedAdmin(t *testing.T) {
	const remote = "203.0.113.7:5555"
	svc, admin := newTestLedger(t)
	h := NewHandler(NewServer(svc, 0, WithLogger(quietLogger())), nil, nil)
	issuer := testPrincipal(t, "issuer")

	writes := []struct {
		method string
		params map[string]interface{}
	}{
		{"add_issuer", map[string]interface{}{"account": admin, "issuer": issuer}},
		{"add_validator", map[string]interface{}{"account": admin, "validator": issuer}},
		{"issue_credits", map[string]interface{}{"account": issuer, "amount": 10, "project_label": "P"}},
		{"transfer_credits", map[string]interface{}{"account": issuer, "destination": admin, "amount": 1}},
		{"retire_credits", map[string]interface{}{"account": issuer, "amount": 1}},
		{"validate_credits", map[string]interface{}{"account": issuer, "issuer": issuer}},
		{"set_credit_price", map[string]interface{}{"account": issuer, "price": 1}},
		{"submit", map[string]interface{}{"tx_json": map[string]interface{}{"TransactionType": "AddIssuer", "Account": admin, "Target": issuer}}},
		{"submit_batch", map[string]interface{}{"transactions": []interface{}{
			map[string]interface{}{"TransactionType": "AddIssuer", "Account": admin, "Target": issuer},
		}}},
	}
	for _, w := range writes {
		t.Run(w.method, func(t *testing.T) {
			result := callFrom(t, h, remote, w.method, w.params)
			assert.Equal(t, "error", result["status"])
			assert.Equal(t, "commandUntrusted", result["error"])
		})
	}

	info, err := svc.GetAccountInfo(issuer)
	require.NoError(t, err)
	assert.False(t, info.IsIssuer)
	assert.Equal(t, uint32(2), svc.GetCurrentLedgerIndex())

	// reads stay open to guests
	result := callFrom(t, h, remote, "get_credit_balance", map[string]interface{}{"account": issuer})
	requireSuccess(t, result)

	// the same call from an admin network goes through
	result = call(t, h, "add_issuer", map[string]interface{}{"account": admin, "issuer": issuer})
	requireSuccess(t, result)
	assert.Equal(t, "tesSUCCESS", result["engine_result"])
}

func TestSignedLedgerAcceptsGuestWrites(t *testing.T) {
	admin := testPrincipal(t, "admin")
	cfg := service.DefaultConfig()
	cfg.Admin = admin
	cfg.RequireSignatures = true
	svc, err := service.New(cfg, service.WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, svc.Start())
	h := NewHandler(NewServer(svc, 0, WithLogger(quietLogger())), nil, nil)

	// the guest reaches the engine, which refuses the unsigned call itself
	result := callFrom(t, h, "203.0.113.7:5555", "submit", map[string]interface{}{
		"tx_json": map[string]interface{}{"TransactionType": "AddIssuer", "Account": admin, "Target": admin, "Sequence": 1},
	})
	requireSuccess(t, result)
	assert.Equal(t, false, result["applied"])
	assert.Equal(t, "temBAD_SIGNATURE", result["engine_result"])
}
