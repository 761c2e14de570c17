package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/config"
	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/crypto"
	"github.com/LeJamon/carbond/internal/rpc"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func seedPrincipal(t *testing.T, seed string) principal.Principal {
	t.Helper()
	kp, err := crypto.KeyPairFromSeed([]byte(seed))
	require.NoError(t, err)
	return principal.FromPublicKey(kp.PublicKey())
}

func TestKeygenWithSeedIsDeterministic(t *testing.T) {
	out, err := execute(t, "keygen", "--seed", "alice")
	require.NoError(t, err)

	var keys map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	assert.Equal(t, string(seedPrincipal(t, "alice")), keys["principal"])
	assert.NotEmpty(t, keys["private_key"])

	kp, err := crypto.KeyPairFromHex(keys["private_key"])
	require.NoError(t, err)
	assert.Equal(t, keys["public_key"], kp.PublicKeyHex())
}

func TestKeygenRandomSeed(t *testing.T) {
	out, err := execute(t, "keygen", "--seed=")
	require.NoError(t, err)

	var keys map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &keys))
	require.Len(t, keys["seed"], 32)
	assert.Equal(t, string(seedPrincipal(t, keys["seed"])), keys["principal"])

	again, err := execute(t, "keygen", "--seed", keys["seed"])
	require.NoError(t, err)
	assert.JSONEq(t, out, again)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "carbond version "+Version)
}

func TestRPCCommand(t *testing.T) {
	admin := seedPrincipal(t, "admin")
	cfg := service.DefaultConfig()
	cfg.Admin = admin
	svc, err := service.New(cfg, service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	require.NoError(t, svc.Start())

	srv := httptest.NewServer(rpc.NewHandler(rpc.NewServer(svc, time.Second), nil, nil))
	defer srv.Close()

	issuer := seedPrincipal(t, "issuer")
	out, err := execute(t, "rpc", "--url", srv.URL, "add_issuer",
		`{"account":"`+string(admin)+`","issuer":"`+string(issuer)+`"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "tesSUCCESS")

	out, err = execute(t, "rpc", "--url", srv.URL, "balance", string(issuer))
	require.NoError(t, err)
	assert.Contains(t, out, `"balance": 0`)

	_, err = execute(t, "rpc", "--url", srv.URL, "price", string(issuer))
	assert.ErrorContains(t, err, "objectNotFound")

	_, err = execute(t, "rpc", "--url", srv.URL, "server_info", "{not json")
	assert.ErrorContains(t, err, "not valid JSON")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "carbond", line["service"])

	_, err = newLogger(config.LogConfig{Level: "chatty"}, &buf)
	assert.Error(t, err)
}

func TestNodeRunsAndShutsDown(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{Bind: "127.0.0.1", Port: 0, RequestTimeout: time.Second, WebSocket: true},
		Ledger: config.LedgerConfig{
			Admin:          string(seedPrincipal(t, "admin")),
			Standalone:     false,
			CloseInterval:  10 * time.Millisecond,
			MaxLabelLength: 64,
			HistorySize:    16,
		},
		Metrics: config.MetricsConfig{Enabled: true},
	}
	cfg.NodeDB.Backend = "pebble"
	cfg.NodeDB.Path = filepath.Join(dir, "nodes")
	cfg.NodeDB.Compressor = "lz4"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(dir, "history.db")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	n, err := buildNode(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer n.close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.run(ctx) }()

	require.Eventually(t, func() bool {
		return n.ledger.GetValidatedLedgerIndex() >= 3
	}, 5*time.Second, 10*time.Millisecond, "close loop should advance the ledger")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("node did not shut down")
	}
}
