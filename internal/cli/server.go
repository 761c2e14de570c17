package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/carbond/internal/config"
	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	carbongrpc "github.com/LeJamon/carbond/internal/grpc"
	"github.com/LeJamon/carbond/internal/metrics"
	"github.com/LeJamon/carbond/internal/rpc"
	"github.com/LeJamon/carbond/internal/storage/nodestore"
	"github.com/LeJamon/carbond/internal/storage/relationaldb"
)

const shutdownTimeout = 10 * time.Second

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the carbond node",
	Long: `Start the node, which provides:
- HTTP JSON-RPC on / and /rpc
- WebSocket commands and subscriptions on /ws
- Health check on /health and Prometheus metrics on /metrics
- the carbond.v1.CreditLedger gRPC service, when [grpc] is enabled

This is the default command when no subcommand is specified.`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.RunE = runServer
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	node, err := buildNode(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer node.close()

	return node.run(ctx)
}

// node is a fully wired carbond process
type node struct {
	cfg    *config.Config
	logger *slog.Logger

	ledger     *service.Service
	nodeStore  *nodestore.DatabaseImpl
	history    *relationaldb.Store
	httpServer *http.Server
	wsServer   *rpc.WebSocketServer
	grpcServer *carbongrpc.Server
}

func buildNode(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*node, error) {
	n := &node{cfg: cfg, logger: logger}

	var err error
	n.nodeStore, err = nodestore.Open(cfg.NodeDB, nodestore.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("open node store: %w", err)
	}

	svcCfg := service.Config{
		Admin:              principal.Principal(cfg.Ledger.Admin),
		Standalone:         cfg.Ledger.Standalone,
		RequireSignatures:  cfg.Ledger.RequireSignatures,
		DefaultCreditPrice: cfg.Ledger.DefaultCreditPrice,
		MaxLabelLength:     cfg.Ledger.MaxLabelLength,
		HistorySize:        cfg.Ledger.HistorySize,
		NodeStore:          n.nodeStore,
	}
	if cfg.Database.Enabled() {
		n.history, err = relationaldb.Open(ctx, cfg.Database, logger)
		if err != nil {
			n.close()
			return nil, fmt.Errorf("open history database: %w", err)
		}
		svcCfg.RelationalDB = n.history
	}

	svcOpts := []service.Option{service.WithLogger(logger)}
	rpcOpts := []rpc.Option{
		rpc.WithLogger(logger),
		rpc.WithVersion(Version),
		rpc.WithAdminNetworks(cfg.Server.Admin),
	}
	grpcOpts := []carbongrpc.Option{
		carbongrpc.WithLogger(logger),
		carbongrpc.WithAdminNetworks(cfg.Server.Admin),
	}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		m := metrics.New(prometheus.NewRegistry())
		svcOpts = append(svcOpts, service.WithRecorder(m))
		rpcOpts = append(rpcOpts, rpc.WithObserver(m))
		grpcOpts = append(grpcOpts, carbongrpc.WithObserver(m))
		metricsHandler = m.Handler()
	}

	n.ledger, err = service.New(svcCfg, svcOpts...)
	if err != nil {
		n.close()
		return nil, fmt.Errorf("create ledger service: %w", err)
	}
	if err := n.ledger.Start(); err != nil {
		n.close()
		return nil, fmt.Errorf("start ledger service: %w", err)
	}

	rpcServer := rpc.NewServer(n.ledger, cfg.Server.RequestTimeout, rpcOpts...)
	if cfg.Server.WebSocket {
		n.wsServer = rpc.NewWebSocketServer(rpcServer)
		n.ledger.SetEventHooks(n.wsServer.Publisher().EventHooks())
	}
	n.httpServer = &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           rpc.NewHandler(rpcServer, n.wsServer, metricsHandler),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
	}

	if cfg.GRPC.Enabled {
		n.grpcServer, err = carbongrpc.NewServer(&carbongrpc.ServerConfig{
			Address:        cfg.GRPC.Address,
			MaxRecvMsgSize: cfg.GRPC.MaxRecvMsgSize,
			MaxSendMsgSize: cfg.GRPC.MaxSendMsgSize,
		}, n.ledger, grpcOpts...)
		if err != nil {
			n.close()
			return nil, fmt.Errorf("create gRPC server: %w", err)
		}
	}
	return n, nil
}

// run serves until ctx is cancelled or a server fails.
func (n *node) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n.logger.Info("HTTP server listening", "addr", n.httpServer.Addr,
			"websocket", n.wsServer != nil, "standalone", n.cfg.Ledger.Standalone)
		if err := n.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if n.grpcServer != nil {
		g.Go(func() error {
			if err := n.grpcServer.Start(); err != nil {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	if !n.cfg.Ledger.Standalone {
		g.Go(func() error {
			err := n.ledger.RunCloseLoop(gctx, n.cfg.Ledger.CloseInterval)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		n.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if n.wsServer != nil {
			n.wsServer.Close()
		}
		if n.grpcServer != nil {
			n.grpcServer.Stop()
		}
		return n.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (n *node) close() {
	if n.history != nil {
		if err := n.history.Close(); err != nil {
			n.logger.Warn("close history database", "error", err)
		}
	}
	if n.nodeStore != nil {
		if err := n.nodeStore.Close(); err != nil {
			n.logger.Warn("close node store", "error", err)
		}
	}
}
