package grpc

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"path"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// Observer receives per-call outcomes. *metrics.Metrics implements it.
type Observer interface {
	ObserveRPC(method, status string, d time.Duration)
}

// Server represents the gRPC server for credit ledger operations.
type Server struct {
	mu sync.RWMutex

	grpcServer *grpc.Server
	config     *ServerConfig
	logger     *slog.Logger
	observer   Observer

	// admins are the networks trusted with unsigned submissions
	admins []*net.IPNet

	listener net.Listener
	running  bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithObserver records every call with o.
func WithObserver(o Observer) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithAdminNetworks replaces the networks whose peers may submit
// transactions to a ledger that does not require signatures. Entries are
// CIDRs or single IPs. The default is loopback only.
func WithAdminNetworks(nets []string) Option {
	return func(s *Server) {
		s.admins = parseNetworks(nets)
	}
}

// NewServer creates a gRPC server exposing ledgerSvc as carbond.v1.CreditLedger.
func NewServer(cfg *ServerConfig, ledgerSvc LedgerService, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ledgerSvc == nil {
		return nil, errors.New("ledger service is required")
	}

	s := &Server{
		config: cfg,
		logger: slog.Default(),
		admins: parseNetworks([]string{"127.0.0.0/8", "::1"}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.grpcServer = grpc.NewServer(
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.UnaryInterceptor(s.unaryInterceptor),
	)
	s.grpcServer.RegisterService(&CreditLedgerServiceDesc, &creditLedger{ledger: ledgerSvc, trusted: s.trustedPeer})
	return s, nil
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener. It blocks until the server stops.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.logger.Info("gRPC server listening", "addr", listener.Addr().String())
	err := s.grpcServer.Serve(listener)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

// Stop gracefully stops the gRPC server.
// It stops accepting new connections and waits for existing calls to complete.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.grpcServer.GracefulStop()
	s.running = false
}

// IsRunning returns true if the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Address returns the address the server is listening on.
// Returns empty string if the server is not running.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// trustedPeer reports whether the caller of ctx is an admin peer. Peers on
// a non-TCP transport, such as a unix socket or an in-process listener,
// are local and trusted.
func (s *Server) trustedPeer(ctx context.Context) bool {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return false
	}
	tcp, ok := p.Addr.(*net.TCPAddr)
	if !ok {
		return true
	}
	for _, n := range s.admins {
		if n.Contains(tcp.IP) {
			return true
		}
	}
	return false
}

// unaryInterceptor logs and observes every call.
func (s *Server) unaryInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	elapsed := time.Since(start)

	method := path.Base(info.FullMethod)
	code := status.Code(err).String()
	if s.observer != nil {
		s.observer.ObserveRPC("grpc."+method, code, elapsed)
	}
	if err != nil {
		s.logger.Debug("gRPC call failed", "method", method, "code", code, "error", err, "duration", elapsed)
	} else {
		s.logger.Debug("gRPC call", "method", method, "duration", elapsed)
	}
	return resp, err
}
