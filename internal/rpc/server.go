package rpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

// maxRequestBody bounds a JSON-RPC request body
const maxRequestBody = 1 << 20

// RequestObserver receives one observation per served RPC call.
// *metrics.Metrics implements it.
type RequestObserver interface {
	ObserveRPC(method, status string, d time.Duration)
}

// Server handles HTTP JSON-RPC requests.
// Format: {"method": "method_name", "params": [{...}]}
type Server struct {
	registry *rpc_types.MethodRegistry
	services *rpc_types.ServiceContainer
	timeout  time.Duration
	version  string
	logger   *slog.Logger
	observer RequestObserver
	admins   []*net.IPNet
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithObserver records per-method request metrics
func WithObserver(o RequestObserver) Option {
	return func(s *Server) { s.observer = o }
}

// WithVersion sets the build version reported by server_info
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// WithAdminNetworks replaces the networks whose clients get the admin role.
// Entries are CIDRs or single IPs. The default is loopback only.
func WithAdminNetworks(nets []string) Option {
	return func(s *Server) {
		s.admins = s.admins[:0]
		for _, n := range nets {
			if !strings.Contains(n, "/") {
				if ip := net.ParseIP(n); ip != nil && ip.To4() != nil {
					n += "/32"
				} else {
					n += "/128"
				}
			}
			if _, ipnet, err := net.ParseCIDR(n); err == nil {
				s.admins = append(s.admins, ipnet)
			}
		}
	}
}

// NewServer creates a new RPC server over the given ledger service
func NewServer(ledger rpc_types.LedgerService, timeout time.Duration, opts ...Option) *Server {
	server := &Server{
		registry: rpc_types.NewMethodRegistry(),
		services: &rpc_types.ServiceContainer{Ledger: ledger},
		timeout:  timeout,
		version:  "dev",
		logger:   slog.Default(),
	}
	WithAdminNetworks([]string{"127.0.0.0/8", "::1"})(server)
	for _, opt := range opts {
		opt(server)
	}

	server.registerAllMethods()
	return server
}

// Registry returns the method registry
func (s *Server) Registry() *rpc_types.MethodRegistry {
	return s.registry
}

// JSONRPCRequest is a JSON-RPC request: {"method": ..., "params": [{...}]}
type JSONRPCRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		s.handleGetRequest(w, r)
	case http.MethodPost:
		s.handlePostRequest(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetRequest serves simple queries: GET /?command=server_info
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("command")
	if method == "" {
		method = "server_info"
	}

	ctx := s.newContext(r)
	result, rpcErr := s.executeMethod(method, nil, ctx)
	s.writeJSONRPCResponse(w, map[string]interface{}{"command": method}, result, rpcErr)
}

// handlePostRequest processes a JSON-RPC POST
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.writeJSONRPCError(w, nil, "internal", "Failed to read request body")
		return
	}

	var request JSONRPCRequest
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeJSONRPCError(w, nil, "jsonInvalid", "Invalid JSON: "+err.Error())
		return
	}
	if request.Method == "" {
		s.writeJSONRPCError(w, nil, "missingCommand", "Missing method field")
		return
	}

	// params is an array holding one object
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}

	ctx := s.newContext(r)
	var paramsMap map[string]interface{}
	if params != nil && json.Unmarshal(params, &paramsMap) == nil {
		if ver, ok := paramsMap["api_version"].(float64); ok {
			ctx.ApiVersion = int(ver)
		}
	}

	result, rpcErr := s.executeMethod(request.Method, params, ctx)

	// echo the request on errors, without secrets
	var requestObj map[string]interface{}
	if paramsMap != nil {
		requestObj = paramsMap
		if _, ok := requestObj["secret"]; ok {
			requestObj["secret"] = "<masked>"
		}
	} else {
		requestObj = map[string]interface{}{}
	}
	requestObj["command"] = request.Method

	s.writeJSONRPCResponse(w, requestObj, result, rpcErr)
}

func (s *Server) newContext(r *http.Request) *rpc_types.RpcContext {
	role := rpc_types.RoleGuest
	if s.isAdmin(r.RemoteAddr) {
		role = rpc_types.RoleAdmin
	}
	return &rpc_types.RpcContext{
		Context:    r.Context(),
		Role:       role,
		ApiVersion: rpc_types.DefaultApiVersion,
		IsAdmin:    role == rpc_types.RoleAdmin,
		ClientIP:   getClientIP(r),
		Services:   s.services,
	}
}

// isAdmin reports whether remoteAddr lies in an admin network.
// Forwarding headers are ignored here.
func (s *Server) isAdmin(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, n := range s.admins {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func (s *Server) signaturesRequired() bool {
	return s.services.Ledger != nil && s.services.Ledger.RequiresSignatures()
}

// executeMethod runs one method with role, version and timeout checks
func (s *Server) executeMethod(method string, params json.RawMessage, ctx *rpc_types.RpcContext) (result interface{}, rpcErr *rpc_types.RpcError) {
	start := time.Now()
	defer func() {
		status := "success"
		if rpcErr != nil {
			status = rpcErr.ErrorString
		}
		if s.observer != nil {
			s.observer.ObserveRPC(method, status, time.Since(start))
		}
		s.logger.Debug("rpc call",
			"method", method,
			"status", status,
			"client", ctx.ClientIP,
			"duration", time.Since(start),
		)
	}()

	handler, exists := s.registry.Get(method)
	if !exists {
		return nil, rpc_types.RpcErrorMethodNotFound(method)
	}

	if ctx.Role < rpc_types.EffectiveRole(handler, s.signaturesRequired()) {
		return nil, rpc_types.RpcErrorUntrusted(method)
	}

	if supported := handler.SupportedApiVersions(); len(supported) > 0 {
		ok := false
		for _, version := range supported {
			if ctx.ApiVersion == version {
				ok = true
				break
			}
		}
		if !ok {
			return nil, rpc_types.RpcErrorInvalidApiVersion(strconv.Itoa(ctx.ApiVersion))
		}
	}

	if s.timeout > 0 {
		c, cancel := context.WithTimeout(ctx.Context, s.timeout)
		defer cancel()
		ctx.Context = c
	}

	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("rpc handler panic", "method", method, "panic", p)
			result, rpcErr = nil, rpc_types.RpcErrorInternal("internal error")
		}
	}()
	return handler.Handle(ctx, params)
}

// writeJSONRPCResponse writes {"result": {...}} with status success or error
func (s *Server) writeJSONRPCResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *rpc_types.RpcError) {
	response := make(map[string]interface{})

	if rpcErr != nil {
		resultObj := map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.ErrorString,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		}
		if request != nil {
			resultObj["request"] = request
		}
		response["result"] = resultObj
	} else if resultMap, ok := result.(map[string]interface{}); ok {
		resultMap["status"] = "success"
		response["result"] = resultMap
	} else {
		response["result"] = map[string]interface{}{
			"status": "success",
			"data":   result,
		}
	}

	s.writeJSON(w, response)
}

// writeJSONRPCError writes an error that happened before method dispatch
func (s *Server) writeJSONRPCError(w http.ResponseWriter, request interface{}, errorCode string, message string) {
	resultObj := map[string]interface{}{
		"status":        "error",
		"error":         errorCode,
		"error_message": message,
	}
	if request != nil {
		resultObj["request"] = request
	}
	s.writeJSON(w, map[string]interface{}{"result": resultObj})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal response", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("failed to write response", "error", err)
	}
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
