package rpc_types

import (
	"context"
	"encoding/json"
	"sort"
)

// API version constants
const (
	ApiVersion1       = 1
	ApiVersion2       = 2
	DefaultApiVersion = ApiVersion1
)

// AllApiVersions is returned by handlers that behave the same on every version.
var AllApiVersions = []int{ApiVersion1, ApiVersion2}

// Role-based access control
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RoleAdmin
)

// RpcContext contains request-specific information
type RpcContext struct {
	Context    context.Context
	Role       Role
	ApiVersion int
	IsAdmin    bool
	ClientIP   string

	// Services gives handlers access to the ledger.
	Services *ServiceContainer
}

// MethodHandler is implemented by every RPC method
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
	RequiredRole() Role
	SupportedApiVersions() []int
}

// LedgerWriter is implemented by methods that submit transactions. On a
// ledger that does not require signatures the account field of such a
// call is not proven, so the server serves them to admin clients only.
type LedgerWriter interface {
	WritesLedger() bool
}

// EffectiveRole returns the role a client needs to call h. signed reports
// whether the ledger requires signed transactions.
func EffectiveRole(h MethodHandler, signed bool) Role {
	if w, ok := h.(LedgerWriter); ok && w.WritesLedger() && !signed {
		return RoleAdmin
	}
	return h.RequiredRole()
}

// MethodRegistry maps method names to handlers
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

// List returns the registered method names in sorted order
func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}

// Subscription streams
type SubscriptionType string

const (
	SubLedger       SubscriptionType = "ledger"
	SubTransactions SubscriptionType = "transactions"
)

// IsValid reports whether s names a known stream
func (s SubscriptionType) IsValid() bool {
	return s == SubLedger || s == SubTransactions
}

// SubscriptionRequest is the body of subscribe and unsubscribe
type SubscriptionRequest struct {
	Streams []SubscriptionType `json:"streams,omitempty"`
}

// WebSocketResponse is the envelope of a command reply on /ws
type WebSocketResponse struct {
	Type       string      `json:"type"`
	ID         interface{} `json:"id,omitempty"`
	Status     string      `json:"status,omitempty"`
	Result     interface{} `json:"result,omitempty"`
	ApiVersion int         `json:"api_version,omitempty"`
}
