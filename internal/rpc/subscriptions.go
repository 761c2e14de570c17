package rpc

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

// Connection is a stream consumer known to the subscription manager
type Connection struct {
	ID            string
	SendChannel   chan []byte
	subscriptions map[rpc_types.SubscriptionType]struct{}
}

// SubscriptionManager tracks which connections follow which streams
type SubscriptionManager struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	logger      *slog.Logger
}

// NewSubscriptionManager creates an empty manager
func NewSubscriptionManager(logger *slog.Logger) *SubscriptionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionManager{
		connections: make(map[string]*Connection),
		logger:      logger,
	}
}

// AddConnection registers a connection with no subscriptions
func (sm *SubscriptionManager) AddConnection(id string, send chan []byte) *Connection {
	conn := &Connection{
		ID:            id,
		SendChannel:   send,
		subscriptions: make(map[rpc_types.SubscriptionType]struct{}),
	}
	sm.mu.Lock()
	sm.connections[id] = conn
	sm.mu.Unlock()
	return conn
}

// RemoveConnection forgets a connection and its subscriptions
func (sm *SubscriptionManager) RemoveConnection(id string) {
	sm.mu.Lock()
	delete(sm.connections, id)
	sm.mu.Unlock()
}

// HandleSubscribe adds the requested streams to a connection
func (sm *SubscriptionManager) HandleSubscribe(id string, request rpc_types.SubscriptionRequest) *rpc_types.RpcError {
	if len(request.Streams) == 0 {
		return rpc_types.RpcErrorInvalidParams("No streams requested")
	}
	for _, s := range request.Streams {
		if !s.IsValid() {
			return rpc_types.RpcErrorStreamMalformed("Unknown stream: " + string(s))
		}
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	conn, ok := sm.connections[id]
	if !ok {
		return rpc_types.RpcErrorInternal("connection not registered")
	}
	for _, s := range request.Streams {
		conn.subscriptions[s] = struct{}{}
	}
	return nil
}

// HandleUnsubscribe removes streams from a connection. No streams means all.
func (sm *SubscriptionManager) HandleUnsubscribe(id string, request rpc_types.SubscriptionRequest) *rpc_types.RpcError {
	for _, s := range request.Streams {
		if !s.IsValid() {
			return rpc_types.RpcErrorStreamMalformed("Unknown stream: " + string(s))
		}
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	conn, ok := sm.connections[id]
	if !ok {
		return rpc_types.RpcErrorInternal("connection not registered")
	}
	if len(request.Streams) == 0 {
		conn.subscriptions = make(map[rpc_types.SubscriptionType]struct{})
		return nil
	}
	for _, s := range request.Streams {
		delete(conn.subscriptions, s)
	}
	return nil
}

// BroadcastToStream queues data on every connection subscribed to stream.
// Slow connections whose queue is full miss the message.
func (sm *SubscriptionManager) BroadcastToStream(stream rpc_types.SubscriptionType, data []byte) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, conn := range sm.connections {
		if _, ok := conn.subscriptions[stream]; !ok {
			continue
		}
		select {
		case conn.SendChannel <- data:
		default:
			sm.logger.Warn("skipping slow subscriber", "conn", conn.ID, "stream", stream)
		}
	}
}

// GetSubscriberCount returns the number of connections following stream
func (sm *SubscriptionManager) GetSubscriberCount(stream rpc_types.SubscriptionType) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	n := 0
	for _, conn := range sm.connections {
		if _, ok := conn.subscriptions[stream]; ok {
			n++
		}
	}
	return n
}

// Publisher turns ledger service events into stream messages
type Publisher struct {
	manager *SubscriptionManager
	logger  *slog.Logger
}

// NewPublisher creates a Publisher over manager
func NewPublisher(manager *SubscriptionManager) *Publisher {
	return &Publisher{manager: manager, logger: manager.logger}
}

// PublishLedgerClosed broadcasts a ledger close to "ledger" subscribers
func (p *Publisher) PublishLedgerClosed(event *LedgerCloseEvent) {
	p.publish(rpc_types.SubLedger, event)
}

// PublishTransaction broadcasts a transaction to "transactions" subscribers
func (p *Publisher) PublishTransaction(event *TransactionEvent) {
	p.publish(rpc_types.SubTransactions, event)
}

func (p *Publisher) publish(stream rpc_types.SubscriptionType, event interface{}) {
	if p == nil || p.manager == nil || event == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal stream event", "stream", stream, "error", err)
		return
	}
	p.manager.BroadcastToStream(stream, data)
}

// EventHooks returns ledger service hooks that feed this publisher
func (p *Publisher) EventHooks() *service.EventHooks {
	return &service.EventHooks{
		OnLedgerClosed: func(info *service.LedgerInfo, txCount int, validatedLedgers string) {
			p.PublishLedgerClosed(NewLedgerCloseEvent(info, txCount, validatedLedgers))
		},
		OnTransaction: func(info service.TransactionInfo, result service.TxResult, ledgerSeq uint32, ledgerHash [32]byte, closeTime time.Time) {
			p.PublishTransaction(NewTransactionEvent(info, result, ledgerSeq, ledgerHash, closeTime))
		},
	}
}
