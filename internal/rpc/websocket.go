package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

const (
	wsMaxMessageSize = 512 * 1024
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsWriteWait      = 10 * time.Second
	wsSendBuffer     = 256
)

// WebSocketServer serves RPC commands and stream subscriptions on /ws
type WebSocketServer struct {
	upgrader      websocket.Upgrader
	server        *Server
	subscriptions *SubscriptionManager
	publisher     *Publisher

	mu          sync.RWMutex
	connections map[string]*WebSocketConnection
}

// WebSocketConnection is one client connection
type WebSocketConnection struct {
	ID          string
	conn        *websocket.Conn
	sendChannel chan []byte
	ctx         context.Context
	cancel      context.CancelFunc
	clientIP    string
	role        rpc_types.Role
	closeOnce   sync.Once
}

// NewWebSocketServer creates a WebSocket front end sharing s's methods
func NewWebSocketServer(s *Server) *WebSocketServer {
	manager := NewSubscriptionManager(s.logger)
	return &WebSocketServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		server:        s,
		subscriptions: manager,
		publisher:     NewPublisher(manager),
		connections:   make(map[string]*WebSocketConnection),
	}
}

// Publisher returns the publisher feeding this server's subscribers
func (ws *WebSocketServer) Publisher() *Publisher {
	return ws.publisher
}

// ConnectionCount returns the number of open connections
func (ws *WebSocketServer) ConnectionCount() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return len(ws.connections)
}

// ServeHTTP upgrades the request and starts the connection loops
func (ws *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.server.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	role := rpc_types.RoleGuest
	if ws.server.isAdmin(r.RemoteAddr) {
		role = rpc_types.RoleAdmin
	}
	wsConn := &WebSocketConnection{
		ID:          uuid.NewString(),
		conn:        conn,
		sendChannel: make(chan []byte, wsSendBuffer),
		ctx:         ctx,
		cancel:      cancel,
		clientIP:    getClientIP(r),
		role:        role,
	}

	ws.mu.Lock()
	ws.connections[wsConn.ID] = wsConn
	ws.mu.Unlock()
	ws.subscriptions.AddConnection(wsConn.ID, wsConn.sendChannel)

	ws.server.logger.Debug("websocket connection opened", "conn", wsConn.ID, "client", wsConn.clientIP)

	go ws.handleSend(wsConn)
	go ws.handleConnection(wsConn)
}

// handleConnection reads commands until the client goes away
func (ws *WebSocketServer) handleConnection(wsConn *WebSocketConnection) {
	defer ws.closeConnection(wsConn)

	wsConn.conn.SetReadLimit(wsMaxMessageSize)
	_ = wsConn.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	wsConn.conn.SetPongHandler(func(string) error {
		return wsConn.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, message, err := wsConn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.server.logger.Debug("websocket read failed", "conn", wsConn.ID, "error", err)
			}
			return
		}
		ws.handleMessage(wsConn, message)
	}
}

// handleSend owns all writes to the connection, pings included
func (ws *WebSocketServer) handleSend(wsConn *WebSocketConnection) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		ws.closeConnection(wsConn)
	}()

	for {
		select {
		case <-wsConn.ctx.Done():
			return
		case message := <-wsConn.sendChannel:
			_ = wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := wsConn.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				ws.server.logger.Debug("websocket send failed", "conn", wsConn.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := wsConn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes one command: {"command": ..., "id": ..., fields...}
func (ws *WebSocketServer) handleMessage(wsConn *WebSocketConnection, message []byte) {
	var cmdMap map[string]interface{}
	if err := json.Unmarshal(message, &cmdMap); err != nil {
		ws.sendError(wsConn, rpc_types.RpcErrorInvalidParams("Invalid JSON: "+err.Error()), nil)
		return
	}

	id := cmdMap["id"]
	command, ok := cmdMap["command"].(string)
	if !ok || command == "" {
		ws.sendError(wsConn, rpc_types.RpcErrorMissingCommand(), id)
		return
	}
	delete(cmdMap, "command")
	delete(cmdMap, "id")

	apiVersion := rpc_types.DefaultApiVersion
	if ver, ok := cmdMap["api_version"].(float64); ok {
		apiVersion = int(ver)
	}
	delete(cmdMap, "api_version")

	var params json.RawMessage
	if len(cmdMap) > 0 {
		params, _ = json.Marshal(cmdMap)
	}

	ctx := &rpc_types.RpcContext{
		Context:    wsConn.ctx,
		Role:       wsConn.role,
		ApiVersion: apiVersion,
		IsAdmin:    wsConn.role == rpc_types.RoleAdmin,
		ClientIP:   wsConn.clientIP,
		Services:   ws.server.services,
	}

	var (
		result interface{}
		rpcErr *rpc_types.RpcError
	)
	switch command {
	case "subscribe":
		result, rpcErr = ws.handleSubscribe(wsConn, params, true)
	case "unsubscribe":
		result, rpcErr = ws.handleSubscribe(wsConn, params, false)
	default:
		result, rpcErr = ws.server.executeMethod(command, params, ctx)
	}

	if rpcErr != nil {
		ws.sendError(wsConn, rpcErr, id)
		return
	}
	ws.sendResponse(wsConn, rpc_types.WebSocketResponse{
		Type:       "response",
		ID:         id,
		Status:     "success",
		Result:     result,
		ApiVersion: apiVersion,
	})
}

func (ws *WebSocketServer) handleSubscribe(wsConn *WebSocketConnection, params json.RawMessage, subscribe bool) (interface{}, *rpc_types.RpcError) {
	var request rpc_types.SubscriptionRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &request); err != nil {
			return nil, rpc_types.RpcErrorInvalidParams("Invalid subscription parameters")
		}
	}

	if subscribe {
		if rpcErr := ws.subscriptions.HandleSubscribe(wsConn.ID, request); rpcErr != nil {
			return nil, rpcErr
		}
		result := map[string]interface{}{}
		for _, s := range request.Streams {
			if s == rpc_types.SubLedger {
				svc := ws.server.services.Ledger
				info := svc.GetServerInfo()
				result["ledger_index"] = info.ValidatedLedgerSeq
				result["ledger_current_index"] = svc.GetCurrentLedgerIndex()
			}
		}
		return result, nil
	}

	if rpcErr := ws.subscriptions.HandleUnsubscribe(wsConn.ID, request); rpcErr != nil {
		return nil, rpcErr
	}
	return map[string]interface{}{}, nil
}

func (ws *WebSocketServer) sendResponse(wsConn *WebSocketConnection, response interface{}) {
	data, err := json.Marshal(response)
	if err != nil {
		ws.server.logger.Error("failed to marshal websocket response", "error", err)
		return
	}
	ws.enqueue(wsConn, data)
}

// sendError sends an error reply with the error fields at top level
func (ws *WebSocketServer) sendError(wsConn *WebSocketConnection, rpcErr *rpc_types.RpcError, id interface{}) {
	response := map[string]interface{}{
		"type":          "response",
		"status":        "error",
		"error":         rpcErr.ErrorString,
		"error_code":    rpcErr.Code,
		"error_message": rpcErr.Message,
	}
	if id != nil {
		response["id"] = id
	}
	ws.sendResponse(wsConn, response)
}

func (ws *WebSocketServer) enqueue(wsConn *WebSocketConnection, data []byte) {
	select {
	case wsConn.sendChannel <- data:
	case <-wsConn.ctx.Done():
	default:
		ws.server.logger.Warn("websocket send queue full, closing", "conn", wsConn.ID)
		ws.closeConnection(wsConn)
	}
}

// closeConnection tears a connection down once
func (ws *WebSocketServer) closeConnection(wsConn *WebSocketConnection) {
	wsConn.closeOnce.Do(func() {
		wsConn.cancel()

		ws.mu.Lock()
		delete(ws.connections, wsConn.ID)
		ws.mu.Unlock()
		ws.subscriptions.RemoveConnection(wsConn.ID)

		_ = wsConn.conn.Close()
		ws.server.logger.Debug("websocket connection closed", "conn", wsConn.ID)
	})
}

// Close closes every open connection
func (ws *WebSocketServer) Close() {
	ws.mu.RLock()
	conns := make([]*WebSocketConnection, 0, len(ws.connections))
	for _, c := range ws.connections {
		conns = append(conns, c)
	}
	ws.mu.RUnlock()

	for _, c := range conns {
		ws.closeConnection(c)
	}
}
