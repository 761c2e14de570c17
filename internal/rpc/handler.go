package rpc

import (
	"net/http"
)

// NewHandler routes the HTTP endpoints:
//
//	/, /rpc   JSON-RPC
//	/ws       WebSocket commands and subscriptions
//	/health   liveness
//	/metrics  Prometheus scrape, when metrics is non-nil
func NewHandler(s *Server, ws *WebSocketServer, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s)
	mux.Handle("/rpc", s)
	if ws != nil {
		mux.Handle("/ws", ws)
	}
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status, code := "ok", http.StatusOK
		if s.services.Ledger == nil || s.services.Ledger.GetCurrentLedgerIndex() == 0 {
			status, code = "starting", http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		_, _ = w.Write([]byte(`{"status":"` + status + `","service":"carbond"}`))
	})
	return mux
}
