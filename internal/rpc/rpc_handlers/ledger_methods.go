package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

// LedgerAcceptMethod handles ledger_accept.
// It closes and validates the open ledger. Standalone mode only.
type LedgerAcceptMethod struct{}

func (m *LedgerAcceptMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if !svc.IsStandalone() {
		return nil, rpc_types.RpcErrorNotStandalone("ledger_accept is only available in standalone mode")
	}

	closedSeq, err := svc.AcceptLedger()
	if err != nil {
		// The ledger still rotates when only persistence failed.
		if closedSeq == 0 {
			return nil, rpc_types.RpcErrorInternal("Failed to accept ledger: " + err.Error())
		}
		return map[string]interface{}{
			"ledger_current_index": closedSeq + 1,
			"warning":              err.Error(),
		}, nil
	}

	return map[string]interface{}{
		"ledger_current_index": closedSeq + 1,
	}, nil
}

func (m *LedgerAcceptMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleAdmin }

func (m *LedgerAcceptMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// LedgerMethod handles ledger: the header of one ledger, optionally with
// its transactions.
type LedgerMethod struct{}

func (m *LedgerMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var request struct {
		LedgerSelector
		Transactions bool `json:"transactions,omitempty"`
		Expand       bool `json:"expand,omitempty"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	l, rpcErr := resolveLedger(svc, request.LedgerSelector)
	if rpcErr != nil {
		return nil, rpcErr
	}

	obj := ledgerObject(l)
	if request.Transactions {
		entries := l.Transactions()
		if request.Expand {
			txs := make([]map[string]interface{}, len(entries))
			for i, e := range entries {
				txs[i] = map[string]interface{}{
					"hash":          service.FormatHash(e.Hash),
					"tx_index":      e.Index,
					"engine_result": e.Result,
					"tx_json":       json.RawMessage(nonEmptyJSON(e.Blob)),
					"meta":          json.RawMessage(nonEmptyJSON(e.Meta)),
				}
			}
			obj["transactions"] = txs
		} else {
			hashes := make([]string, len(entries))
			for i, e := range entries {
				hashes[i] = service.FormatHash(e.Hash)
			}
			obj["transactions"] = hashes
		}
	}

	resp := map[string]interface{}{
		"ledger":       obj,
		"ledger_index": l.Sequence(),
		"validated":    l.IsValidated(),
	}
	if l.IsClosed() {
		resp["ledger_hash"] = service.FormatHash(l.Hash())
	}
	return resp, nil
}

func (m *LedgerMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *LedgerMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// LedgerCurrentMethod handles ledger_current
type LedgerCurrentMethod struct{}

func (m *LedgerCurrentMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return map[string]interface{}{
		"ledger_current_index": svc.GetCurrentLedgerIndex(),
	}, nil
}

func (m *LedgerCurrentMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *LedgerCurrentMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// LedgerClosedMethod handles ledger_closed
type LedgerClosedMethod struct{}

func (m *LedgerClosedMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	info := svc.GetServerInfo()
	return map[string]interface{}{
		"ledger_hash":  service.FormatHash(info.ClosedLedgerHash),
		"ledger_index": info.ClosedLedgerSeq,
	}, nil
}

func (m *LedgerClosedMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *LedgerClosedMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func ledgerObject(l *ledger.Ledger) map[string]interface{} {
	h := l.Header()
	obj := map[string]interface{}{
		"ledger_index": h.LedgerIndex,
		"parent_hash":  service.FormatHash(h.ParentHash),
		"closed":       l.IsClosed(),
		"tx_count":     l.TxCount(),
	}
	if l.IsClosed() {
		obj["ledger_hash"] = service.FormatHash(h.Hash)
		obj["account_hash"] = service.FormatHash(h.StateHash)
		obj["transaction_hash"] = service.FormatHash(h.TxHash)
		obj["close_time"] = h.CloseTime.Unix()
		obj["close_time_human"] = h.CloseTime.UTC().Format("2006-Jan-02 15:04:05.000000000 UTC")
		obj["parent_close_time"] = h.ParentCloseTime.Unix()
	}
	return obj
}
