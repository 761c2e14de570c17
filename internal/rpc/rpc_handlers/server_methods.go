package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

// ServerInfoMethod handles server_info
type ServerInfoMethod struct {
	Version string
}

func (m *ServerInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	info := svc.GetServerInfo()

	state := "full"
	if info.Standalone {
		state = "standalone"
	}
	infoObj := map[string]interface{}{
		"build_version":      m.Version,
		"server_state":       state,
		"standalone":         info.Standalone,
		"require_signatures": info.RequireSignatures,
		"admin":              info.Admin,
		"complete_ledgers":   info.CompleteLedgers,
		"uptime":             int64(info.Uptime.Seconds()),
		"open_ledger": map[string]interface{}{
			"seq": info.OpenLedgerSeq,
		},
		"closed_ledger": map[string]interface{}{
			"seq":  info.ClosedLedgerSeq,
			"hash": service.FormatHash(info.ClosedLedgerHash),
		},
		"validated_ledger": map[string]interface{}{
			"seq":  info.ValidatedLedgerSeq,
			"hash": service.FormatHash(info.ValidatedLedgerHash),
		},
		"ledger_cache": map[string]interface{}{
			"size":     info.Cache.Size,
			"hits":     info.Cache.Hits,
			"misses":   info.Cache.Misses,
			"hit_rate": info.Cache.HitRate,
		},
	}
	if totals, err := svc.GetTotals(); err == nil {
		infoObj["credits"] = map[string]interface{}{
			"issued":      totals.Issued,
			"retired":     totals.Retired,
			"outstanding": totals.Issued - totals.Retired,
		}
	}

	return map[string]interface{}{
		"info": infoObj,
	}, nil
}

func (m *ServerInfoMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *ServerInfoMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// PingMethod handles ping
type PingMethod struct{}

func (m *PingMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	resp := map[string]interface{}{}
	if ctx != nil && ctx.Role == rpc_types.RoleAdmin {
		resp["role"] = "admin"
	}
	return resp, nil
}

func (m *PingMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *PingMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }
