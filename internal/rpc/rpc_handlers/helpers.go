package rpc_handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
	"github.com/LeJamon/carbond/internal/crypto"
	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

// ledgerService returns the ledger service from the request context
func ledgerService(ctx *rpc_types.RpcContext) (rpc_types.LedgerService, *rpc_types.RpcError) {
	if ctx == nil || ctx.Services == nil || ctx.Services.Ledger == nil {
		return nil, rpc_types.RpcErrorInternal("Ledger service not initialized")
	}
	return ctx.Services.Ledger, nil
}

// parseParams decodes params into v. Empty params leave v untouched.
func parseParams(params json.RawMessage, v interface{}) *rpc_types.RpcError {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return rpc_types.RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}

// parsePrincipal validates a required principal field
func parsePrincipal(field, value string) (principal.Principal, *rpc_types.RpcError) {
	if value == "" {
		return "", rpc_types.RpcErrorMissingField(field)
	}
	p := principal.Principal(strings.TrimSpace(value))
	if err := p.Validate(); err != nil {
		return "", rpc_types.RpcErrorActMalformed("Invalid field '" + field + "': " + err.Error())
	}
	return p, nil
}

// Amount is a credit quantity given either as a JSON number or as a
// decimal string.
type Amount uint64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return errors.New("amount must be a non-negative integer")
	}
	*a = Amount(v)
	return nil
}

// txCommonParams are accepted by every transaction-building method
type txCommonParams struct {
	Account  string `json:"account"`
	Secret   string `json:"secret,omitempty"`
	Sequence uint32 `json:"sequence,omitempty"`
	Memo     string `json:"memo,omitempty"`
}

// submitTx fills the common fields, signs when a secret is given and
// applies t to the open ledger.
func submitTx(ctx *rpc_types.RpcContext, t tx.Transaction, p txCommonParams) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	common := t.GetCommon()
	common.Memo = p.Memo
	common.Sequence = p.Sequence

	if p.Secret != "" {
		key, err := crypto.KeyPairFromHex(p.Secret)
		if err != nil {
			return nil, rpc_types.RpcErrorBadSecret()
		}
		if principal.FromPublicKey(key.PublicKey()) != common.Account {
			return nil, rpc_types.RpcErrorBadSecret()
		}
		if common.Sequence == 0 {
			info, err := svc.GetAccountInfo(common.Account)
			if err != nil {
				return nil, rpc_types.FromServiceError(err)
			}
			common.Sequence = info.Sequence
		}
		if err := tx.Sign(t, key); err != nil {
			return nil, rpc_types.RpcErrorInternal("Failed to sign transaction: " + err.Error())
		}
	}

	result, err := svc.Submit(t)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	return transactionResponse(result), nil
}

// transactionResponse renders a submit result in engine_result form
func transactionResponse(r *service.SubmitResult) map[string]interface{} {
	resp := map[string]interface{}{
		"engine_result":         r.Result.String(),
		"engine_result_code":    int(r.Result),
		"engine_result_message": r.Result.Message(),
		"applied":               r.Applied,
		"hash":                  service.FormatHash(r.Hash),
		"ledger_index":          r.LedgerIndex,
	}
	if len(r.TxJSON) > 0 {
		resp["tx_json"] = json.RawMessage(r.TxJSON)
	}
	if r.Applied {
		resp["tx_index"] = r.TxIndex
		if len(r.MetaJSON) > 0 {
			resp["meta"] = json.RawMessage(r.MetaJSON)
		}
	}
	return resp
}

// parseTxJSON decodes a transaction object and checks its structure
func parseTxJSON(raw json.RawMessage) (tx.Transaction, *rpc_types.RpcError) {
	if len(raw) == 0 {
		return nil, rpc_types.RpcErrorMissingField("tx_json")
	}
	t, err := tx.FromJSON(raw)
	if err != nil {
		return nil, rpc_types.RpcErrorTxnMalformed("Invalid tx_json: " + err.Error())
	}
	return t, nil
}

// LedgerSelector picks a ledger by hash, index or shortcut name
type LedgerSelector struct {
	LedgerHash  string          `json:"ledger_hash,omitempty"`
	LedgerIndex json.RawMessage `json:"ledger_index,omitempty"`
}

// resolveLedger returns the selected ledger, the validated one by default
func resolveLedger(svc rpc_types.LedgerService, sel LedgerSelector) (*ledger.Ledger, *rpc_types.RpcError) {
	if sel.LedgerHash != "" {
		h, err := service.ParseHash(sel.LedgerHash)
		if err != nil {
			return nil, rpc_types.RpcErrorInvalidField("ledger_hash")
		}
		l, err := svc.GetLedgerByHash(h)
		if err != nil {
			return nil, rpc_types.FromServiceError(err)
		}
		return l, nil
	}

	seq := svc.GetValidatedLedgerIndex()
	if len(sel.LedgerIndex) > 0 {
		var name string
		var num uint32
		switch {
		case json.Unmarshal(sel.LedgerIndex, &num) == nil:
			seq = num
		case json.Unmarshal(sel.LedgerIndex, &name) == nil:
			switch name {
			case "validated", "closed":
				seq = svc.GetValidatedLedgerIndex()
			case "current":
				seq = svc.GetCurrentLedgerIndex()
			default:
				n, err := strconv.ParseUint(name, 10, 32)
				if err != nil {
					return nil, rpc_types.RpcErrorInvalidField("ledger_index")
				}
				seq = uint32(n)
			}
		default:
			return nil, rpc_types.RpcErrorInvalidField("ledger_index")
		}
	}

	l, err := svc.GetLedgerBySequence(seq)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	return l, nil
}
