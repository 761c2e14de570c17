package rpc_handlers

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

// SubmitMethod handles submit. tx_json carries a complete transaction,
// signed or not; with "secret" the server signs it first.
type SubmitMethod struct{}

func (m *SubmitMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		TxJSON json.RawMessage `json:"tx_json"`
		Secret string          `json:"secret,omitempty"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	t, rpcErr := parseTxJSON(request.TxJSON)
	if rpcErr != nil {
		return nil, rpcErr
	}
	common := t.GetCommon()
	return submitTx(ctx, t, txCommonParams{
		Account:  string(common.Account),
		Secret:   request.Secret,
		Sequence: common.Sequence,
		Memo:     common.Memo,
	})
}

func (m *SubmitMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *SubmitMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *SubmitMethod) WritesLedger() bool { return true }

// SubmitBatchMethod handles submit_batch: every transaction is applied in
// order to the open ledger, then the ledger is closed. Each transaction
// gets its own result; a failure does not stop the ones after it.
type SubmitBatchMethod struct{}

// MaxBatchSize bounds the number of transactions in one submit_batch
const MaxBatchSize = 1000

func (m *SubmitBatchMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var request struct {
		Transactions []json.RawMessage `json:"transactions"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Transactions == nil {
		return nil, rpc_types.RpcErrorMissingField("transactions")
	}
	if len(request.Transactions) > MaxBatchSize {
		return nil, rpc_types.RpcErrorInvalidParams(fmt.Sprintf("At most %d transactions per batch.", MaxBatchSize))
	}

	txs := make([]tx.Transaction, 0, len(request.Transactions))
	for i, raw := range request.Transactions {
		t, rpcErr := parseTxJSON(raw)
		if rpcErr != nil {
			rpcErr.Message = fmt.Sprintf("transactions[%d]: %s", i, rpcErr.Message)
			return nil, rpcErr
		}
		if err := t.GetCommon().Account.Validate(); err != nil {
			return nil, rpc_types.RpcErrorActMalformed(fmt.Sprintf("transactions[%d]: %v", i, err))
		}
		txs = append(txs, t)
	}

	batch, err := svc.SubmitBatch(txs)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}

	results := make([]map[string]interface{}, len(batch.Results))
	for i, r := range batch.Results {
		results[i] = transactionResponse(r)
	}
	return map[string]interface{}{
		"ledger_index":  batch.LedgerIndex,
		"ledger_hash":   service.FormatHash(batch.LedgerHash),
		"applied_count": batch.AppliedCount,
		"failed_count":  batch.FailedCount,
		"results":       results,
	}, nil
}

func (m *SubmitBatchMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *SubmitBatchMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *SubmitBatchMethod) WritesLedger() bool { return true }

// TxMethod handles tx: a transaction looked up by hash
type TxMethod struct{}

func (m *TxMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var request struct {
		Transaction string `json:"transaction"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	if request.Transaction == "" {
		return nil, rpc_types.RpcErrorMissingField("transaction")
	}
	hash, err := service.ParseHash(request.Transaction)
	if err != nil {
		return nil, rpc_types.NewRpcError(rpc_types.RpcINVALID_HASH, "invalidHash", "invalidHash", "Transaction hash is malformed.")
	}

	result, err := svc.GetTransaction(hash)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	return txResultObject(result), nil
}

func (m *TxMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *TxMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// AccountTxMethod handles account_tx: the newest transactions sent by an account
type AccountTxMethod struct{}

const (
	defaultAccountTxLimit = 200
	maxAccountTxLimit     = 400
)

func (m *AccountTxMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var request struct {
		Account string `json:"account"`
		Limit   int    `json:"limit,omitempty"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	limit := request.Limit
	if limit <= 0 {
		limit = defaultAccountTxLimit
	}
	if limit > maxAccountTxLimit {
		limit = maxAccountTxLimit
	}

	results, err := svc.GetAccountTransactions(account, limit)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	txs := make([]map[string]interface{}, len(results))
	for i, r := range results {
		txs[i] = txResultObject(r)
	}
	return map[string]interface{}{
		"account":      account,
		"limit":        limit,
		"transactions": txs,
	}, nil
}

func (m *AccountTxMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *AccountTxMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func txResultObject(r *service.TransactionResult) map[string]interface{} {
	obj := map[string]interface{}{
		"hash":             service.FormatHash(r.Hash),
		"ledger_index":     r.LedgerIndex,
		"tx_index":         r.TxIndex,
		"TransactionType":  r.Type,
		"Account":          principal.Principal(r.Account),
		"engine_result":    r.Result,
		"validated":        r.Validated,
		"tx_json":          json.RawMessage(nonEmptyJSON(r.TxJSON)),
		"meta":             json.RawMessage(nonEmptyJSON(r.MetaJSON)),
	}
	return obj
}

func nonEmptyJSON(b []byte) []byte {
	if len(b) == 0 {
		return []byte("null")
	}
	return b
}
