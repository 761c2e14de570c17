package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

// GetCreditBalanceMethod handles get_credit_balance. Unknown accounts hold 0.
type GetCreditBalanceMethod struct{}

func (m *GetCreditBalanceMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var request struct {
		Account string `json:"account"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}

	balance, err := svc.GetCreditBalance(account)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	return map[string]interface{}{
		"account":              account,
		"balance":              balance,
		"ledger_current_index": svc.GetCurrentLedgerIndex(),
	}, nil
}

func (m *GetCreditBalanceMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *GetCreditBalanceMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// GetTotalCreditsRetiredMethod handles get_total_credits_retired
type GetTotalCreditsRetiredMethod struct{}

func (m *GetTotalCreditsRetiredMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	totals, err := svc.GetTotals()
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	return map[string]interface{}{
		"total_retired":        totals.Retired,
		"total_issued":         totals.Issued,
		"ledger_current_index": svc.GetCurrentLedgerIndex(),
	}, nil
}

func (m *GetTotalCreditsRetiredMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *GetTotalCreditsRetiredMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// GetIssuerDataMethod handles get_issuer_data. An issuer without an issuance
// record yields "issuer_data": null rather than an error.
type GetIssuerDataMethod struct{}

func (m *GetIssuerDataMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var request struct {
		Issuer string `json:"issuer"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	issuer, rpcErr := parsePrincipal("issuer", request.Issuer)
	if rpcErr != nil {
		return nil, rpcErr
	}

	data, err := svc.GetIssuerData(issuer)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	return map[string]interface{}{
		"issuer":      issuer,
		"issuer_data": data,
	}, nil
}

func (m *GetIssuerDataMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *GetIssuerDataMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// GetCreditPriceMethod handles get_credit_price
type GetCreditPriceMethod struct{}

func (m *GetCreditPriceMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var request struct {
		Issuer string `json:"issuer"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	issuer, rpcErr := parsePrincipal("issuer", request.Issuer)
	if rpcErr != nil {
		return nil, rpcErr
	}

	price, err := svc.GetCreditPrice(issuer)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	return map[string]interface{}{
		"issuer": issuer,
		"price":  price,
	}, nil
}

func (m *GetCreditPriceMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *GetCreditPriceMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

// AccountInfoMethod handles account_info
type AccountInfoMethod struct{}

func (m *AccountInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	svc, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}
	var request struct {
		Account string `json:"account"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	account, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}

	info, err := svc.GetAccountInfo(account)
	if err != nil {
		return nil, rpc_types.FromServiceError(err)
	}
	return map[string]interface{}{
		"account_data": map[string]interface{}{
			"Account":  info.Principal,
			"Balance":  info.Balance,
			"Sequence": info.Sequence,
		},
		"exists":               info.Exists,
		"is_issuer":            info.IsIssuer,
		"is_validator":         info.IsValidator,
		"ledger_current_index": svc.GetCurrentLedgerIndex(),
	}, nil
}

func (m *AccountInfoMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *AccountInfoMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }
