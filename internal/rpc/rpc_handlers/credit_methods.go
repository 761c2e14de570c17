package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/carbond/internal/core/tx/credit"
	"github.com/LeJamon/carbond/internal/core/tx/roles"
	"github.com/LeJamon/carbond/internal/core/tx/validation"
	"github.com/LeJamon/carbond/internal/rpc/rpc_types"
)

// AddIssuerMethod handles add_issuer. The caller must be the ledger admin.
type AddIssuerMethod struct{}

func (m *AddIssuerMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		txCommonParams
		Issuer string `json:"issuer"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	target, rpcErr := parsePrincipal("issuer", request.Issuer)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return submitTx(ctx, roles.NewAddIssuer(caller, target), request.txCommonParams)
}

func (m *AddIssuerMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *AddIssuerMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *AddIssuerMethod) WritesLedger() bool { return true }

// AddValidatorMethod handles add_validator. The caller must be the ledger admin.
type AddValidatorMethod struct{}

func (m *AddValidatorMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		txCommonParams
		Validator string `json:"validator"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	target, rpcErr := parsePrincipal("validator", request.Validator)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return submitTx(ctx, roles.NewAddValidator(caller, target), request.txCommonParams)
}

func (m *AddValidatorMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *AddValidatorMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *AddValidatorMethod) WritesLedger() bool { return true }

// IssueCreditsMethod handles issue_credits
type IssueCreditsMethod struct{}

func (m *IssueCreditsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		txCommonParams
		Amount       *Amount `json:"amount"`
		ProjectLabel string  `json:"project_label"`
		Price        *Amount `json:"price,omitempty"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Amount == nil {
		return nil, rpc_types.RpcErrorMissingField("amount")
	}

	t := credit.NewIssueCredits(caller, uint64(*request.Amount), request.ProjectLabel)
	if request.Price != nil {
		t.WithPrice(uint64(*request.Price))
	}
	return submitTx(ctx, t, request.txCommonParams)
}

func (m *IssueCreditsMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *IssueCreditsMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *IssueCreditsMethod) WritesLedger() bool { return true }

// TransferCreditsMethod handles transfer_credits. "from" defaults to the caller.
type TransferCreditsMethod struct{}

func (m *TransferCreditsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		txCommonParams
		From        string  `json:"from,omitempty"`
		Destination string  `json:"destination"`
		Amount      *Amount `json:"amount"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	to, rpcErr := parsePrincipal("destination", request.Destination)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Amount == nil {
		return nil, rpc_types.RpcErrorMissingField("amount")
	}

	t := credit.NewTransferCredits(caller, to, uint64(*request.Amount))
	if request.From != "" {
		from, rpcErr := parsePrincipal("from", request.From)
		if rpcErr != nil {
			return nil, rpcErr
		}
		t.From = from
	}
	return submitTx(ctx, t, request.txCommonParams)
}

func (m *TransferCreditsMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *TransferCreditsMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *TransferCreditsMethod) WritesLedger() bool { return true }

// RetireCreditsMethod handles retire_credits
type RetireCreditsMethod struct{}

func (m *RetireCreditsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		txCommonParams
		Amount *Amount `json:"amount"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Amount == nil {
		return nil, rpc_types.RpcErrorMissingField("amount")
	}
	return submitTx(ctx, credit.NewRetireCredits(caller, uint64(*request.Amount)), request.txCommonParams)
}

func (m *RetireCreditsMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *RetireCreditsMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *RetireCreditsMethod) WritesLedger() bool { return true }

// ValidateCreditsMethod handles validate_credits
type ValidateCreditsMethod struct{}

func (m *ValidateCreditsMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		txCommonParams
		Issuer string `json:"issuer"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	issuer, rpcErr := parsePrincipal("issuer", request.Issuer)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return submitTx(ctx, validation.NewValidateCredits(caller, issuer), request.txCommonParams)
}

func (m *ValidateCreditsMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *ValidateCreditsMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *ValidateCreditsMethod) WritesLedger() bool { return true }

// SetCreditPriceMethod handles set_credit_price
type SetCreditPriceMethod struct{}

func (m *SetCreditPriceMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		txCommonParams
		Price *Amount `json:"price"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	caller, rpcErr := parsePrincipal("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Price == nil {
		return nil, rpc_types.RpcErrorMissingField("price")
	}
	return submitTx(ctx, credit.NewSetCreditPrice(caller, uint64(*request.Price)), request.txCommonParams)
}

func (m *SetCreditPriceMethod) RequiredRole() rpc_types.Role { return rpc_types.RoleGuest }

func (m *SetCreditPriceMethod) SupportedApiVersions() []int { return rpc_types.AllApiVersions }

func (m *SetCreditPriceMethod) WritesLedger() bool { return true }
