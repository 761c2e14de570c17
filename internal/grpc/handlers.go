package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// LedgerService is the part of the ledger service the gRPC handlers use.
// This interface is implemented by *service.Service.
type LedgerService interface {
	Submit(t tx.Transaction) (*service.SubmitResult, error)
	GetCreditBalance(p principal.Principal) (uint64, error)
	GetTotals() (entry.Totals, error)
	GetIssuerData(issuer principal.Principal) (*service.IssuerData, error)
	GetCreditPrice(issuer principal.Principal) (uint64, error)
	GetCurrentLedgerIndex() uint32
	RequiresSignatures() bool
}

var _ LedgerService = (*service.Service)(nil)

type creditLedger struct {
	ledger  LedgerService
	trusted func(ctx context.Context) bool
}

// GetCreditBalance: {"account"} -> {"account", "balance", "ledger_current_index"}
func (h *creditLedger) GetCreditBalance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	account, err := principalField(req, "account")
	if err != nil {
		return nil, err
	}
	balance, err := h.ledger.GetCreditBalance(account)
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]interface{}{
		"account":              string(account),
		"balance":              amount(balance),
		"ledger_current_index": float64(h.ledger.GetCurrentLedgerIndex()),
	})
}

// GetTotalCreditsRetired: {} -> {"total_retired", "total_issued", "ledger_current_index"}
func (h *creditLedger) GetTotalCreditsRetired(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	totals, err := h.ledger.GetTotals()
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]interface{}{
		"total_retired":        amount(totals.Retired),
		"total_issued":         amount(totals.Issued),
		"ledger_current_index": float64(h.ledger.GetCurrentLedgerIndex()),
	})
}

// GetIssuerData: {"issuer"} -> issuance record. NotFound if the issuer never issued.
func (h *creditLedger) GetIssuerData(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	issuer, err := principalField(req, "issuer")
	if err != nil {
		return nil, err
	}
	data, err := h.ledger.GetIssuerData(issuer)
	if err != nil {
		return nil, toStatus(err)
	}
	if data == nil {
		return nil, status.Errorf(codes.NotFound, "no issuance record for %s", issuer)
	}

	validators := make([]interface{}, len(data.Validators))
	for i, v := range data.Validators {
		validators[i] = string(v)
	}
	return newStruct(map[string]interface{}{
		"issuer":         string(data.Issuer),
		"amount":         amount(data.Amount),
		"project_label":  data.ProjectLabel,
		"price":          amount(data.Price),
		"validations":    float64(data.Validations),
		"validators":     validators,
		"total_issued":   amount(data.TotalIssued),
		"issuance_count": float64(data.IssuanceCount),
		"ledger_index":   float64(data.LedgerIndex),
	})
}

// GetCreditPrice: {"issuer"} -> {"issuer", "price"}
func (h *creditLedger) GetCreditPrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	issuer, err := principalField(req, "issuer")
	if err != nil {
		return nil, err
	}
	price, err := h.ledger.GetCreditPrice(issuer)
	if err != nil {
		return nil, toStatus(err)
	}
	return newStruct(map[string]interface{}{
		"issuer": string(issuer),
		"price":  amount(price),
	})
}

// Submit: {"tx_json"} -> engine result. A rejected transaction is a
// successful call whose engine_result says why.
func (h *creditLedger) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// without signatures the Account field is unproven
	if !h.ledger.RequiresSignatures() && !h.trusted(ctx) {
		return nil, status.Error(codes.PermissionDenied, "unsigned submission requires an admin peer")
	}

	raw, err := jsonField(req, "tx_json")
	if err != nil {
		return nil, err
	}
	t, err := tx.FromJSON(raw)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid tx_json: %v", err)
	}

	result, err := h.ledger.Submit(t)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := map[string]interface{}{
		"engine_result":         result.Result.String(),
		"engine_result_code":    float64(result.Result),
		"engine_result_message": result.Result.Message(),
		"applied":               result.Applied,
		"hash":                  service.FormatHash(result.Hash),
		"ledger_index":          float64(result.LedgerIndex),
	}
	if result.Applied {
		resp["tx_index"] = float64(result.TxIndex)
	}
	return newStruct(resp)
}
