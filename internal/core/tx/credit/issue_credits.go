// Package credit implements the transactions that mint, move, retire and
// price carbon credits.
package credit

import (
	"errors"
	"math"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeIssueCredits, func() tx.Transaction {
		return &IssueCredits{BaseTx: *tx.NewBaseTx(tx.TypeIssueCredits, "")}
	})
}

// IssueCredits mints Amount credits to the issuing Account and records the
// issuance for its project.
type IssueCredits struct {
	tx.BaseTx

	Amount       uint64  `json:"Amount" codec:"amount"`
	ProjectLabel string  `json:"ProjectLabel" codec:"project_label"`
	Price        *uint64 `json:"Price,omitempty" codec:"price,omitempty"`
}

// NewIssueCredits creates a new IssueCredits transaction
func NewIssueCredits(issuer principal.Principal, amount uint64, label string) *IssueCredits {
	return &IssueCredits{
		BaseTx:       *tx.NewBaseTx(tx.TypeIssueCredits, issuer),
		Amount:       amount,
		ProjectLabel: label,
	}
}

// WithPrice sets the declared price per credit
func (i *IssueCredits) WithPrice(price uint64) *IssueCredits {
	i.Price = &price
	return i
}

// TxType returns the transaction type
func (i *IssueCredits) TxType() tx.Type {
	return tx.TypeIssueCredits
}

// Validate checks the transaction is well formed
func (i *IssueCredits) Validate() error {
	if err := i.BaseTx.Validate(); err != nil {
		return err
	}
	if i.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Preflight bounds the project label
func (i *IssueCredits) Preflight(cfg tx.EngineConfig) tx.Result {
	if len(i.ProjectLabel) > cfg.LabelLimit() {
		return tx.TemBAD_LABEL
	}
	return tx.TesSUCCESS
}

// Apply credits the issuer and creates or overwrites its issuance record.
func (i *IssueCredits) Apply(ctx *tx.ApplyContext) tx.Result {
	isIssuer, err := ctx.IsIssuer(ctx.Account)
	if err != nil {
		return tx.TefINTERNAL
	}
	if !isIssuer {
		return tx.TecNOT_ISSUER
	}

	totals, err := ctx.ReadTotals()
	if err != nil {
		return tx.TefINTERNAL
	}
	acct, err := ctx.ReadAccount(ctx.Account)
	if err != nil {
		return tx.TefINTERNAL
	}
	if totals.Issued > math.MaxUint64-i.Amount || acct.Balance > math.MaxUint64-i.Amount {
		return tx.TecAMOUNT_OVERFLOW
	}

	rec, err := ctx.ReadIssuance(ctx.Account)
	if err != nil {
		return tx.TefINTERNAL
	}
	if rec == nil {
		rec = &entry.Issuance{
			Issuer: ctx.Account,
			Price:  ctx.Config.DefaultCreditPrice,
		}
	}
	if rec.TotalIssued > math.MaxUint64-i.Amount {
		return tx.TecAMOUNT_OVERFLOW
	}

	rec.Amount = i.Amount
	rec.ProjectLabel = i.ProjectLabel
	if i.Price != nil {
		rec.Price = *i.Price
	}
	// endorsements belong to the issuance they were given for
	rec.ResetValidations()
	rec.TotalIssued += i.Amount
	rec.IssuanceCount++
	rec.LedgerSeq = ctx.Config.LedgerSequence

	acct.Balance += i.Amount
	totals.Issued += i.Amount

	if err := ctx.WriteIssuance(rec); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.WriteAccount(acct); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.WriteTotals(totals); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
