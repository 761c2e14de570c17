package credit

import (
	"errors"

	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeRetireCredits, func() tx.Transaction {
		return &RetireCredits{BaseTx: *tx.NewBaseTx(tx.TypeRetireCredits, "")}
	})
}

// RetireCredits permanently removes Amount credits from the caller's balance.
type RetireCredits struct {
	tx.BaseTx

	Amount uint64 `json:"Amount" codec:"amount"`
}

// NewRetireCredits creates a new RetireCredits transaction
func NewRetireCredits(holder principal.Principal, amount uint64) *RetireCredits {
	return &RetireCredits{
		BaseTx: *tx.NewBaseTx(tx.TypeRetireCredits, holder),
		Amount: amount,
	}
}

// TxType returns the transaction type
func (r *RetireCredits) TxType() tx.Type {
	return tx.TypeRetireCredits
}

func (r *RetireCredits) Validate() error {
	if err := r.BaseTx.Validate(); err != nil {
		return err
	}
	if r.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

// Apply debits the caller and adds to the retired total.
func (r *RetireCredits) Apply(ctx *tx.ApplyContext) tx.Result {
	acct, err := ctx.ReadAccount(ctx.Account)
	if err != nil {
		return tx.TefINTERNAL
	}
	if acct.Balance < r.Amount {
		return tx.TecINSUFFICIENT_BALANCE
	}

	totals, err := ctx.ReadTotals()
	if err != nil {
		return tx.TefINTERNAL
	}

	acct.Balance -= r.Amount
	totals.Retired += r.Amount

	if err := ctx.WriteAccount(acct); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.WriteTotals(totals); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
