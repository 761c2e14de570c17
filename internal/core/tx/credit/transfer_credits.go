package credit

import (
	"errors"
	"fmt"
	"math"

	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeTransferCredits, func() tx.Transaction {
		return &TransferCredits{BaseTx: *tx.NewBaseTx(tx.TypeTransferCredits, "")}
	})
}

// TransferCredits moves Amount credits from From to To. The caller must be From.
type TransferCredits struct {
	tx.BaseTx

	Amount uint64 `json:"Amount" codec:"amount"`

	// From defaults to Account when empty
	From principal.Principal `json:"From,omitempty" codec:"from,omitempty"`
	To   principal.Principal `json:"To" codec:"to"`
}

// NewTransferCredits creates a transfer from the caller's own balance
func NewTransferCredits(from, to principal.Principal, amount uint64) *TransferCredits {
	return &TransferCredits{
		BaseTx: *tx.NewBaseTx(tx.TypeTransferCredits, from),
		Amount: amount,
		From:   from,
		To:     to,
	}
}

// TxType returns the transaction type
func (t *TransferCredits) TxType() tx.Type {
	return tx.TypeTransferCredits
}

// Source returns the debited principal
func (t *TransferCredits) Source() principal.Principal {
	if t.From == "" {
		return t.Account
	}
	return t.From
}

// Validate checks the transaction is well formed
func (t *TransferCredits) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	if t.To == "" {
		return fmt.Errorf("temBAD_PRINCIPAL: %w: To", tx.ErrMissingRequiredField)
	}
	if err := t.To.Validate(); err != nil {
		return fmt.Errorf("temBAD_PRINCIPAL: To: %v", err)
	}
	if t.From != "" {
		if err := t.From.Validate(); err != nil {
			return fmt.Errorf("temBAD_PRINCIPAL: From: %v", err)
		}
	}
	return nil
}

// Apply debits From and credits To.
func (t *TransferCredits) Apply(ctx *tx.ApplyContext) tx.Result {
	from := t.Source()
	if from != ctx.Account {
		return tx.TecUNAUTHORIZED
	}

	src, err := ctx.ReadAccount(from)
	if err != nil {
		return tx.TefINTERNAL
	}
	if src.Balance < t.Amount {
		return tx.TecINSUFFICIENT_BALANCE
	}
	if t.To == from {
		return tx.TesSUCCESS
	}

	dst, err := ctx.ReadAccount(t.To)
	if err != nil {
		return tx.TefINTERNAL
	}
	if dst.Balance > math.MaxUint64-t.Amount {
		return tx.TecAMOUNT_OVERFLOW
	}

	src.Balance -= t.Amount
	dst.Balance += t.Amount

	if err := ctx.WriteAccount(src); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.WriteAccount(dst); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
