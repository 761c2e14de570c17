package roles

import (
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeAddValidator, func() tx.Transaction {
		return &AddValidator{BaseTx: *tx.NewBaseTx(tx.TypeAddValidator, "")}
	})
}

// AddValidator registers Target as a validator. Only the ledger admin may submit it.
type AddValidator struct {
	tx.BaseTx

	Target principal.Principal `json:"Target" codec:"target"`
}

// NewAddValidator creates a new AddValidator transaction
func NewAddValidator(admin, target principal.Principal) *AddValidator {
	return &AddValidator{
		BaseTx: *tx.NewBaseTx(tx.TypeAddValidator, admin),
		Target: target,
	}
}

// TxType returns the transaction type
func (a *AddValidator) TxType() tx.Type {
	return tx.TypeAddValidator
}

func (a *AddValidator) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	return validateTarget(a.Target)
}

func (a *AddValidator) Apply(ctx *tx.ApplyContext) tx.Result {
	return addRole(ctx, keylet.Validator(a.Target.ID()), a.Target)
}
