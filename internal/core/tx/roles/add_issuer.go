// Package roles implements the admin transactions that grow the issuer
// and validator registries.
package roles

import (
	"fmt"

	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeAddIssuer, func() tx.Transaction {
		return &AddIssuer{BaseTx: *tx.NewBaseTx(tx.TypeAddIssuer, "")}
	})
}

// AddIssuer registers Target as an issuer. Only the ledger admin may submit it.
type AddIssuer struct {
	tx.BaseTx

	Target principal.Principal `json:"Target" codec:"target"`
}

// NewAddIssuer creates a new AddIssuer transaction
func NewAddIssuer(admin, target principal.Principal) *AddIssuer {
	return &AddIssuer{
		BaseTx: *tx.NewBaseTx(tx.TypeAddIssuer, admin),
		Target: target,
	}
}

// TxType returns the transaction type
func (a *AddIssuer) TxType() tx.Type {
	return tx.TypeAddIssuer
}

// Validate checks the transaction is well formed
func (a *AddIssuer) Validate() error {
	if err := a.BaseTx.Validate(); err != nil {
		return err
	}
	return validateTarget(a.Target)
}

// Apply adds Target to the issuer registry. Re-adding is a no-op success.
func (a *AddIssuer) Apply(ctx *tx.ApplyContext) tx.Result {
	return addRole(ctx, keylet.Issuer(a.Target.ID()), a.Target)
}

func validateTarget(target principal.Principal) error {
	if target == "" {
		return fmt.Errorf("temBAD_PRINCIPAL: %w: Target", tx.ErrMissingRequiredField)
	}
	if err := target.Validate(); err != nil {
		return fmt.Errorf("temBAD_PRINCIPAL: Target: %v", err)
	}
	return nil
}

func addRole(ctx *tx.ApplyContext, k keylet.Keylet, target principal.Principal) tx.Result {
	if ctx.Config.Admin == "" || ctx.Account != ctx.Config.Admin {
		return tx.TecUNAUTHORIZED
	}
	if _, err := ctx.AddRole(k, target); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
