// Package validation implements validator endorsement of issuances.
package validation

import (
	"fmt"

	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeValidateCredits, func() tx.Transaction {
		return &ValidateCredits{BaseTx: *tx.NewBaseTx(tx.TypeValidateCredits, "")}
	})
}

// ValidateCredits records the caller's endorsement of Issuer's current issuance.
type ValidateCredits struct {
	tx.BaseTx

	Issuer principal.Principal `json:"Issuer" codec:"issuer"`
}

// NewValidateCredits creates a new ValidateCredits transaction
func NewValidateCredits(validator, issuer principal.Principal) *ValidateCredits {
	return &ValidateCredits{
		BaseTx: *tx.NewBaseTx(tx.TypeValidateCredits, validator),
		Issuer: issuer,
	}
}

// TxType returns the transaction type
func (v *ValidateCredits) TxType() tx.Type {
	return tx.TypeValidateCredits
}

func (v *ValidateCredits) Validate() error {
	if err := v.BaseTx.Validate(); err != nil {
		return err
	}
	if v.Issuer == "" {
		return fmt.Errorf("temBAD_PRINCIPAL: %w: Issuer", tx.ErrMissingRequiredField)
	}
	if err := v.Issuer.Validate(); err != nil {
		return fmt.Errorf("temBAD_PRINCIPAL: Issuer: %v", err)
	}
	return nil
}

// Apply adds the caller to the issuance's validator set. The validator
// role is checked before the issuance lookup. Validating twice is a
// no-op success.
func (v *ValidateCredits) Apply(ctx *tx.ApplyContext) tx.Result {
	isValidator, err := ctx.IsValidator(ctx.Account)
	if err != nil {
		return tx.TefINTERNAL
	}
	if !isValidator {
		return tx.TecNOT_VALIDATOR
	}

	rec, err := ctx.ReadIssuance(v.Issuer)
	if err != nil {
		return tx.TefINTERNAL
	}
	if rec == nil {
		return tx.TecNO_ISSUANCE
	}

	if !rec.AddValidator(ctx.Account) {
		return tx.TesSUCCESS
	}
	if err := ctx.WriteIssuance(rec); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
