package builders

import (
	"github.com/LeJamon/carbond/internal/core/tx"
	"github.com/LeJamon/carbond/internal/core/tx/validation"
)

// ValidateBuilder builds ValidateCredits transactions.
type ValidateBuilder struct {
	common
	validator Party
	issuer    Party
}

// Validate endorses issuer's current issuance on behalf of validator.
func Validate(validator, issuer Party) *ValidateBuilder {
	return &ValidateBuilder{validator: validator, issuer: issuer}
}

func (b *ValidateBuilder) Sequence(seq uint32) *ValidateBuilder {
	b.sequence = &seq
	return b
}

func (b *ValidateBuilder) Memo(m string) *ValidateBuilder {
	b.memo = m
	return b
}

// Build constructs the transaction.
func (b *ValidateBuilder) Build() tx.Transaction {
	return b.apply(validation.NewValidateCredits(b.validator.Address(), b.issuer.Address()))
}
