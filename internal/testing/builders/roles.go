package builders

import (
	"github.com/LeJamon/carbond/internal/core/tx"
	"github.com/LeJamon/carbond/internal/core/tx/roles"
)

// RoleBuilder builds AddIssuer and AddValidator transactions.
type RoleBuilder struct {
	common
	admin     Party
	target    Party
	validator bool
}

// AddIssuer registers target as an issuer. admin is the caller.
func AddIssuer(admin, target Party) *RoleBuilder {
	return &RoleBuilder{admin: admin, target: target}
}

// AddValidator registers target as a validator. admin is the caller.
func AddValidator(admin, target Party) *RoleBuilder {
	return &RoleBuilder{admin: admin, target: target, validator: true}
}

// Sequence sets an explicit account sequence.
func (b *RoleBuilder) Sequence(seq uint32) *RoleBuilder {
	b.sequence = &seq
	return b
}

// Memo attaches a memo.
func (b *RoleBuilder) Memo(m string) *RoleBuilder {
	b.memo = m
	return b
}

// Build constructs the transaction.
func (b *RoleBuilder) Build() tx.Transaction {
	if b.validator {
		return b.apply(roles.NewAddValidator(b.admin.Address(), b.target.Address()))
	}
	return b.apply(roles.NewAddIssuer(b.admin.Address(), b.target.Address()))
}
