// Package builders provides fluent transaction builders for credit ledger
// tests.
//
//	builders.AddIssuer(admin, issuer).Build()
//	builders.Issue(issuer, 1000, "Solar Project").Price(2000).Build()
//	builders.Transfer(issuer, buyer, 500).Memo("invoice 7").Build()
//	builders.Retire(buyer, 300).Build()
//	builders.Validate(validator, issuer).Build()
//	builders.SetPrice(issuer, 2500).Sequence(4).Build()
//
// Builders accept any Party, which *testing.Account satisfies.
package builders

import (
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// Party is anything that has a principal.
type Party interface {
	Address() principal.Principal
}

// common holds the fields every builder can set.
type common struct {
	sequence *uint32
	memo     string
}

func (c *common) apply(t tx.Transaction) tx.Transaction {
	fields := t.GetCommon()
	if c.sequence != nil {
		fields.Sequence = *c.sequence
	}
	if c.memo != "" {
		fields.Memo = c.memo
	}
	return t
}
