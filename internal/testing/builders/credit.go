package builders

import (
	"github.com/LeJamon/carbond/internal/core/tx"
	"github.com/LeJamon/carbond/internal/core/tx/credit"
)

// IssueBuilder builds IssueCredits transactions.
type IssueBuilder struct {
	common
	issuer Party
	amount uint64
	label  string
	price  *uint64
}

// Issue creates credits for issuer under a project label.
func Issue(issuer Party, amount uint64, label string) *IssueBuilder {
	return &IssueBuilder{issuer: issuer, amount: amount, label: label}
}

// Price declares the price per credit. Without it the record keeps its
// current price, or the ledger default for a first issuance.
func (b *IssueBuilder) Price(p uint64) *IssueBuilder {
	b.price = &p
	return b
}

func (b *IssueBuilder) Sequence(seq uint32) *IssueBuilder {
	b.sequence = &seq
	return b
}

func (b *IssueBuilder) Memo(m string) *IssueBuilder {
	b.memo = m
	return b
}

// Build constructs the transaction.
func (b *IssueBuilder) Build() tx.Transaction {
	t := credit.NewIssueCredits(b.issuer.Address(), b.amount, b.label)
	if b.price != nil {
		t.WithPrice(*b.price)
	}
	return b.apply(t)
}

// TransferBuilder builds TransferCredits transactions.
type TransferBuilder struct {
	common
	caller Party
	from   Party
	to     Party
	amount uint64
}

// Transfer moves amount from from to to, submitted by from.
func Transfer(from, to Party, amount uint64) *TransferBuilder {
	return &TransferBuilder{caller: from, from: from, to: to, amount: amount}
}

// SubmittedBy makes caller the submitting account while keeping the debited
// party. The ledger refuses such a transfer unless caller is the source.
func (b *TransferBuilder) SubmittedBy(caller Party) *TransferBuilder {
	b.caller = caller
	return b
}

func (b *TransferBuilder) Sequence(seq uint32) *TransferBuilder {
	b.sequence = &seq
	return b
}

func (b *TransferBuilder) Memo(m string) *TransferBuilder {
	b.memo = m
	return b
}

// Build constructs the transaction.
func (b *TransferBuilder) Build() tx.Transaction {
	t := credit.NewTransferCredits(b.from.Address(), b.to.Address(), b.amount)
	t.Account = b.caller.Address()
	return b.apply(t)
}

// RetireBuilder builds RetireCredits transactions.
type RetireBuilder struct {
	common
	holder Party
	amount uint64
}

// Retire permanently removes amount from holder's balance.
func Retire(holder Party, amount uint64) *RetireBuilder {
	return &RetireBuilder{holder: holder, amount: amount}
}

func (b *RetireBuilder) Sequence(seq uint32) *RetireBuilder {
	b.sequence = &seq
	return b
}

func (b *RetireBuilder) Memo(m string) *RetireBuilder {
	b.memo = m
	return b
}

// Build constructs the transaction.
func (b *RetireBuilder) Build() tx.Transaction {
	return b.apply(credit.NewRetireCredits(b.holder.Address(), b.amount))
}

// SetPriceBuilder builds SetCreditPrice transactions.
type SetPriceBuilder struct {
	common
	issuer Party
	price  uint64
}

// SetPrice updates the price of issuer's credits.
func SetPrice(issuer Party, price uint64) *SetPriceBuilder {
	return &SetPriceBuilder{issuer: issuer, price: price}
}

func (b *SetPriceBuilder) Sequence(seq uint32) *SetPriceBuilder {
	b.sequence = &seq
	return b
}

func (b *SetPriceBuilder) Memo(m string) *SetPriceBuilder {
	b.memo = m
	return b
}

// Build constructs the transaction.
func (b *SetPriceBuilder) Build() tx.Transaction {
	return b.apply(credit.NewSetCreditPrice(b.issuer.Address(), b.price))
}
