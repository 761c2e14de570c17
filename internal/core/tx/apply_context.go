package tx

import (
	"encoding/hex"
	"strings"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
	"github.com/LeJamon/carbond/internal/core/principal"
)

// ApplyContext provides all the state and helpers needed to apply a transaction.
// It is passed to Appliable.Apply() instead of individual parameters.
type ApplyContext struct {
	// View is the ApplyStateTable buffering this transaction's changes
	View LedgerView

	// Account is the caller
	Account principal.Principal

	// AccountID is the decoded caller ID
	AccountID principal.ID

	// Config holds engine configuration (admin, defaults, ledger sequence)
	Config EngineConfig

	// TxHash is the hash of the current transaction
	TxHash [32]byte
}

// ReadEntry decodes the entry at k into a new T. It returns nil if the
// entry does not exist.
func ReadEntry[T any](view LedgerView, k keylet.Keylet) (*T, error) {
	data, err := view.Read(k)
	if err != nil || data == nil {
		return nil, err
	}
	v := new(T)
	if err := entry.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// PutEntry inserts or updates the entry at k.
func PutEntry(view LedgerView, k keylet.Keylet, v any) error {
	data, err := entry.Marshal(v)
	if err != nil {
		return err
	}
	exists, err := view.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return view.Update(k, data)
	}
	return view.Insert(k, data)
}

func (ctx *ApplyContext) txID() string {
	return strings.ToUpper(hex.EncodeToString(ctx.TxHash[:]))
}

// Balance returns the credit balance of p, zero if p has no account.
func (ctx *ApplyContext) Balance(p principal.Principal) (uint64, error) {
	acct, err := ctx.ReadAccount(p)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// ReadAccount returns the account of p, or a fresh zero-balance account.
func (ctx *ApplyContext) ReadAccount(p principal.Principal) (*entry.AccountRoot, error) {
	acct, err := ReadEntry[entry.AccountRoot](ctx.View, keylet.Account(p.ID()))
	if err != nil {
		return nil, err
	}
	if acct == nil {
		acct = &entry.AccountRoot{Principal: p, Sequence: 1}
	}
	return acct, nil
}

// WriteAccount stores acct and threads it to the current transaction.
func (ctx *ApplyContext) WriteAccount(acct *entry.AccountRoot) error {
	acct.PreviousTxnID = ctx.txID()
	acct.PreviousTxnLgrSeq = ctx.Config.LedgerSequence
	return PutEntry(ctx.View, keylet.Account(acct.Principal.ID()), acct)
}

// IsIssuer reports whether p is in the issuer registry.
func (ctx *ApplyContext) IsIssuer(p principal.Principal) (bool, error) {
	return ctx.View.Exists(keylet.Issuer(p.ID()))
}

// IsValidator reports whether p is in the validator registry.
func (ctx *ApplyContext) IsValidator(p principal.Principal) (bool, error) {
	return ctx.View.Exists(keylet.Validator(p.ID()))
}

// AddRole inserts a registry entry for p. It returns false if p was
// already a member.
func (ctx *ApplyContext) AddRole(k keylet.Keylet, p principal.Principal) (bool, error) {
	exists, err := ctx.View.Exists(k)
	if err != nil || exists {
		return false, err
	}
	data, err := entry.Marshal(&entry.Role{
		Principal: p,
		AddedBy:   ctx.Account,
		LedgerSeq: ctx.Config.LedgerSequence,
	})
	if err != nil {
		return false, err
	}
	return true, ctx.View.Insert(k, data)
}

// ReadIssuance returns the issuance record of issuer, or nil.
func (ctx *ApplyContext) ReadIssuance(issuer principal.Principal) (*entry.Issuance, error) {
	return ReadEntry[entry.Issuance](ctx.View, keylet.Issuance(issuer.ID()))
}

// WriteIssuance stores the record and threads it to the current transaction.
func (ctx *ApplyContext) WriteIssuance(rec *entry.Issuance) error {
	rec.PreviousTxnID = ctx.txID()
	rec.PreviousTxnLgrSeq = ctx.Config.LedgerSequence
	return PutEntry(ctx.View, keylet.Issuance(rec.Issuer.ID()), rec)
}

// ReadTotals returns the ledger-wide totals.
func (ctx *ApplyContext) ReadTotals() (*entry.Totals, error) {
	totals, err := ReadEntry[entry.Totals](ctx.View, keylet.Totals())
	if err != nil {
		return nil, err
	}
	if totals == nil {
		totals = &entry.Totals{}
	}
	return totals, nil
}

// WriteTotals stores the ledger-wide totals.
func (ctx *ApplyContext) WriteTotals(totals *entry.Totals) error {
	return PutEntry(ctx.View, keylet.Totals(), totals)
}
