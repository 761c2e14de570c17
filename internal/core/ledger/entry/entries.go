package entry

import (
	"sort"

	"github.com/LeJamon/carbond/internal/core/principal"
)

// AccountRoot holds a principal's credit balance.
type AccountRoot struct {
	Principal         principal.Principal `codec:"principal"`
	Balance           uint64              `codec:"balance"`
	Sequence          uint32              `codec:"sequence"`
	PreviousTxnID     string              `codec:"prev_txn_id,omitempty"`
	PreviousTxnLgrSeq uint32              `codec:"prev_txn_lgr_seq,omitempty"`
}

// Role marks a principal as a member of the issuer or validator registry.
type Role struct {
	Principal principal.Principal `codec:"principal"`
	AddedBy   principal.Principal `codec:"added_by"`
	LedgerSeq uint32              `codec:"ledger_seq"`
}

// Issuance is the issuance record owned by an issuer.
type Issuance struct {
	Issuer       principal.Principal   `codec:"issuer"`
	Amount       uint64                `codec:"amount"`
	ProjectLabel string                `codec:"project_label"`
	Price        uint64                `codec:"price"`
	Validators   []principal.Principal `codec:"validators"`
	Validations  uint32                `codec:"validations"`

	// TotalIssued and IssuanceCount accumulate across re-issuances.
	TotalIssued   uint64 `codec:"total_issued"`
	IssuanceCount uint32 `codec:"issuance_count"`

	LedgerSeq         uint32 `codec:"ledger_seq"`
	PreviousTxnID     string `codec:"prev_txn_id,omitempty"`
	PreviousTxnLgrSeq uint32 `codec:"prev_txn_lgr_seq,omitempty"`
}

// HasValidator reports whether v has already validated the current issuance.
func (i *Issuance) HasValidator(v principal.Principal) bool {
	idx := sort.Search(len(i.Validators), func(n int) bool { return i.Validators[n] >= v })
	return idx < len(i.Validators) && i.Validators[idx] == v
}

// AddValidator inserts v into the sorted validator set and refreshes the
// validation count. It returns false if v was already present.
func (i *Issuance) AddValidator(v principal.Principal) bool {
	idx := sort.Search(len(i.Validators), func(n int) bool { return i.Validators[n] >= v })
	if idx < len(i.Validators) && i.Validators[idx] == v {
		return false
	}
	i.Validators = append(i.Validators, "")
	copy(i.Validators[idx+1:], i.Validators[idx:])
	i.Validators[idx] = v
	i.Validations = uint32(len(i.Validators))
	return true
}

// ResetValidations clears the validator set.
func (i *Issuance) ResetValidations() {
	i.Validators = nil
	i.Validations = 0
}

// Totals is the ledger-wide issued and retired counter.
type Totals struct {
	Issued  uint64 `codec:"issued"`
	Retired uint64 `codec:"retired"`
}

// Circulating returns the amount of credit held in balances.
func (t Totals) Circulating() uint64 {
	return t.Issued - t.Retired
}
