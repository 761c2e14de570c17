package service

import (
	"fmt"

	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// IssuerData is the public view of an issuance record.
type IssuerData struct {
	Issuer        principal.Principal   `json:"issuer"`
	Amount        uint64                `json:"amount"`
	ProjectLabel  string                `json:"project_label"`
	Price         uint64                `json:"price"`
	Validations   uint32                `json:"validations"`
	Validators    []principal.Principal `json:"validators"`
	TotalIssued   uint64                `json:"total_issued"`
	IssuanceCount uint32                `json:"issuance_count"`
	LedgerIndex   uint32                `json:"ledger_index"`
}

// AccountInfo summarizes one principal's state in the open ledger.
type AccountInfo struct {
	Principal   principal.Principal `json:"account"`
	Balance     uint64              `json:"balance"`
	Sequence    uint32              `json:"sequence"`
	IsIssuer    bool                `json:"is_issuer"`
	IsValidator bool                `json:"is_validator"`
	Exists      bool                `json:"exists"`
}

// view returns the open ledger for reads. Every applied transaction is
// visible there.
func (s *Service) view() (*ledger.Ledger, error) {
	if s.openLedger == nil {
		return nil, ErrNotStarted
	}
	return s.openLedger, nil
}

func decodePrincipal(p principal.Principal) (principal.ID, error) {
	id, err := principal.Decode(p)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return id, nil
}

func readTotals(view tx.LedgerView) (entry.Totals, error) {
	t, err := tx.ReadEntry[entry.Totals](view, keylet.Totals())
	if err != nil || t == nil {
		return entry.Totals{}, err
	}
	return *t, nil
}

// GetCreditBalance returns p's balance, zero for an unknown principal.
func (s *Service) GetCreditBalance(p principal.Principal) (uint64, error) {
	id, err := decodePrincipal(p)
	if err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	view, err := s.view()
	if err != nil {
		return 0, err
	}

	acct, err := tx.ReadEntry[entry.AccountRoot](view, keylet.Account(id))
	if err != nil || acct == nil {
		return 0, err
	}
	return acct.Balance, nil
}

// GetTotalCreditsRetired returns the ledger-wide retired total.
func (s *Service) GetTotalCreditsRetired() (uint64, error) {
	totals, err := s.GetTotals()
	return totals.Retired, err
}

// GetTotals returns the issued and retired totals.
func (s *Service) GetTotals() (entry.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	view, err := s.view()
	if err != nil {
		return entry.Totals{}, err
	}
	return readTotals(view)
}

// GetIssuerData returns the issuance record of issuer, or nil if it never issued.
func (s *Service) GetIssuerData(issuer principal.Principal) (*IssuerData, error) {
	rec, err := s.readIssuance(issuer)
	if err != nil || rec == nil {
		return nil, err
	}
	return &IssuerData{
		Issuer:        rec.Issuer,
		Amount:        rec.Amount,
		ProjectLabel:  rec.ProjectLabel,
		Price:         rec.Price,
		Validations:   rec.Validations,
		Validators:    append([]principal.Principal(nil), rec.Validators...),
		TotalIssued:   rec.TotalIssued,
		IssuanceCount: rec.IssuanceCount,
		LedgerIndex:   rec.LedgerSeq,
	}, nil
}

// GetCreditPrice returns the current price of issuer's credits, or
// ErrNotFound if it has no issuance record.
func (s *Service) GetCreditPrice(issuer principal.Principal) (uint64, error) {
	rec, err := s.readIssuance(issuer)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, ErrNotFound
	}
	return rec.Price, nil
}

func (s *Service) readIssuance(issuer principal.Principal) (*entry.Issuance, error) {
	id, err := decodePrincipal(issuer)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	view, err := s.view()
	if err != nil {
		return nil, err
	}
	return tx.ReadEntry[entry.Issuance](view, keylet.Issuance(id))
}

// GetAccountInfo reports p's balance, next sequence and registry membership.
func (s *Service) GetAccountInfo(p principal.Principal) (*AccountInfo, error) {
	id, err := decodePrincipal(p)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	view, err := s.view()
	if err != nil {
		return nil, err
	}

	info := &AccountInfo{Principal: p, Sequence: 1}
	acct, err := tx.ReadEntry[entry.AccountRoot](view, keylet.Account(id))
	if err != nil {
		return nil, err
	}
	if acct != nil {
		info.Exists = true
		info.Balance = acct.Balance
		info.Sequence = acct.Sequence
	}
	if info.IsIssuer, err = view.Exists(keylet.Issuer(id)); err != nil {
		return nil, err
	}
	if info.IsValidator, err = view.Exists(keylet.Validator(id)); err != nil {
		return nil, err
	}
	return info, nil
}
