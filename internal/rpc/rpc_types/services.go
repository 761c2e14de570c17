package rpc_types

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks LedgerService

import (
	"github.com/LeJamon/carbond/internal/core/ledger"
	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// ServiceContainer holds references to the services needed by RPC handlers
type ServiceContainer struct {
	Ledger LedgerService
}

// LedgerService is the part of the ledger service the RPC layer uses.
// *service.Service implements it.
type LedgerService interface {
	// Transactions
	Submit(t tx.Transaction) (*service.SubmitResult, error)
	SubmitBatch(txs []tx.Transaction) (*service.BatchResult, error)
	AcceptLedger() (uint32, error)

	// Credit queries
	GetCreditBalance(p principal.Principal) (uint64, error)
	GetTotalCreditsRetired() (uint64, error)
	GetTotals() (entry.Totals, error)
	GetIssuerData(issuer principal.Principal) (*service.IssuerData, error)
	GetCreditPrice(issuer principal.Principal) (uint64, error)
	GetAccountInfo(p principal.Principal) (*service.AccountInfo, error)

	// Ledger and history
	IsStandalone() bool
	RequiresSignatures() bool
	GetCurrentLedgerIndex() uint32
	GetValidatedLedgerIndex() uint32
	GetServerInfo() service.ServerInfo
	GetLedgerBySequence(seq uint32) (*ledger.Ledger, error)
	GetLedgerByHash(hash [32]byte) (*ledger.Ledger, error)
	GetTransaction(hash [32]byte) (*service.TransactionResult, error)
	GetAccountTransactions(account principal.Principal, limit int) ([]*service.TransactionResult, error)
}

var _ LedgerService = (*service.Service)(nil)
