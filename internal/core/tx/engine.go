package tx

import (
	"errors"
	"strings"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
	"github.com/LeJamon/carbond/internal/core/principal"
)

// DefaultMaxLabelLength bounds ProjectLabel when the config leaves it unset.
const DefaultMaxLabelLength = 256

// EngineConfig holds configuration for the transaction engine
type EngineConfig struct {
	// Admin is the only principal allowed to grow the registries
	Admin principal.Principal

	// RequireSignatures enforces SigningPubKey/TxnSignature and strict sequences
	RequireSignatures bool

	// DefaultCreditPrice is used for a first issuance that declares no price
	DefaultCreditPrice uint64

	// MaxLabelLength bounds ProjectLabel (bytes)
	MaxLabelLength int

	// LedgerSequence is the sequence of the open ledger being built
	LedgerSequence uint32
}

// LabelLimit returns the effective ProjectLabel bound.
func (c EngineConfig) LabelLimit() int {
	if c.MaxLabelLength <= 0 {
		return DefaultMaxLabelLength
	}
	return c.MaxLabelLength
}

// LedgerView provides read/write access to ledger state
type LedgerView interface {
	// Read returns the entry at k, or nil if it does not exist
	Read(k keylet.Keylet) ([]byte, error)

	// Exists checks if an entry exists
	Exists(k keylet.Keylet) (bool, error)

	// Insert adds a new entry
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry
	Erase(k keylet.Keylet) error

	// ForEach iterates over all state entries.
	// If fn returns false, iteration stops early.
	ForEach(fn func(key [32]byte, data []byte) bool) error
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	// Result is the transaction result code
	Result Result

	// Applied indicates if the transaction changed the ledger
	Applied bool

	// Hash is the transaction ID
	Hash [32]byte

	// Metadata contains the changes made by the transaction
	Metadata *Metadata

	// Message is a human-readable result message
	Message string
}

// Err returns the domain error for a rejected transaction, nil on success.
func (r ApplyResult) Err() error {
	return r.Result.Err()
}

// Engine processes transactions against a ledger
type Engine struct {
	view   LedgerView
	config EngineConfig
}

// NewEngine creates a new transaction engine
func NewEngine(view LedgerView, config EngineConfig) *Engine {
	return &Engine{
		view:   view,
		config: config,
	}
}

// Config returns the engine configuration
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Apply processes a transaction and applies it to the ledger.
// Only tesSUCCESS changes state; every other result leaves the view untouched.
func (e *Engine) Apply(t Transaction) ApplyResult {
	// Step 1: Preflight checks (syntax validation)
	result := e.preflight(t)
	if !result.IsSuccess() {
		return rejected(result, [32]byte{})
	}

	// Step 2: Compute transaction hash
	txHash, err := Hash(t)
	if err != nil {
		return rejected(TefINTERNAL, txHash)
	}

	// Step 3: Preclaim checks (validate against ledger state)
	if result = e.preclaim(t); !result.IsSuccess() {
		return rejected(result, txHash)
	}

	// Step 4: Apply through a buffered state table
	table := NewApplyStateTable(e.view, txHash, e.config.LedgerSequence)
	result = e.doApply(t, table, txHash)
	if !result.IsSuccess() {
		return rejected(result, txHash)
	}

	if err := CheckInvariants(table); err != nil {
		return rejected(TecINVARIANT_FAILED, txHash)
	}

	metadata, err := table.Apply()
	if err != nil {
		return rejected(TefINTERNAL, txHash)
	}
	metadata.TransactionResult = TesSUCCESS

	return ApplyResult{
		Result:   TesSUCCESS,
		Applied:  true,
		Hash:     txHash,
		Metadata: metadata,
		Message:  TesSUCCESS.Message(),
	}
}

func rejected(result Result, txHash [32]byte) ApplyResult {
	return ApplyResult{
		Result:  result,
		Applied: false,
		Hash:    txHash,
		Message: result.Message(),
	}
}

// preflight performs validation that needs no ledger state
func (e *Engine) preflight(t Transaction) Result {
	common := t.GetCommon()

	if common.TransactionType == "" {
		common.TransactionType = t.TxType().String()
	} else if common.TransactionType != t.TxType().String() {
		return TemINVALID
	}

	if err := t.Validate(); err != nil {
		return parseValidationError(err)
	}

	if p, ok := t.(Preflighter); ok {
		if r := p.Preflight(e.config); !r.IsSuccess() {
			return r
		}
	}

	if e.config.RequireSignatures {
		if common.Sequence == 0 {
			return TemBAD_SEQUENCE
		}
		if err := VerifySignature(t); err != nil {
			switch {
			case errors.Is(err, ErrMissingSignature):
				return TemBAD_SIGNATURE
			case errors.Is(err, ErrSignerMismatch):
				return TefBAD_AUTH
			default:
				return TefBAD_SIGNATURE
			}
		}
	}

	return TesSUCCESS
}

// parseValidationError extracts a result code from a validation error message.
// If the message starts with a known token (e.g. "temBAD_AMOUNT:"), that
// code is returned. Otherwise the result is temMALFORMED.
func parseValidationError(err error) Result {
	msg := err.Error()
	if i := strings.IndexByte(msg, ':'); i > 0 {
		if r, ok := ResultFromString(msg[:i]); ok {
			return r
		}
	}
	return TemMALFORMED
}

// preclaim checks the sequence against the caller's account
func (e *Engine) preclaim(t Transaction) Result {
	common := t.GetCommon()
	if common.Sequence == 0 {
		return TesSUCCESS
	}

	acct, err := ReadEntry[entry.AccountRoot](e.view, keylet.Account(common.Account.ID()))
	if err != nil {
		return TefINTERNAL
	}
	next := uint32(1)
	if acct != nil {
		next = acct.Sequence
	}

	if common.Sequence < next {
		return TefPAST_SEQ
	}
	if common.Sequence > next {
		return TerPRE_SEQ
	}
	return TesSUCCESS
}

// doApply runs the type-specific logic and then consumes the caller's sequence
func (e *Engine) doApply(t Transaction, table *ApplyStateTable, txHash [32]byte) Result {
	common := t.GetCommon()
	ctx := &ApplyContext{
		View:      table,
		Account:   common.Account,
		AccountID: common.Account.ID(),
		Config:    e.config,
		TxHash:    txHash,
	}

	appliable, ok := t.(Appliable)
	if !ok {
		return TemINVALID
	}
	result := appliable.Apply(ctx)
	if !result.IsSuccess() {
		return result
	}

	acct, err := ctx.ReadAccount(common.Account)
	if err != nil {
		return TefINTERNAL
	}
	acct.Sequence++
	if err := ctx.WriteAccount(acct); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}
