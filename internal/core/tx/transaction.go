package tx

import (
	"fmt"

	"github.com/LeJamon/carbond/internal/core/principal"
)

// MaxMemoSize is the maximum size of the Memo field (in bytes)
const MaxMemoSize = 1024

// Transaction is the interface that all transaction types must implement
type Transaction interface {
	// TxType returns the transaction type
	TxType() Type

	// GetCommon returns the common transaction fields
	GetCommon() *Common

	// Validate checks if the transaction is well formed.
	// Errors may carry a result token prefix, e.g. "temBAD_AMOUNT: ...".
	Validate() error
}

// Appliable is implemented by transaction types that can apply themselves to ledger state.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// Preflighter is implemented by transaction types with config-dependent
// syntax checks.
type Preflighter interface {
	Preflight(cfg EngineConfig) Result
}

// Common contains fields shared by every transaction
type Common struct {
	// Account is the principal submitting the transaction (the caller)
	Account principal.Principal `json:"Account" codec:"account"`

	TransactionType string `json:"TransactionType" codec:"transaction_type"`

	// Sequence is the account sequence. Zero means "next" when
	// signatures are not required.
	Sequence uint32 `json:"Sequence,omitempty" codec:"sequence,omitempty"`

	Memo string `json:"Memo,omitempty" codec:"memo,omitempty"`

	SigningPubKey string `json:"SigningPubKey,omitempty" codec:"signing_pub_key,omitempty"`
	TxnSignature  string `json:"TxnSignature,omitempty" codec:"txn_signature,omitempty"`
}

// Validate checks the common fields
func (c *Common) Validate() error {
	if c.Account == "" {
		return fmt.Errorf("temBAD_SRC_ACCOUNT: %w: Account", ErrMissingRequiredField)
	}
	if err := c.Account.Validate(); err != nil {
		return fmt.Errorf("temBAD_SRC_ACCOUNT: %v", err)
	}
	if len(c.Memo) > MaxMemoSize {
		return fmt.Errorf("temMALFORMED: memo exceeds %d bytes", MaxMemoSize)
	}
	return nil
}

// BaseTx provides a base implementation for transactions
type BaseTx struct {
	Common
	txType Type
}

// NewBaseTx creates a new base transaction
func NewBaseTx(txType Type, account principal.Principal) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
		txType: txType,
	}
}

// TxType returns the transaction type
func (b *BaseTx) TxType() Type {
	return b.txType
}

// GetCommon returns the common transaction fields
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate validates the base transaction
func (b *BaseTx) Validate() error {
	return b.Common.Validate()
}

// SetSequence sets the account sequence
func (b *BaseTx) SetSequence(seq uint32) {
	b.Sequence = seq
}
