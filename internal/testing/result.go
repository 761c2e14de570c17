package testing

import (
	"strings"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
)

// TxResult represents the result of applying a transaction.
type TxResult struct {
	// Code is the transaction engine result code (e.g., "tesSUCCESS").
	Code string

	// Success indicates whether the transaction was applied.
	Success bool

	Message string

	// Hash is the transaction hash, set for applied and rejected calls alike.
	Hash [32]byte

	// LedgerIndex is the open ledger the call was submitted to.
	LedgerIndex uint32

	// Metadata contains the serialized transaction metadata, if available.
	Metadata []byte

	// Err is the domain error of a rejected call, nil on success.
	Err error
}

// Result codes used by the credit ledger.
const (
	TesSUCCESS = "tesSUCCESS"

	TecUNAUTHORIZED         = "tecUNAUTHORIZED"
	TecNOT_ISSUER           = "tecNOT_ISSUER"
	TecNOT_VALIDATOR        = "tecNOT_VALIDATOR"
	TecINSUFFICIENT_BALANCE = "tecINSUFFICIENT_BALANCE"
	TecNO_ISSUANCE          = "tecNO_ISSUANCE"
	TecAMOUNT_OVERFLOW      = "tecAMOUNT_OVERFLOW"

	TefPAST_SEQ      = "tefPAST_SEQ"
	TefBAD_AUTH      = "tefBAD_AUTH"
	TefBAD_SIGNATURE = "tefBAD_SIGNATURE"

	TemMALFORMED       = "temMALFORMED"
	TemBAD_AMOUNT      = "temBAD_AMOUNT"
	TemBAD_SEQUENCE    = "temBAD_SEQUENCE"
	TemBAD_SIGNATURE   = "temBAD_SIGNATURE"
	TemBAD_SRC_ACCOUNT = "temBAD_SRC_ACCOUNT"
	TemBAD_PRINCIPAL   = "temBAD_PRINCIPAL"
	TemBAD_LABEL       = "temBAD_LABEL"

	TerPRE_SEQ = "terPRE_SEQ"
)

func newTxResult(r *service.SubmitResult) TxResult {
	return TxResult{
		Code:        r.Result.String(),
		Success:     r.Applied,
		Message:     r.Message,
		Hash:        r.Hash,
		LedgerIndex: r.LedgerIndex,
		Metadata:    r.MetaJSON,
		Err:         r.Err(),
	}
}

// IsSuccess returns true if the transaction succeeded.
func (r TxResult) IsSuccess() bool {
	return r.Code == TesSUCCESS
}

// IsRejected returns true for tec codes: well formed, refused by ledger state.
func (r TxResult) IsRejected() bool {
	return strings.HasPrefix(r.Code, "tec")
}

// IsMalformed returns true for tem codes.
func (r TxResult) IsMalformed() bool {
	return strings.HasPrefix(r.Code, "tem")
}

// IsFailed returns true for tef codes.
func (r TxResult) IsFailed() bool {
	return strings.HasPrefix(r.Code, "tef")
}

// IsRetry returns true for ter codes.
func (r TxResult) IsRetry() bool {
	return strings.HasPrefix(r.Code, "ter")
}
