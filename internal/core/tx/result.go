package tx

import "fmt"

// Result represents a transaction result code
type Result int

// Transaction result codes, organised by family:
// tes success, tec rejected by ledger state, tef failure,
// tem malformed, ter retry.
const (
	TesSUCCESS Result = 0

	TecUNAUTHORIZED         Result = 101
	TecNOT_ISSUER           Result = 102
	TecNOT_VALIDATOR        Result = 103
	TecINSUFFICIENT_BALANCE Result = 104
	TecNO_ISSUANCE          Result = 105
	TecAMOUNT_OVERFLOW      Result = 106
	TecINTERNAL             Result = 144
	TecINVARIANT_FAILED     Result = 147

	TefFAILURE       Result = -199
	TefBAD_AUTH      Result = -196
	TefINTERNAL      Result = -192
	TefPAST_SEQ      Result = -190
	TefBAD_SIGNATURE Result = -186

	TemMALFORMED       Result = -299
	TemBAD_AMOUNT      Result = -298
	TemBAD_SEQUENCE    Result = -283
	TemBAD_SIGNATURE   Result = -282
	TemBAD_SRC_ACCOUNT Result = -281
	TemBAD_PRINCIPAL   Result = -280
	TemINVALID         Result = -277
	TemBAD_LABEL       Result = -270

	TerNO_ACCOUNT Result = -96
	TerPRE_SEQ    Result = -92
)

var resultNames = map[Result]string{
	TesSUCCESS:              "tesSUCCESS",
	TecUNAUTHORIZED:         "tecUNAUTHORIZED",
	TecNOT_ISSUER:           "tecNOT_ISSUER",
	TecNOT_VALIDATOR:        "tecNOT_VALIDATOR",
	TecINSUFFICIENT_BALANCE: "tecINSUFFICIENT_BALANCE",
	TecNO_ISSUANCE:          "tecNO_ISSUANCE",
	TecAMOUNT_OVERFLOW:      "tecAMOUNT_OVERFLOW",
	TecINTERNAL:             "tecINTERNAL",
	TecINVARIANT_FAILED:     "tecINVARIANT_FAILED",
	TefFAILURE:              "tefFAILURE",
	TefBAD_AUTH:             "tefBAD_AUTH",
	TefINTERNAL:             "tefINTERNAL",
	TefPAST_SEQ:             "tefPAST_SEQ",
	TefBAD_SIGNATURE:        "tefBAD_SIGNATURE",
	TemMALFORMED:            "temMALFORMED",
	TemBAD_AMOUNT:           "temBAD_AMOUNT",
	TemBAD_SEQUENCE:         "temBAD_SEQUENCE",
	TemBAD_SIGNATURE:        "temBAD_SIGNATURE",
	TemBAD_SRC_ACCOUNT:      "temBAD_SRC_ACCOUNT",
	TemBAD_PRINCIPAL:        "temBAD_PRINCIPAL",
	TemINVALID:              "temINVALID",
	TemBAD_LABEL:            "temBAD_LABEL",
	TerNO_ACCOUNT:           "terNO_ACCOUNT",
	TerPRE_SEQ:              "terPRE_SEQ",
}

var resultByName = func() map[string]Result {
	m := make(map[string]Result, len(resultNames))
	for r, name := range resultNames {
		m[name] = r
	}
	return m
}()

// String returns the result token, e.g. "tecNOT_ISSUER"
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", int(r))
}

// ResultFromString parses a result token.
func ResultFromString(s string) (Result, bool) {
	r, ok := resultByName[s]
	return r, ok
}

// IsSuccess returns true if the result indicates success
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (rejected by ledger state) code
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTef returns true if this is a tef (failure) code
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// IsTem returns true if this is a tem (malformed) code
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTer returns true if this is a ter (retry) code
func (r Result) IsTer() bool {
	return r >= -99 && r <= -1
}

// ShouldRetry returns true if the transaction may succeed in a later ledger
func (r Result) ShouldRetry() bool {
	return r.IsTer()
}

// IsApplied returns true if the transaction changed ledger state.
// There are no fees, so only tesSUCCESS applies anything.
func (r Result) IsApplied() bool {
	return r.IsSuccess()
}

// Err returns nil for tesSUCCESS and a *ResultError otherwise.
func (r Result) Err() error {
	if r.IsSuccess() {
		return nil
	}
	return &ResultError{Result: r}
}

func (r Result) taxonomy() error {
	switch r {
	case TesSUCCESS:
		return nil
	case TecUNAUTHORIZED, TefBAD_AUTH:
		return ErrUnauthorized
	case TecNOT_ISSUER:
		return ErrNotAnIssuer
	case TecNOT_VALIDATOR:
		return ErrNotAValidator
	case TemBAD_AMOUNT, TecAMOUNT_OVERFLOW:
		return ErrInvalidAmount
	case TecINSUFFICIENT_BALANCE:
		return ErrInsufficientBalance
	case TecNO_ISSUANCE:
		return ErrNoSuchIssuance
	}
	if r.IsTem() {
		return ErrMalformed
	}
	return ErrRejected
}

// Message returns a human-readable message for the result
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transaction was applied."
	case TecUNAUTHORIZED:
		return "The caller is not authorized to perform this operation."
	case TecNOT_ISSUER:
		return "The caller is not a registered issuer or has no issuance."
	case TecNOT_VALIDATOR:
		return "The caller is not a registered validator."
	case TecINSUFFICIENT_BALANCE:
		return "Insufficient credit balance."
	case TecNO_ISSUANCE:
		return "The issuer has no issuance record."
	case TecAMOUNT_OVERFLOW:
		return "Amount would overflow a ledger total."
	case TecINTERNAL:
		return "An internal error occurred while applying the transaction."
	case TecINVARIANT_FAILED:
		return "A ledger invariant would be violated."
	case TefBAD_AUTH:
		return "The signing key does not belong to the account."
	case TefINTERNAL:
		return "Internal error."
	case TefPAST_SEQ:
		return "Sequence number has already passed."
	case TefBAD_SIGNATURE:
		return "Invalid signature."
	case TemMALFORMED:
		return "Malformed transaction."
	case TemBAD_AMOUNT:
		return "Amount must be positive."
	case TemBAD_SEQUENCE:
		return "Sequence number is required."
	case TemBAD_SIGNATURE:
		return "Missing or malformed signature."
	case TemBAD_SRC_ACCOUNT:
		return "Source account is malformed."
	case TemBAD_PRINCIPAL:
		return "A principal field is malformed."
	case TemINVALID:
		return "The transaction is ill-formed."
	case TemBAD_LABEL:
		return "Project label is too long."
	case TerNO_ACCOUNT:
		return "The source account does not exist."
	case TerPRE_SEQ:
		return "Missing/inapplicable prior transaction."
	default:
		return r.String()
	}
}
