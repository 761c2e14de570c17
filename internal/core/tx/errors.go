package tx

import "errors"

// Domain errors. Every rejected transaction maps onto exactly one of these
// through Result.Err.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotAnIssuer         = errors.New("not an issuer")
	ErrNotAValidator       = errors.New("not a validator")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNoSuchIssuance      = errors.New("no such issuance")
	ErrNotFound            = errors.New("not found")

	// ErrMalformed covers the tem family outside of amount checks.
	ErrMalformed = errors.New("malformed transaction")
	// ErrRejected covers tef and ter outcomes (signature, sequence).
	ErrRejected = errors.New("transaction rejected")
)

// Transaction construction errors
var (
	ErrMissingRequiredField   = errors.New("missing required field")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)

// ResultError carries a non-success Result as an error.
// errors.Is matches it against the domain error the code belongs to.
type ResultError struct {
	Result Result
}

func (e *ResultError) Error() string {
	return e.Result.String() + ": " + e.Result.Message()
}

// Is implements errors.Is support.
func (e *ResultError) Is(target error) bool {
	return e.Result.taxonomy() == target
}

// Unwrap returns the domain error for the result code.
func (e *ResultError) Unwrap() error {
	return e.Result.taxonomy()
}
