package testing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireBalance asserts that an account holds the expected number of credits.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, expected uint64) {
	t.Helper()
	actual := env.Balance(acc)
	require.Equal(t, expected, actual,
		"Account %s balance mismatch: expected %d credits, got %d credits",
		acc.Name, expected, actual)
}

// RequireRetired asserts the ledger-wide retired total.
func RequireRetired(t *testing.T, env *TestEnv, expected uint64) {
	t.Helper()
	actual := env.Retired()
	require.Equal(t, expected, actual,
		"Retired total mismatch: expected %d, got %d", expected, actual)
}

// RequirePrice asserts the price of acc's issuance.
func RequirePrice(t *testing.T, env *TestEnv, acc *Account, expected uint64) {
	t.Helper()
	actual, ok := env.Price(acc)
	require.True(t, ok, "Account %s has no issuance record", acc.Name)
	require.Equal(t, expected, actual,
		"Account %s price mismatch: expected %d, got %d", acc.Name, expected, actual)
}

// RequireValidations asserts how many validators endorsed acc's issuance.
func RequireValidations(t *testing.T, env *TestEnv, acc *Account, expected uint32) {
	t.Helper()
	data := env.IssuerData(acc)
	require.NotNil(t, data, "Account %s has no issuance record", acc.Name)
	require.Equal(t, expected, data.Validations,
		"Account %s validation count mismatch: expected %d, got %d",
		acc.Name, expected, data.Validations)
	require.Len(t, data.Validators, int(expected))
}

// RequireConservation asserts that the balances of accs plus the retired
// total account for every credit ever issued. accs must cover every holder.
func RequireConservation(t *testing.T, env *TestEnv, accs ...*Account) {
	t.Helper()
	var held uint64
	for _, acc := range accs {
		held += env.Balance(acc)
	}
	issued, retired := env.Issued(), env.Retired()
	require.Equal(t, issued, held+retired,
		"Conservation broken: issued %d, held %d, retired %d", issued, held, retired)
}

// RequireTxSuccess asserts that a transaction result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected transaction success, got %s: %s", result.Code, result.Message)
	require.Equal(t, TesSUCCESS, result.Code,
		"Expected tesSUCCESS, got %s: %s", result.Code, result.Message)
}

// RequireTxFail asserts that a transaction result indicates failure with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expectedCode string) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure with code %s, but transaction succeeded", expectedCode)
	require.Equal(t, expectedCode, result.Code,
		"Expected failure code %s, got %s: %s", expectedCode, result.Code, result.Message)
}

// RequireTxError asserts that a transaction was rejected with a domain
// error matching target under errors.Is.
func RequireTxError(t *testing.T, result TxResult, target error) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure (%v), but transaction succeeded", target)
	require.ErrorIs(t, result.Err, target)
}

// RequireIssuer asserts that acc is in the issuer registry.
func RequireIssuer(t *testing.T, env *TestEnv, acc *Account) {
	t.Helper()
	require.True(t, env.IsIssuer(acc), "Expected %s to be an issuer", acc.Name)
}

// RequireValidator asserts that acc is in the validator registry.
func RequireValidator(t *testing.T, env *TestEnv, acc *Account) {
	t.Helper()
	require.True(t, env.IsValidator(acc), "Expected %s to be a validator", acc.Name)
}

// AssertBalanceChange runs a function and asserts the expected balance change.
// The change can be positive (increase) or negative (decrease).
func AssertBalanceChange(t *testing.T, env *TestEnv, acc *Account, expectedChange int64, fn func()) {
	t.Helper()
	before := env.Balance(acc)
	fn()
	after := env.Balance(acc)

	actualChange := int64(after) - int64(before)
	require.Equal(t, expectedChange, actualChange,
		"Account %s balance change mismatch: expected %d, got %d (before: %d, after: %d)",
		acc.Name, expectedChange, actualChange, before, after)
}

// AssertNoBalanceChange runs a function and asserts the balance stays the same.
func AssertNoBalanceChange(t *testing.T, env *TestEnv, acc *Account, fn func()) {
	t.Helper()
	AssertBalanceChange(t, env, acc, 0, fn)
}

// ResultCodeCategory returns the category of a result code.
func ResultCodeCategory(code string) string {
	if len(code) < 3 {
		return "unknown"
	}
	switch code[:3] {
	case "tes":
		return "success"
	case "tec":
		return "rejected"
	case "tef":
		return "failure"
	case "ter":
		return "retry"
	case "tem":
		return "malformed"
	default:
		return "unknown"
	}
}
