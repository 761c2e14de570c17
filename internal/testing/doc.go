// Package testing provides test infrastructure for credit ledger scenarios.
//
// It follows the shape of a jtx-style harness: a TestEnv that runs a real
// ledger service in memory, deterministic accounts, fluent transaction
// builders and assertion helpers.
//
// # Basic Usage
//
//	func TestTransfer(t *testing.T) {
//	    env := jtx.NewTestEnv(t)
//	    issuer, buyer := env.Wallet(1), env.Wallet(2)
//
//	    jtx.RequireTxSuccess(t, env.Submit(builders.AddIssuer(env.Deployer(), issuer).Build()))
//	    jtx.RequireTxSuccess(t, env.Submit(builders.Issue(issuer, 1000, "Solar Project").Build()))
//	    jtx.RequireTxSuccess(t, env.Submit(builders.Transfer(issuer, buyer, 500).Build()))
//
//	    jtx.RequireBalance(t, env, buyer, 500)
//	}
//
// # TestEnv
//
// NewTestEnv starts a standalone ledger whose admin is Deployer(). Submit
// applies one call to the open ledger; MineBlock applies several in order
// and closes the ledger over them. Close closes the open ledger.
//
//	env.Balance(alice)      // credits held
//	env.Retired()           // ledger-wide retired total
//	env.IssuerData(issuer)  // issuance record, nil if none
//	env.Price(issuer)       // price and whether a record exists
//
// WithSignatures starts a ledger that requires signed transactions; the env
// then fills sequences and signs with each caller's key.
//
// # Accounts
//
// NewAccount derives a secp256k1 key from the account name, so the same
// name always yields the same principal. Wallet(n) is shorthand for a
// numbered account.
//
// # Clock Control
//
// The service reads close times from a ManualClock. Close and MineBlock
// advance it by five seconds.
package testing
