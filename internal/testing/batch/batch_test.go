package batch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/core/tx"
	jtx "github.com/LeJamon/carbond/internal/testing"
	"github.com/LeJamon/carbond/internal/testing/builders"
)

func TestBatchSeesEarlierEffects(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := env.Deployer()
	issuer, validator, buyer := env.Wallet(1), env.Wallet(2), env.Wallet(3)

	opened := env.LedgerIndex()
	block := env.MineBlock(
		builders.AddIssuer(admin, issuer).Build(),
		builders.AddValidator(admin, validator).Build(),
		builders.Issue(issuer, 1000, "Solar Project").Price(2000).Build(),
		builders.Validate(validator, issuer).Build(),
		builders.Transfer(issuer, buyer, 600).Build(),
		builders.Retire(buyer, 100).Build(),
	)

	require.Equal(t, opened, block.Index)
	require.Len(t, block.Results, 6)
	for i, r := range block.Results {
		require.True(t, r.Success, "call %d: %s", i, r.Code)
	}
	require.Equal(t, 6, block.Applied())
	require.Equal(t, block.Index, env.ValidatedIndex())
	require.Equal(t, block.Index+1, env.LedgerIndex())

	jtx.RequireBalance(t, env, issuer, 400)
	jtx.RequireBalance(t, env, buyer, 500)
	jtx.RequireRetired(t, env, 100)
	jtx.RequireValidations(t, env, issuer, 1)
	jtx.RequireConservation(t, env, issuer, validator, buyer)
}

func TestBatchFailureDoesNotAbort(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin := env.Deployer()
	issuer, buyer := env.Wallet(1), env.Wallet(2)

	block := env.MineBlock(
		builders.AddIssuer(admin, issuer).Build(),
		builders.Issue(issuer, 100, "Mangroves").Build(),
		builders.Transfer(issuer, buyer, 150).Build(),
		builders.Transfer(issuer, buyer, 60).Build(),
		builders.Retire(buyer, 61).Build(),
	)

	require.Len(t, block.Results, 5)
	jtx.RequireTxSuccess(t, block.Results[0])
	jtx.RequireTxSuccess(t, block.Results[1])
	jtx.RequireTxFail(t, block.Results[2], jtx.TecINSUFFICIENT_BALANCE)
	jtx.RequireTxSuccess(t, block.Results[3])
	jtx.RequireTxError(t, block.Results[4], tx.ErrInsufficientBalance)
	require.Equal(t, 3, block.Applied())

	jtx.RequireBalance(t, env, issuer, 40)
	jtx.RequireBalance(t, env, buyer, 60)
	jtx.RequireRetired(t, env, 0)
	jtx.RequireConservation(t, env, issuer, buyer)
}

func TestEmptyBlock(t *testing.T) {
	env := jtx.NewTestEnv(t)

	first := env.MineBlock()
	second := env.MineBlock()

	require.Empty(t, first.Results)
	require.Equal(t, first.Index+1, second.Index)
	require.NotEqual(t, first.Hash, second.Hash)
}

func TestSubmitThenClose(t *testing.T) {
	env := jtx.NewTestEnv(t)
	admin, issuer := env.Deployer(), env.Wallet(1)

	r := env.Submit(builders.AddIssuer(admin, issuer).Build())
	jtx.RequireTxSuccess(t, r)
	require.Equal(t, env.LedgerIndex(), r.LedgerIndex)

	closed := env.Close()
	require.Equal(t, r.LedgerIndex, closed)

	// state carries over into the next open ledger
	r = env.Submit(builders.Issue(issuer, 10, "Kelp").Build())
	jtx.RequireTxSuccess(t, r)
	require.Equal(t, closed+1, r.LedgerIndex)
}
