package signing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/core/tx"
	jtx "github.com/LeJamon/carbond/internal/testing"
	"github.com/LeJamon/carbond/internal/testing/builders"
)

func TestSignedTransactions(t *testing.T) {
	env := jtx.NewTestEnv(t, jtx.WithSignatures())
	admin, issuer, buyer := env.Deployer(), env.Wallet(1), env.Wallet(2)

	require.Equal(t, uint32(1), env.Sequence(admin))
	jtx.RequireTxSuccess(t, env.Submit(builders.AddIssuer(admin, issuer).Build()))
	require.Equal(t, uint32(2), env.Sequence(admin))

	jtx.RequireTxSuccess(t, env.Submit(builders.Issue(issuer, 1000, "Solar Project").Build()))
	jtx.RequireTxSuccess(t, env.Submit(builders.Transfer(issuer, buyer, 250).Build()))
	jtx.RequireBalance(t, env, buyer, 250)
	require.Equal(t, uint32(3), env.Sequence(issuer))

	t.Run("rejected calls do not consume a sequence", func(t *testing.T) {
		r := env.Submit(builders.Transfer(buyer, issuer, 1000).Build())
		jtx.RequireTxFail(t, r, jtx.TecINSUFFICIENT_BALANCE)
		require.Equal(t, uint32(1), env.Sequence(buyer))
	})

	t.Run("replayed sequence", func(t *testing.T) {
		r := env.Submit(builders.Retire(issuer, 1).Sequence(1).Build())
		jtx.RequireTxFail(t, r, jtx.TefPAST_SEQ)
	})

	t.Run("future sequence", func(t *testing.T) {
		r := env.Submit(builders.Retire(issuer, 1).Sequence(10).Build())
		jtx.RequireTxFail(t, r, jtx.TerPRE_SEQ)
	})
}

func TestSignatureRejections(t *testing.T) {
	env := jtx.NewTestEnv(t, jtx.WithSignatures())
	admin, mallory, target := env.Deployer(), env.Account("mallory"), env.Account("target")
	svc := env.Service()

	t.Run("unsigned", func(t *testing.T) {
		t1 := builders.AddIssuer(admin, target).Sequence(1).Build()
		r, err := svc.Submit(t1)
		require.NoError(t, err)
		require.Equal(t, tx.TemBAD_SIGNATURE, r.Result)
	})

	t.Run("missing sequence", func(t *testing.T) {
		t1 := builders.AddIssuer(admin, target).Build()
		require.NoError(t, admin.Sign(t1))
		r, err := svc.Submit(t1)
		require.NoError(t, err)
		require.Equal(t, tx.TemBAD_SEQUENCE, r.Result)
	})

	t.Run("signed by someone else", func(t *testing.T) {
		t1 := builders.AddIssuer(admin, target).Sequence(1).Build()
		require.NoError(t, mallory.Sign(t1))
		r, err := svc.Submit(t1)
		require.NoError(t, err)
		require.Equal(t, tx.TefBAD_AUTH, r.Result)
		require.ErrorIs(t, r.Err(), tx.ErrUnauthorized)
	})

	t.Run("tampered after signing", func(t *testing.T) {
		t1 := builders.AddIssuer(admin, target).Sequence(1).Build()
		require.NoError(t, admin.Sign(t1))
		t1.GetCommon().Memo = "changed"
		r, err := svc.Submit(t1)
		require.NoError(t, err)
		require.Equal(t, tx.TefBAD_SIGNATURE, r.Result)
	})

	require.False(t, env.IsIssuer(target))
	require.Equal(t, uint32(1), env.Sequence(admin))
}

func TestSignedBlock(t *testing.T) {
	env := jtx.NewTestEnv(t, jtx.WithSignatures())
	admin, issuer, buyer := env.Deployer(), env.Wallet(1), env.Wallet(2)

	block := env.MineBlock(
		builders.AddIssuer(admin, issuer).Build(),
		builders.Issue(issuer, 100, "Seagrass").Build(),
		builders.Transfer(issuer, buyer, 30).Build(),
		builders.Retire(issuer, 20).Build(),
	)
	require.Equal(t, 4, block.Applied())
	jtx.RequireBalance(t, env, issuer, 50)
	jtx.RequireRetired(t, env, 20)
	require.Equal(t, uint32(4), env.Sequence(issuer))
}
