package credit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/core/tx"
	jtx "github.com/LeJamon/carbond/internal/testing"
	"github.com/LeJamon/carbond/internal/testing/builders"
)

func TestSetCreditPrice(t *testing.T) {
	env, issuer := setup(t)
	jtx.RequireTxSuccess(t, env.Submit(builders.Issue(issuer, 1000, "Solar Project").Price(1500).Build()))

	jtx.RequireTxSuccess(t, env.Submit(builders.SetPrice(issuer, 2000).Build()))
	jtx.RequirePrice(t, env, issuer, 2000)

	// same price again is accepted
	jtx.RequireTxSuccess(t, env.Submit(builders.SetPrice(issuer, 2000).Build()))
	jtx.RequirePrice(t, env, issuer, 2000)

	// price changes leave the rest of the record alone
	data := env.IssuerData(issuer)
	require.Equal(t, uint64(1000), data.Amount)
	require.Equal(t, "Solar Project", data.ProjectLabel)
	jtx.RequireBalance(t, env, issuer, 1000)
}

func TestSetCreditPriceWithoutIssuance(t *testing.T) {
	env, issuer := setup(t)

	_, ok := env.Price(issuer)
	require.False(t, ok)

	r := env.Submit(builders.SetPrice(issuer, 2000).Build())
	jtx.RequireTxFail(t, r, jtx.TecNOT_ISSUER)
	jtx.RequireTxError(t, r, tx.ErrNotAnIssuer)

	r = env.Submit(builders.SetPrice(env.Account("outsider"), 2000).Build())
	jtx.RequireTxFail(t, r, jtx.TecNOT_ISSUER)

	_, ok = env.Price(issuer)
	require.False(t, ok)
}
