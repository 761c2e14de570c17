package builders_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/core/tx"
	"github.com/LeJamon/carbond/internal/core/tx/credit"
	"github.com/LeJamon/carbond/internal/core/tx/roles"
	"github.com/LeJamon/carbond/internal/core/tx/validation"
	jtx "github.com/LeJamon/carbond/internal/testing"
	"github.com/LeJamon/carbond/internal/testing/builders"
)

func TestRoleBuilders(t *testing.T) {
	admin, alice := jtx.AdminAccount(), jtx.NewAccount("alice")

	issuer := builders.AddIssuer(admin, alice).Memo("onboarding").Build()
	require.IsType(t, &roles.AddIssuer{}, issuer)
	assert.Equal(t, tx.TypeAddIssuer, issuer.TxType())
	assert.Equal(t, admin.Principal, issuer.GetCommon().Account)
	assert.Equal(t, alice.Principal, issuer.(*roles.AddIssuer).Target)
	assert.Equal(t, "onboarding", issuer.GetCommon().Memo)

	validator := builders.AddValidator(admin, alice).Sequence(9).Build()
	require.IsType(t, &roles.AddValidator{}, validator)
	assert.Equal(t, uint32(9), validator.GetCommon().Sequence)
}

func TestIssueBuilder(t *testing.T) {
	alice := jtx.NewAccount("alice")

	plain := builders.Issue(alice, 1000, "Solar Project").Build().(*credit.IssueCredits)
	assert.Equal(t, uint64(1000), plain.Amount)
	assert.Equal(t, "Solar Project", plain.ProjectLabel)
	assert.Nil(t, plain.Price)
	assert.Zero(t, plain.Sequence)

	priced := builders.Issue(alice, 1000, "Solar Project").Price(2000).Build().(*credit.IssueCredits)
	require.NotNil(t, priced.Price)
	assert.Equal(t, uint64(2000), *priced.Price)
}

func TestTransferBuilder(t *testing.T) {
	alice, bob, mallory := jtx.NewAccount("alice"), jtx.NewAccount("bob"), jtx.NewAccount("mallory")

	tr := builders.Transfer(alice, bob, 500).Build().(*credit.TransferCredits)
	assert.Equal(t, alice.Principal, tr.Account)
	assert.Equal(t, alice.Principal, tr.Source())
	assert.Equal(t, bob.Principal, tr.To)
	assert.Equal(t, uint64(500), tr.Amount)

	forged := builders.Transfer(alice, bob, 500).SubmittedBy(mallory).Build().(*credit.TransferCredits)
	assert.Equal(t, mallory.Principal, forged.Account)
	assert.Equal(t, alice.Principal, forged.Source())
}

func TestOtherBuilders(t *testing.T) {
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")

	r := builders.Retire(alice, 300).Build().(*credit.RetireCredits)
	assert.Equal(t, uint64(300), r.Amount)
	assert.Equal(t, alice.Principal, r.Account)

	v := builders.Validate(bob, alice).Build().(*validation.ValidateCredits)
	assert.Equal(t, bob.Principal, v.Account)
	assert.Equal(t, alice.Principal, v.Issuer)

	p := builders.SetPrice(alice, 2500).Build().(*credit.SetCreditPrice)
	assert.Equal(t, uint64(2500), p.Price)

	for _, built := range []tx.Transaction{r, v, p} {
		require.NoError(t, built.Validate())
	}
}
