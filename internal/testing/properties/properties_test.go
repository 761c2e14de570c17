package properties_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LeJamon/carbond/internal/core/tx"
	jtx "github.com/LeJamon/carbond/internal/testing"
	"github.com/LeJamon/carbond/internal/testing/builders"
)

type world struct {
	env        *jtx.TestEnv
	issuers    []*jtx.Account
	validators []*jtx.Account
	holders    []*jtx.Account
	everyone   []*jtx.Account
}

func newWorld(t *testing.T) *world {
	t.Helper()
	env := jtx.NewTestEnv(t)
	w := &world{env: env}
	for i := 0; i < 3; i++ {
		w.issuers = append(w.issuers, env.Account(fmt.Sprintf("issuer%d", i)))
	}
	for i := 0; i < 2; i++ {
		w.validators = append(w.validators, env.Account(fmt.Sprintf("validator%d", i)))
	}
	for i := 0; i < 4; i++ {
		w.holders = append(w.holders, env.Wallet(i))
	}
	w.everyone = append(w.everyone, env.Deployer())
	w.everyone = append(w.everyone, w.issuers...)
	w.everyone = append(w.everyone, w.validators...)
	w.everyone = append(w.everyone, w.holders...)

	admin := env.Deployer()
	for _, acc := range w.issuers {
		jtx.RequireTxSuccess(t, env.Submit(builders.AddIssuer(admin, acc).Build()))
	}
	for _, acc := range w.validators {
		jtx.RequireTxSuccess(t, env.Submit(builders.AddValidator(admin, acc).Build()))
	}
	return w
}

type snapshot struct {
	balances []uint64
	issued   uint64
	retired  uint64
}

func (w *world) snapshot() snapshot {
	s := snapshot{issued: w.env.Issued(), retired: w.env.Retired()}
	for _, acc := range w.everyone {
		s.balances = append(s.balances, w.env.Balance(acc))
	}
	return s
}

func pick(r *rand.Rand, accs []*jtx.Account) *jtx.Account {
	return accs[r.IntN(len(accs))]
}

// randomCall builds a call that may or may not be valid for the current state.
func (w *world) randomCall(r *rand.Rand) tx.Transaction {
	anyone := pick(r, w.everyone)
	amount := func(holder *jtx.Account) uint64 {
		return uint64(r.IntN(int(w.env.Balance(holder)) + 20))
	}

	switch r.IntN(7) {
	case 0:
		return builders.Issue(pick(r, w.everyone), uint64(r.IntN(500)), "Project").Build()
	case 1:
		from := pick(r, w.everyone)
		return builders.Transfer(from, pick(r, w.everyone), amount(from)).Build()
	case 2:
		return builders.Retire(anyone, amount(anyone)).Build()
	case 3:
		return builders.Validate(anyone, pick(r, w.issuers)).Build()
	case 4:
		return builders.SetPrice(anyone, uint64(r.IntN(5000))).Build()
	case 5:
		from := pick(r, w.everyone)
		return builders.Transfer(from, pick(r, w.everyone), amount(from)).SubmittedBy(anyone).Build()
	default:
		return builders.AddIssuer(anyone, pick(r, w.holders)).Build()
	}
}

func TestRandomCallsPreserveConservation(t *testing.T) {
	w := newWorld(t)
	r := rand.New(rand.NewPCG(7, 11))

	var applied, rejected int
	for i := 0; i < 400; i++ {
		before := w.snapshot()
		call := w.randomCall(r)
		res := w.env.Submit(call)
		after := w.snapshot()

		if res.Success {
			applied++
		} else {
			rejected++
			require.Equal(t, before, after, "rejected %s (%s) changed state", call.TxType(), res.Code)
			require.Error(t, res.Err)
		}

		require.GreaterOrEqual(t, after.retired, before.retired, "retired total decreased")
		require.GreaterOrEqual(t, after.issued, before.issued, "issued total decreased")
		jtx.RequireConservation(t, w.env, w.everyone...)

		if i%50 == 49 {
			w.env.Close()
		}
	}
	require.Positive(t, applied)
	require.Positive(t, rejected)
}

func TestRandomBlocksPreserveConservation(t *testing.T) {
	w := newWorld(t)
	r := rand.New(rand.NewPCG(3, 5))

	for b := 0; b < 20; b++ {
		calls := make([]tx.Transaction, 0, 10)
		for i := 0; i < 10; i++ {
			calls = append(calls, w.randomCall(r))
		}
		block := w.env.MineBlock(calls...)
		require.Len(t, block.Results, len(calls))
		require.Equal(t, block.Index, w.env.ValidatedIndex())
		jtx.RequireConservation(t, w.env, w.everyone...)
	}
}

func TestOnlyRegisteredRolesAct(t *testing.T) {
	w := newWorld(t)
	env := w.env

	for _, acc := range w.holders {
		jtx.RequireTxError(t, env.Submit(builders.Issue(acc, 10, "Nope").Build()), tx.ErrNotAnIssuer)
		jtx.RequireTxError(t, env.Submit(builders.Validate(acc, w.issuers[0]).Build()), tx.ErrNotAValidator)
		jtx.RequireTxError(t, env.Submit(builders.AddIssuer(acc, acc).Build()), tx.ErrUnauthorized)
		jtx.RequireTxError(t, env.Submit(builders.AddValidator(acc, acc).Build()), tx.ErrUnauthorized)
	}
	for _, acc := range w.validators {
		jtx.RequireTxError(t, env.Submit(builders.Issue(acc, 10, "Nope").Build()), tx.ErrNotAnIssuer)
	}
	for _, acc := range w.issuers {
		jtx.RequireTxError(t, env.Submit(builders.Validate(acc, acc).Build()), tx.ErrNotAValidator)
	}

	require.Zero(t, env.Issued())
	jtx.RequireConservation(t, env, w.everyone...)
}
