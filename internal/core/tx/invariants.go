package tx

import (
	"fmt"
	"math/big"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
)

// InvariantViolation describes a failed post-apply check.
type InvariantViolation struct {
	Name   string
	Detail string
}

func (v InvariantViolation) Error() string {
	return fmt.Sprintf("invariant %s violated: %s", v.Name, v.Detail)
}

// CheckInvariants verifies the pending changes of one transaction:
// credit is conserved, retirements never shrink, validation counts match
// their sets, and registries and issuance records are never removed.
func CheckInvariants(table *ApplyStateTable) error {
	balanceDelta := new(big.Int)
	issuedDelta := new(big.Int)
	retiredDelta := new(big.Int)

	for _, e := range table.Entries() {
		switch e.Type {
		case entry.TypeAccountRoot:
			before, after, err := accountBalances(e)
			if err != nil {
				return err
			}
			balanceDelta.Add(balanceDelta, new(big.Int).SetUint64(after))
			balanceDelta.Sub(balanceDelta, new(big.Int).SetUint64(before))

		case entry.TypeTotals:
			if e.Action == ActionErase {
				return InvariantViolation{"Totals", "totals entry erased"}
			}
			var before, after entry.Totals
			if e.Original != nil {
				if err := entry.Unmarshal(e.Original, &before); err != nil {
					return err
				}
			}
			if err := entry.Unmarshal(e.Current, &after); err != nil {
				return err
			}
			if after.Retired < before.Retired {
				return InvariantViolation{"RetiredMonotonic", fmt.Sprintf("retired %d -> %d", before.Retired, after.Retired)}
			}
			issuedDelta.SetUint64(after.Issued)
			issuedDelta.Sub(issuedDelta, new(big.Int).SetUint64(before.Issued))
			retiredDelta.SetUint64(after.Retired - before.Retired)

		case entry.TypeIssuance:
			if e.Action == ActionErase {
				return InvariantViolation{"IssuanceRetained", "issuance record erased"}
			}
			var rec entry.Issuance
			if err := entry.Unmarshal(e.Current, &rec); err != nil {
				return err
			}
			if int(rec.Validations) != len(rec.Validators) {
				return InvariantViolation{"ValidationCount", fmt.Sprintf("count %d, set size %d", rec.Validations, len(rec.Validators))}
			}

		case entry.TypeIssuerRole, entry.TypeValidatorRole:
			if e.Action == ActionErase {
				return InvariantViolation{"RegistryGrowOnly", e.Type.String() + " erased"}
			}
		}
	}

	// balances + retired == issued must hold before and after, so the
	// deltas must cancel out.
	lhs := new(big.Int).Add(balanceDelta, retiredDelta)
	if lhs.Cmp(issuedDelta) != 0 {
		return InvariantViolation{"Conservation", fmt.Sprintf("balance delta %s + retired delta %s != issued delta %s", balanceDelta, retiredDelta, issuedDelta)}
	}
	return nil
}

func accountBalances(e *TrackedEntry) (before, after uint64, err error) {
	if e.Original != nil {
		var a entry.AccountRoot
		if err := entry.Unmarshal(e.Original, &a); err != nil {
			return 0, 0, err
		}
		before = a.Balance
	}
	if e.Action != ActionErase {
		var a entry.AccountRoot
		if err := entry.Unmarshal(e.Current, &a); err != nil {
			return 0, 0, err
		}
		after = a.Balance
	}
	return before, after, nil
}
