package keylet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
)

func TestKeyletsAreNamespaced(t *testing.T) {
	id := [20]byte{0xAA, 0xBB}

	keys := []Keylet{Account(id), Issuer(id), Validator(id), Issuance(id), Totals()}
	seen := make(map[[32]byte]entry.Type)
	for _, k := range keys {
		if prev, dup := seen[k.Key]; dup {
			t.Fatalf("key collision between %s and %s", prev, k.Type)
		}
		seen[k.Key] = k.Type
	}

	assert.Equal(t, entry.TypeIssuance, Issuance(id).Type)
	assert.Equal(t, Totals(), Totals())
	assert.NotEqual(t, Account(id), Account([20]byte{0x01}))
	assert.Len(t, Account(id).String(), 64)
}
