package keylet

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	crypto "github.com/LeJamon/carbond/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spaceAccount   uint16 = 'a' // Principal balance
	spaceIssuer    uint16 = 'i' // Issuer registry membership
	spaceValidator uint16 = 'v' // Validator registry membership
	spaceIssuance  uint16 = 'c' // Issuance record
	spaceTotals    uint16 = 't' // Totals (singleton)
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// String returns the key as upper-case hex.
func (k Keylet) String() string {
	return strings.ToUpper(hex.EncodeToString(k.Key[:]))
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)
	return crypto.Sha512Half(inputs...)
}

// Account returns the keylet for a principal's account root.
func Account(id [20]byte) Keylet {
	return Keylet{Type: entry.TypeAccountRoot, Key: indexHash(spaceAccount, id[:])}
}

// Issuer returns the keylet for an issuer registry entry.
func Issuer(id [20]byte) Keylet {
	return Keylet{Type: entry.TypeIssuerRole, Key: indexHash(spaceIssuer, id[:])}
}

// Validator returns the keylet for a validator registry entry.
func Validator(id [20]byte) Keylet {
	return Keylet{Type: entry.TypeValidatorRole, Key: indexHash(spaceValidator, id[:])}
}

// Issuance returns the keylet for an issuer's issuance record.
func Issuance(id [20]byte) Keylet {
	return Keylet{Type: entry.TypeIssuance, Key: indexHash(spaceIssuance, id[:])}
}

// Totals returns the keylet for the singleton totals entry.
func Totals() Keylet {
	return Keylet{Type: entry.TypeTotals, Key: indexHash(spaceTotals)}
}
