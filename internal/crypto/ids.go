package crypto

import (
	"crypto/sha256"

	"github.com/decred/dcrd/crypto/ripemd160"
)

// PrincipalIDSize is the size of a principal ID in bytes.
const PrincipalIDSize = 20

// CalcPrincipalID computes the principal ID from a public key.
// The ID is RIPEMD160(SHA256(publicKey)), computed over the full compressed key.
func CalcPrincipalID(publicKey []byte) [PrincipalIDSize]byte {
	sha256Hash := sha256.Sum256(publicKey)

	ripemd160Hasher := ripemd160.New()
	ripemd160Hasher.Write(sha256Hash[:])
	ripemd160Hash := ripemd160Hasher.Sum(nil)

	var result [PrincipalIDSize]byte
	copy(result[:], ripemd160Hash)
	return result
}

// PrincipalIDFromBytes creates a principal ID from a byte slice.
// Returns a zero ID if the slice is not exactly 20 bytes.
func PrincipalIDFromBytes(b []byte) [PrincipalIDSize]byte {
	var result [PrincipalIDSize]byte
	if len(b) == PrincipalIDSize {
		copy(result[:], b)
	}
	return result
}

// IsZeroPrincipalID returns true if the ID is all zeros.
func IsZeroPrincipalID(id [PrincipalIDSize]byte) bool {
	for _, b := range id {
		if b != 0 {
			return false
		}
	}
	return true
}
