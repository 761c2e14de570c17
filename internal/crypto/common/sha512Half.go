package crypto

import "crypto/sha512"

// Sha512Half returns the first 32 bytes of the SHA-512 digest of the
// concatenated inputs.
func Sha512Half(parts ...[]byte) [32]byte {
	h := sha512.New()
	for _, p := range parts {
		h.Write(p)
	}
	var result [32]byte
	copy(result[:], h.Sum(nil)[:32])
	return result
}

// Hash prefixes used to domain-separate the different hashed objects.
var (
	PrefixTransactionID = []byte{'T', 'X', 'N', 0x00}
	PrefixTxSign        = []byte{'S', 'T', 'X', 0x00}
	PrefixLedgerHeader  = []byte{'L', 'W', 'R', 0x00}
	PrefixStateTree     = []byte{'M', 'L', 'N', 0x00}
	PrefixTxTree        = []byte{'S', 'N', 'D', 0x00}
)
