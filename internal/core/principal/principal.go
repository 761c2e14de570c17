// Package principal implements the text encoding of ledger principals.
//
// A principal is identified by a 20-byte ID, RIPEMD160(SHA256(pubkey)).
// Its text form is base58(version || id || checksum), where the checksum is
// the first four bytes of SHA256(SHA256(version || id)).
package principal

import (
	"bytes"
	"crypto/sha256"
	"errors"

	"github.com/mr-tron/base58"

	"github.com/LeJamon/carbond/internal/crypto"
)

// Version is the leading byte of every encoded principal.
const Version byte = 0x1C

const checksumLen = 4

var (
	ErrEmpty       = errors.New("principal is empty")
	ErrBadEncoding = errors.New("principal is not valid base58")
	ErrBadLength   = errors.New("principal has wrong length")
	ErrBadVersion  = errors.New("principal has wrong version byte")
	ErrBadChecksum = errors.New("principal checksum mismatch")
)

// ID is the raw 20-byte principal identifier.
type ID = [crypto.PrincipalIDSize]byte

// Principal is the text form of a principal identity.
type Principal string

// Encode returns the text form of a raw principal ID.
func Encode(id ID) Principal {
	payload := make([]byte, 0, 1+len(id)+checksumLen)
	payload = append(payload, Version)
	payload = append(payload, id[:]...)
	payload = append(payload, checksum(payload)...)
	return Principal(base58.Encode(payload))
}

// FromPublicKey derives the principal of a compressed public key.
func FromPublicKey(pub []byte) Principal {
	return Encode(crypto.CalcPrincipalID(pub))
}

// Decode parses the text form and returns the raw ID.
func Decode(p Principal) (ID, error) {
	var id ID
	if p == "" {
		return id, ErrEmpty
	}
	raw, err := base58.Decode(string(p))
	if err != nil {
		return id, ErrBadEncoding
	}
	if len(raw) != 1+len(id)+checksumLen {
		return id, ErrBadLength
	}
	if raw[0] != Version {
		return id, ErrBadVersion
	}
	body := raw[:len(raw)-checksumLen]
	if !bytes.Equal(checksum(body), raw[len(raw)-checksumLen:]) {
		return id, ErrBadChecksum
	}
	copy(id[:], body[1:])
	return id, nil
}

// Validate reports whether p is a well-formed principal.
func (p Principal) Validate() error {
	_, err := Decode(p)
	return err
}

// ID returns the raw ID, or the zero ID if p is malformed.
func (p Principal) ID() ID {
	id, _ := Decode(p)
	return id
}

func (p Principal) String() string {
	return string(p)
}

func checksum(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}
