package tx

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/crypto"
	common "github.com/LeJamon/carbond/internal/crypto/common"
)

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrSignerMismatch   = errors.New("signing key does not match account")
)

// encode returns the canonical CBOR encoding of a transaction.
func encode(t Transaction) ([]byte, error) {
	c := t.GetCommon()
	if c.TransactionType == "" {
		c.TransactionType = t.TxType().String()
	}
	return entry.Marshal(t)
}

// Hash computes the transaction ID: SHA512-Half of "TXN\0" and the
// canonical encoding, signature included.
func Hash(t Transaction) ([32]byte, error) {
	body, err := encode(t)
	if err != nil {
		return [32]byte{}, err
	}
	return common.Sha512Half(common.PrefixTransactionID, body), nil
}

// SigningPayload returns the bytes a signer signs: "STX\0" followed by the
// canonical encoding with TxnSignature cleared.
func SigningPayload(t Transaction) ([]byte, error) {
	c := t.GetCommon()
	sig := c.TxnSignature
	c.TxnSignature = ""
	defer func() { c.TxnSignature = sig }()

	body, err := encode(t)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, 0, len(common.PrefixTxSign)+len(body))
	payload = append(payload, common.PrefixTxSign...)
	return append(payload, body...), nil
}

// Sign fills SigningPubKey and TxnSignature. If Account is empty it is set
// to the key's principal.
func Sign(t Transaction, key *crypto.KeyPair) error {
	c := t.GetCommon()
	if c.Account == "" {
		c.Account = principal.FromPublicKey(key.PublicKey())
	}
	c.SigningPubKey = key.PublicKeyHex()

	payload, err := SigningPayload(t)
	if err != nil {
		return fmt.Errorf("signing payload: %w", err)
	}
	c.TxnSignature = strings.ToUpper(hex.EncodeToString(key.Sign(payload)))
	return nil
}

// VerifySignature checks that the transaction is signed by the key that
// owns its Account.
func VerifySignature(t Transaction) error {
	c := t.GetCommon()
	if c.SigningPubKey == "" || c.TxnSignature == "" {
		return ErrMissingSignature
	}
	pub, err := hex.DecodeString(c.SigningPubKey)
	if err != nil {
		return fmt.Errorf("%w: %v", crypto.ErrInvalidPublicKey, err)
	}
	sig, err := hex.DecodeString(c.TxnSignature)
	if err != nil {
		return fmt.Errorf("%w: %v", crypto.ErrInvalidSignature, err)
	}
	if principal.FromPublicKey(pub) != c.Account {
		return ErrSignerMismatch
	}
	payload, err := SigningPayload(t)
	if err != nil {
		return err
	}
	return crypto.Verify(pub, payload, sig)
}
