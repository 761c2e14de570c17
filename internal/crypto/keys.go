package crypto

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	common "github.com/LeJamon/carbond/internal/crypto/common"
)

// Key-related errors.
var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidPublicKey  = errors.New("invalid public key")
	ErrInvalidSignature  = errors.New("invalid signature")

	// ErrNonCanonicalSignature is a valid signature whose S is in the upper
	// half of the curve order.
	ErrNonCanonicalSignature = fmt.Errorf("%w: not fully canonical", ErrInvalidSignature)
)

// CompressedPubKeyLen is the length of a compressed secp256k1 public key.
const CompressedPubKeyLen = 33

// KeyPair is a secp256k1 signing key used by principals to sign transactions.
type KeyPair struct {
	privateKey *btcec.PrivateKey
	publicKey  *btcec.PublicKey
}

// GenerateKeyPair creates a new random key pair.
func GenerateKeyPair() (*KeyPair, error) {
	privateKey, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate private key: %w", err)
	}
	return &KeyPair{privateKey: privateKey, publicKey: privateKey.PubKey()}, nil
}

// KeyPairFromSeed derives a deterministic key pair from arbitrary seed bytes.
// The private scalar is the first half of SHA-512(seed).
func KeyPairFromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) == 0 {
		return nil, errors.New("seed must not be empty")
	}
	hash := sha512.Sum512(seed)
	defer SecureErase(hash[:])
	privateKey, publicKey := btcec.PrivKeyFromBytes(hash[:32])
	return &KeyPair{privateKey: privateKey, publicKey: publicKey}, nil
}

// KeyPairFromHex restores a key pair from a hex-encoded 32-byte private key.
func KeyPairFromHex(privHex string) (*KeyPair, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(privHex))
	defer SecureErase(raw)
	if err != nil || len(raw) != 32 {
		return nil, ErrInvalidPrivateKey
	}
	privateKey, publicKey := btcec.PrivKeyFromBytes(raw)
	return &KeyPair{privateKey: privateKey, publicKey: publicKey}, nil
}

// PublicKey returns the 33-byte compressed public key.
func (k *KeyPair) PublicKey() []byte {
	return k.publicKey.SerializeCompressed()
}

// PublicKeyHex returns the compressed public key as upper-case hex.
func (k *KeyPair) PublicKeyHex() string {
	return strings.ToUpper(hex.EncodeToString(k.PublicKey()))
}

// PrivateKeyHex returns the private key as upper-case hex.
func (k *KeyPair) PrivateKeyHex() string {
	return strings.ToUpper(hex.EncodeToString(k.privateKey.Serialize()))
}

// PrincipalID returns RIPEMD160(SHA256(pubkey)).
func (k *KeyPair) PrincipalID() [PrincipalIDSize]byte {
	return CalcPrincipalID(k.PublicKey())
}

// Sign signs SHA512-Half(message) and returns a DER-encoded signature.
func (k *KeyPair) Sign(message []byte) []byte {
	digest := common.Sha512Half(message)
	return btcecdsa.Sign(k.privateKey, digest[:]).Serialize()
}

// Verify checks a fully canonical DER signature over SHA512-Half(message)
// for the given compressed public key.
func Verify(publicKey, message, signature []byte) error {
	if len(publicKey) != CompressedPubKeyLen {
		return ErrInvalidPublicKey
	}
	switch ECDSACanonicality(signature) {
	case CanonicityNone:
		return fmt.Errorf("%w: malformed DER", ErrInvalidSignature)
	case CanonicityCanonical:
		return ErrNonCanonicalSignature
	}
	pub, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	sig, err := secpecdsa.ParseDERSignature(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	digest := common.Sha512Half(message)
	if !sig.Verify(digest[:], pub) {
		return ErrInvalidSignature
	}
	return nil
}
