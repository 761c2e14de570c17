package testing

import (
	"crypto/sha512"

	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
	"github.com/LeJamon/carbond/internal/crypto"
)

// Account represents a test identity with a secp256k1 key pair and the
// principal derived from it.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Seed is the seed the key pair was derived from.
	Seed []byte

	// Principal is the encoded identity used in transactions and queries.
	Principal principal.Principal

	Key *crypto.KeyPair
}

// NewAccount creates a new test account with a deterministic keypair derived from the name.
// Using the same name will always produce the same account, making tests reproducible.
func NewAccount(name string) *Account {
	hash := sha512.Sum512([]byte(name))
	seed := hash[:16]

	key, err := crypto.KeyPairFromSeed(seed)
	if err != nil {
		panic("failed to derive keypair for account " + name + ": " + err.Error())
	}

	return &Account{
		Name:      name,
		Seed:      seed,
		Principal: principal.FromPublicKey(key.PublicKey()),
		Key:       key,
	}
}

// AdminAccount returns the account every TestEnv uses as its admin.
func AdminAccount() *Account {
	return NewAccount("admin")
}

// Address returns the account's principal.
func (a *Account) Address() principal.Principal {
	return a.Principal
}

// ID returns the 20-byte identity behind the principal.
func (a *Account) ID() principal.ID {
	return a.Principal.ID()
}

// PublicKeyHex returns the compressed public key as hex.
func (a *Account) PublicKeyHex() string {
	return a.Key.PublicKeyHex()
}

// Sign fills the signing fields of t with this account's key.
func (a *Account) Sign(t tx.Transaction) error {
	return tx.Sign(t, a.Key)
}

func (a *Account) String() string {
	return a.Name + " (" + string(a.Principal) + ")"
}
