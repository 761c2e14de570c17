package tx

import "fmt"

// Type represents a transaction type code
type Type uint16

// All transaction type codes
const (
	TypeInvalid Type = 0xFFFF

	TypeAddIssuer       Type = 1
	TypeAddValidator    Type = 2
	TypeIssueCredits    Type = 3
	TypeTransferCredits Type = 4
	TypeRetireCredits   Type = 5
	TypeValidateCredits Type = 6
	TypeSetCreditPrice  Type = 7
)

var typeNames = map[Type]string{
	TypeAddIssuer:       "AddIssuer",
	TypeAddValidator:    "AddValidator",
	TypeIssueCredits:    "IssueCredits",
	TypeTransferCredits: "TransferCredits",
	TypeRetireCredits:   "RetireCredits",
	TypeValidateCredits: "ValidateCredits",
	TypeSetCreditPrice:  "SetCreditPrice",
}

var typeByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		m[name] = t
	}
	return m
}()

// String returns the transaction type name
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}

// TypeFromName returns the Type for a transaction type name
func TypeFromName(name string) (Type, bool) {
	t, ok := typeByName[name]
	return t, ok
}

// IsAdminOnly reports whether only the ledger admin may submit this type.
func (t Type) IsAdminOnly() bool {
	return t == TypeAddIssuer || t == TypeAddValidator
}
