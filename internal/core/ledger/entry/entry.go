package entry

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// Type represents a ledger entry type
type Type uint16

// All known ledger entry types
const (
	TypeAccountRoot   Type = 0x0061 // Principal balance and sequence
	TypeIssuerRole    Type = 0x0069 // Issuer registry membership
	TypeValidatorRole Type = 0x0076 // Validator registry membership
	TypeIssuance      Type = 0x0063 // Per-issuer issuance record
	TypeTotals        Type = 0x0074 // Issued/retired totals (singleton)
)

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypeIssuerRole:
		return "IssuerRole"
	case TypeValidatorRole:
		return "ValidatorRole"
	case TypeIssuance:
		return "Issuance"
	case TypeTotals:
		return "Totals"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}

var cborHandle = newHandle()

func newHandle() *codec.CborHandle {
	h := &codec.CborHandle{}
	h.Canonical = true
	return h
}

// Handle returns the canonical CBOR handle shared by ledger entries and
// transaction signing payloads.
func Handle() *codec.CborHandle {
	return cborHandle
}

// Marshal encodes a ledger entry into its canonical binary form.
func Marshal(v any) ([]byte, error) {
	var buf []byte
	if err := codec.NewEncoderBytes(&buf, cborHandle).Encode(v); err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}
	return buf, nil
}

// Unmarshal decodes a ledger entry from its binary form.
func Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("decode entry: empty data")
	}
	if err := codec.NewDecoderBytes(data, cborHandle).Decode(v); err != nil {
		return fmt.Errorf("decode entry: %w", err)
	}
	return nil
}
