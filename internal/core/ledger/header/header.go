package header

import (
	"encoding/binary"
	"errors"
	"time"

	crypto "github.com/LeJamon/carbond/internal/crypto/common"
)

// SerializedSize is the length of a serialized header without its hash.
const SerializedSize = 4 + 32 + 32 + 32 + 8 + 8 + 4

// ErrShortHeader is returned when decoding fewer than SerializedSize bytes.
var ErrShortHeader = errors.New("ledger header too short")

// LedgerHeader holds the fields that identify a closed ledger.
type LedgerHeader struct {
	LedgerIndex     uint32
	ParentHash      [32]byte
	TxHash          [32]byte
	StateHash       [32]byte
	ParentCloseTime time.Time
	CloseTime       time.Time
	TxCount         uint32

	// Hash is SHA512-Half over the serialized fields. Zero for open ledgers.
	Hash [32]byte
}

// Serialize writes the header fields in a fixed big-endian layout.
func (h *LedgerHeader) Serialize() []byte {
	buf := make([]byte, SerializedSize)
	off := 0
	binary.BigEndian.PutUint32(buf[off:], h.LedgerIndex)
	off += 4
	off += copy(buf[off:], h.ParentHash[:])
	off += copy(buf[off:], h.TxHash[:])
	off += copy(buf[off:], h.StateHash[:])
	binary.BigEndian.PutUint64(buf[off:], uint64(h.ParentCloseTime.Unix()))
	off += 8
	binary.BigEndian.PutUint64(buf[off:], uint64(h.CloseTime.Unix()))
	off += 8
	binary.BigEndian.PutUint32(buf[off:], h.TxCount)
	return buf
}

// ComputeHash returns the ledger hash for the current field values.
func (h *LedgerHeader) ComputeHash() [32]byte {
	return crypto.Sha512Half(crypto.PrefixLedgerHeader, h.Serialize())
}

// DeserializeHeader decodes a header produced by Serialize and recomputes its hash.
func DeserializeHeader(data []byte) (*LedgerHeader, error) {
	if len(data) < SerializedSize {
		return nil, ErrShortHeader
	}
	h := &LedgerHeader{}
	off := 0
	h.LedgerIndex = binary.BigEndian.Uint32(data[off:])
	off += 4
	off += copy(h.ParentHash[:], data[off:off+32])
	off += copy(h.TxHash[:], data[off:off+32])
	off += copy(h.StateHash[:], data[off:off+32])
	h.ParentCloseTime = time.Unix(int64(binary.BigEndian.Uint64(data[off:])), 0).UTC()
	off += 8
	h.CloseTime = time.Unix(int64(binary.BigEndian.Uint64(data[off:])), 0).UTC()
	off += 8
	h.TxCount = binary.BigEndian.Uint32(data[off:])
	h.Hash = h.ComputeHash()
	return h, nil
}
