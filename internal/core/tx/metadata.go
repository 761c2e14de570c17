package tx

import (
	"encoding/json"
	"reflect"

	"github.com/LeJamon/carbond/internal/core/ledger/entry"
	"github.com/LeJamon/carbond/internal/core/ledger/keylet"
)

// Metadata tracks changes made by a transaction
type Metadata struct {
	// AffectedNodes lists all entries that were created, modified, or deleted
	AffectedNodes []AffectedNode

	// TransactionIndex is the index in the ledger
	TransactionIndex uint32

	// TransactionResult is the result code
	TransactionResult Result
}

// AffectedNode describes one changed ledger entry
type AffectedNode struct {
	NodeType        string // CreatedNode, ModifiedNode or DeletedNode
	LedgerEntryType string
	LedgerIndex     string
	NewFields       map[string]any
	FinalFields     map[string]any
	PreviousFields  map[string]any
}

// MarshalJSON nests each node under its node type:
// {"ModifiedNode": {"LedgerEntryType": ..., "FinalFields": ...}}
func (m Metadata) MarshalJSON() ([]byte, error) {
	nodes := make([]map[string]any, 0, len(m.AffectedNodes))
	for _, n := range m.AffectedNodes {
		inner := map[string]any{
			"LedgerEntryType": n.LedgerEntryType,
			"LedgerIndex":     n.LedgerIndex,
		}
		if n.NewFields != nil {
			inner["NewFields"] = n.NewFields
		}
		if n.FinalFields != nil {
			inner["FinalFields"] = n.FinalFields
		}
		if len(n.PreviousFields) > 0 {
			inner["PreviousFields"] = n.PreviousFields
		}
		nodes = append(nodes, map[string]any{n.NodeType: inner})
	}

	return json.Marshal(map[string]any{
		"AffectedNodes":     nodes,
		"TransactionIndex":  m.TransactionIndex,
		"TransactionResult": m.TransactionResult.String(),
	})
}

func decodeFields(data []byte) map[string]any {
	fields := make(map[string]any)
	if len(data) == 0 {
		return fields
	}
	if err := entry.Unmarshal(data, &fields); err != nil {
		return map[string]any{}
	}
	for k, v := range fields {
		fields[k] = normalize(v)
	}
	return fields
}

// normalize converts generic decoder output into JSON-friendly values.
func normalize(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			if s, ok := k.(string); ok {
				out[s] = normalize(val)
			}
		}
		return out
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	default:
		return v
	}
}

func buildCreatedNode(k keylet.Keylet, data []byte) AffectedNode {
	return AffectedNode{
		NodeType:        "CreatedNode",
		LedgerEntryType: k.Type.String(),
		LedgerIndex:     k.String(),
		NewFields:       decodeFields(data),
	}
}

func buildModifiedNode(k keylet.Keylet, original, current []byte) AffectedNode {
	orig := decodeFields(original)
	curr := decodeFields(current)

	prev := make(map[string]any)
	for name, ov := range orig {
		if cv, ok := curr[name]; !ok || !reflect.DeepEqual(ov, cv) {
			prev[name] = ov
		}
	}

	return AffectedNode{
		NodeType:        "ModifiedNode",
		LedgerEntryType: k.Type.String(),
		LedgerIndex:     k.String(),
		FinalFields:     curr,
		PreviousFields:  prev,
	}
}

func buildDeletedNode(k keylet.Keylet, current []byte) AffectedNode {
	return AffectedNode{
		NodeType:        "DeletedNode",
		LedgerEntryType: k.Type.String(),
		LedgerIndex:     k.String(),
		FinalFields:     decodeFields(current),
	}
}
