package manager

import (
	"fmt"
	"sort"
	"strings"
)

// LedgerRange is an inclusive range of ledger sequences.
type LedgerRange struct {
	Start uint32
	End   uint32
}

func (r LedgerRange) Contains(seq uint32) bool {
	return seq >= r.Start && seq <= r.End
}

func (r LedgerRange) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// CompleteLedgerSet tracks which ledger sequences are held locally as a
// sorted list of disjoint, non-adjacent ranges. It is not safe for
// concurrent use on its own.
type CompleteLedgerSet struct {
	ranges []LedgerRange
}

func NewCompleteLedgerSet() *CompleteLedgerSet {
	return &CompleteLedgerSet{}
}

func (c *CompleteLedgerSet) Add(seq uint32) {
	c.AddRange(seq, seq)
}

func (c *CompleteLedgerSet) AddRange(start, end uint32) {
	if start > end {
		start, end = end, start
	}
	merged := LedgerRange{Start: start, End: end}
	out := make([]LedgerRange, 0, len(c.ranges)+1)
	for _, r := range c.ranges {
		// disjoint and not adjacent
		if uint64(r.End)+1 < uint64(merged.Start) || uint64(merged.End)+1 < uint64(r.Start) {
			out = append(out, r)
			continue
		}
		merged.Start = min(merged.Start, r.Start)
		merged.End = max(merged.End, r.End)
	}
	out = append(out, merged)
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	c.ranges = out
}

func (c *CompleteLedgerSet) Contains(seq uint32) bool {
	i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].End >= seq })
	return i < len(c.ranges) && c.ranges[i].Contains(seq)
}

// Range returns the lowest and highest complete sequence.
func (c *CompleteLedgerSet) Range() (lo, hi uint32, hasAny bool) {
	if len(c.ranges) == 0 {
		return 0, 0, false
	}
	return c.ranges[0].Start, c.ranges[len(c.ranges)-1].End, true
}

// String renders the set the way server_info reports complete_ledgers,
// e.g. "1-5,7,9-12", or "empty".
func (c *CompleteLedgerSet) String() string {
	if len(c.ranges) == 0 {
		return "empty"
	}
	parts := make([]string, len(c.ranges))
	for i, r := range c.ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}
