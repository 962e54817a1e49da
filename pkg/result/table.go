package result

import (
	"sort"
	"sync"

	"github.com/oisee/q15mul/pkg/fixed"
)

// Mismatch is one operand pair where a candidate disagreed with the golden model.
type Mismatch struct {
	A, B       fixed.Q15
	WantRaw    fixed.Q15
	WantResult fixed.Q15
	GotRaw     fixed.Q15
	GotResult  fixed.Q15
}

// RawDiffers reports whether the pre-sign-fix values disagree.
func (m Mismatch) RawDiffers() bool {
	return m.WantRaw != m.GotRaw
}

// Table stores mismatches found by concurrent workers.
type Table struct {
	mu   sync.Mutex
	rows []Mismatch
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a mismatch into the table.
func (t *Table) Add(m Mismatch) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, m)
}

// Mismatches returns a copy of all rows, sorted by operands.
func (t *Table) Mismatches() []Mismatch {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Mismatch, len(t.rows))
	copy(out, t.rows)
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// Len returns the number of mismatches.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}
