// Package spawn keeps the field populated: two independent timers create
// enemies and power-ups, and a fixed cumulative-probability table picks the
// category of each.
package spawn

import (
	"math/rand/v2"
)

// Entry is one row of a Table. Weights are relative.
type Entry[T any] struct {
	Value  T
	Weight int
}

// Table picks a value with one uniform draw against cumulative weights.
type Table[T any] struct {
	entries    []Entry[T]
	cumulative []int
	total      int
}

// NewTable builds a table. Entries with non-positive weight never win.
func NewTable[T any](entries ...Entry[T]) *Table[T] {
	t := &Table[T]{entries: entries, cumulative: make([]int, len(entries))}
	for i, e := range entries {
		if e.Weight > 0 {
			t.total += e.Weight
		}
		t.cumulative[i] = t.total
	}
	return t
}

// Pick maps u in [0, 1) onto the table.
func (t *Table[T]) Pick(u float64) T {
	var zero T
	if t.total == 0 {
		return zero
	}
	x := int(u * float64(t.total))
	for i, c := range t.cumulative {
		if x < c {
			return t.entries[i].Value
		}
	}
	return t.entries[len(t.entries)-1].Value
}

// Sample draws one value
func (t *Table[T]) Sample(rng *rand.Rand) T {
	return t.Pick(rng.Float64())
}

// Values returns the table's values in order
func (t *Table[T]) Values() []T {
	out := make([]T, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Value
	}
	return out
}

// Probability returns the share of draws that yield entry i
func (t *Table[T]) Probability(i int) float64 {
	if t.total == 0 || i < 0 || i >= len(t.entries) || t.entries[i].Weight <= 0 {
		return 0
	}
	return float64(t.entries[i].Weight) / float64(t.total)
}

// EnemyTable is basic 70%, fast 20%, heavy 10%.
func EnemyTable() *Table[string] {
	return NewTable(
		Entry[string]{Value: "basic", Weight: 70},
		Entry[string]{Value: "fast", Weight: 20},
		Entry[string]{Value: "heavy", Weight: 10},
	)
}

// PowerUpTable is ammo 70%, health 25%, shield 5%.
func PowerUpTable() *Table[string] {
	return NewTable(
		Entry[string]{Value: "ammo", Weight: 70},
		Entry[string]{Value: "health", Weight: 25},
		Entry[string]{Value: "shield", Weight: 5},
	)
}
