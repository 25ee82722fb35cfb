package wordbank

import (
	"github.com/matzehuels/wordbank/pkg/errors"
)

// LastOrder returns the number of answered slots, which is also the rank a
// word receives when it is appended to the answer area.
func LastOrder(slots []Slot) int {
	n := 0
	for _, s := range slots {
		if s.Answered() {
			n++
		}
	}
	return n
}

// RemoveFromAnswered closes the gap left by the slot at index removed: every
// other answered slot is re-ranked 0..k-2 keeping its relative order. The
// removed slot's own order is not touched; callers set it to Bank.
func RemoveFromAnswered(slots []Slot, removed int) error {
	if removed < 0 || removed >= len(slots) {
		return errors.New(errors.ErrCodeInvalidIndex, "slot %d out of range [0, %d)", removed, len(slots))
	}
	idx := answered(slots)
	rest := make([]int, 0, len(idx))
	for _, i := range idx {
		if i != removed {
			rest = append(rest, i)
		}
	}
	assignRanks(slots, rest)
	return nil
}

// ReorderWithinAnswered moves the answered word at position from to position
// to, both counted within the rank-sorted answer area, and re-ranks every
// answered slot by its new position.
func ReorderWithinAnswered(slots []Slot, from, to int) error {
	moved, err := Move(answered(slots), from, to)
	if err != nil {
		return err
	}
	assignRanks(slots, moved)
	return nil
}

// Compact re-ranks answered slots to 0..k-1 keeping their relative order,
// breaking ties by slot index. It restores density after orders were seeded
// from outside.
func Compact(slots []Slot) {
	assignRanks(slots, answered(slots))
}

// Move returns a copy of seq with the element at from removed and reinserted
// at to. Negative indices count from the end. Indices that are still out of
// range after wrapping are rejected and the copy is returned unchanged.
func Move[T any](seq []T, from, to int) ([]T, error) {
	out := make([]T, len(seq))
	copy(out, seq)

	n := len(out)
	if n == 0 {
		return out, errors.New(errors.ErrCodeInvalidIndex, "move in empty sequence")
	}
	f, t := wrap(from, n), wrap(to, n)
	if f < 0 || f >= n || t < 0 || t >= n {
		return out, errors.New(errors.ErrCodeInvalidIndex, "move %d -> %d out of range [0, %d)", from, to, n)
	}
	if f == t {
		return out, nil
	}

	item := out[f]
	if f < t {
		copy(out[f:t], out[f+1:t+1])
	} else {
		copy(out[t+1:f+1], out[t:f])
	}
	out[t] = item
	return out, nil
}

func wrap(i, n int) int {
	for i < 0 {
		i += n
	}
	return i
}

// Between reports whether value lies within [lower, upper], or within
// (lower, upper) when inclusive is false.
func Between(value, lower, upper float64, inclusive bool) bool {
	if inclusive {
		return value >= lower && value <= upper
	}
	return value > lower && value < upper
}
