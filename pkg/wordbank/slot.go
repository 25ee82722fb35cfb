package wordbank

import "sort"

// Bank is the order value of a word resting in the bank.
const Bank = -1

// Slot holds the per-word state of a word bank. Slots are addressed by word
// index and are never reallocated while a word list is in use.
type Slot struct {
	// Order is Bank or the word's rank in the answer area.
	Order int `json:"order" bson:"order"`

	// Width and Height are the measured size of the rendered word.
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	// X and Y are the computed position while answered.
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`

	// OriginalX and OriginalY are the resting position in the bank.
	OriginalX float64 `json:"original_x" bson:"original_x"`
	OriginalY float64 `json:"original_y" bson:"original_y"`
}

// InBank reports whether the slot rests in the bank. Any negative order
// counts as the bank; only [Dense] insists on exactly Bank.
func (s Slot) InBank() bool { return s.Order < 0 }

// Answered reports whether the slot holds a rank in the answer area.
func (s Slot) Answered() bool { return s.Order >= 0 }

// answered returns the indices of answered slots sorted by rank. Ties keep
// slot index order.
func answered(slots []Slot) []int {
	idx := make([]int, 0, len(slots))
	for i := range slots {
		if slots[i].Answered() {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return slots[idx[a]].Order < slots[idx[b]].Order
	})
	return idx
}

// assignRanks writes ranks 0..len(idx)-1 in idx order.
func assignRanks(slots []Slot, idx []int) {
	for rank, i := range idx {
		slots[i].Order = rank
	}
}

// Orders returns a copy of every slot's order.
func Orders(slots []Slot) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = s.Order
	}
	return out
}

// Widths returns a copy of every slot's measured width.
func Widths(slots []Slot) []float64 {
	out := make([]float64, len(slots))
	for i, s := range slots {
		out[i] = s.Width
	}
	return out
}

// Dense reports whether the answered orders are exactly {0, ..., k-1} and
// every other order is Bank.
func Dense(orders []int) bool {
	k := 0
	for _, o := range orders {
		if o != Bank {
			k++
		}
	}
	seen := make([]bool, k)
	for _, o := range orders {
		if o == Bank {
			continue
		}
		if o < 0 || o >= k || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}
