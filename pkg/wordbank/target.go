package wordbank

import (
	"github.com/matzehuels/wordbank/pkg/errors"
)

// Orders returns the order of every word, indexed by word.
func (b *Board) Orders() []int { return Orders(b.Slots) }

// SetOrders replaces every word's order and relayouts when ready. The
// orders must be Bank or a dense ranking; anything else is rejected without
// touching the board.
func (b *Board) SetOrders(orders []int) error {
	if len(orders) != len(b.Slots) {
		return errors.New(errors.ErrCodeInvalidInput, "got %d orders for %d words", len(orders), len(b.Slots))
	}
	if !Dense(orders) {
		return errors.New(errors.ErrCodeInvalidOrder, "orders are not a dense ranking: %v", orders)
	}
	for i, o := range orders {
		b.Slots[i].Order = o
	}
	return b.relayout()
}

// ApplyTarget places every word at the position the same word has in
// target. When a word occurs more than once in target its last position
// wins, so repeated words share a rank and are then ordered by word index.
// Words missing from target go to the bank.
func (b *Board) ApplyTarget(target []string) error {
	pos := make(map[string]int, len(target))
	for i, w := range target {
		pos[w] = i
	}
	for i, w := range b.Words {
		if p, ok := pos[w]; ok {
			b.Slots[i].Order = p
		} else {
			b.Slots[i].Order = Bank
		}
	}
	Compact(b.Slots)
	return b.relayout()
}

// ApplyTargetUnique places every word at the first position in target that
// holds the same word and has not been claimed by an earlier word. Repeated
// words therefore fill repeated target positions one each.
func (b *Board) ApplyTargetUnique(target []string) error {
	used := make([]bool, len(target))
	for i, w := range b.Words {
		b.Slots[i].Order = Bank
		for j, t := range target {
			if t == w && !used[j] {
				used[j] = true
				b.Slots[i].Order = j
				break
			}
		}
	}
	Compact(b.Slots)
	return b.relayout()
}

// Answered returns the answered words in rank order.
func (b *Board) Answered() []string {
	idx := answered(b.Slots)
	out := make([]string, len(idx))
	for n, i := range idx {
		out[n] = b.Words[i]
	}
	return out
}

// Split returns the answered words in rank order and the bank words in
// word order.
func (b *Board) Split() (answeredWords, bankWords []string) {
	answeredWords = b.Answered()
	bankWords = make([]string, 0, len(b.Words)-len(answeredWords))
	for i, s := range b.Slots {
		if s.InBank() {
			bankWords = append(bankWords, b.Words[i])
		}
	}
	return answeredWords, bankWords
}

func (b *Board) relayout() error {
	if !b.Ready() {
		return nil
	}
	return b.Layout()
}
