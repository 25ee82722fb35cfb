package wordbank

import (
	"slices"

	"github.com/matzehuels/wordbank/pkg/errors"
)

// Destination names where a dropped word ended up.
type Destination string

const (
	DestinationBank     Destination = "bank"
	DestinationAnswered Destination = "answered"
)

// DropEvent reports a word whose order changed through a tap or a drag.
type DropEvent struct {
	Index       int         `json:"index"`
	Destination Destination `json:"destination"`
	Position    int         `json:"position"`
}

// DropFunc receives drop events.
type DropFunc func(DropEvent)

// Measurement is the measured size of a rendered word and its resting
// position inside the bank's own wrapped layout.
type Measurement struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Vector is a point or a translation in container coordinates.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Gesture is an in-flight drag of one word. Before holds every word's order
// when the drag began.
type Gesture struct {
	Index  int    `json:"index"`
	Origin Vector `json:"origin"`
	Before []int  `json:"before"`
}

// Board is one word bank session. It owns the slot arena and applies taps
// and drags to it, keeping the layout consistent after every change.
//
// A Board is not safe for concurrent use.
type Board struct {
	Words       []string `json:"words"`
	Slots       []Slot   `json:"slots"`
	Params      Params   `json:"params"`
	BankOffsetY float64  `json:"bank_offset_y"`

	// BankLines is the number of lines the bank occupies; ReservedLines is
	// the number of answer lines kept free above it.
	BankLines     int `json:"bank_lines"`
	ReservedLines int `json:"reserved_lines"`

	// Lines is the number of answer lines in use after the last layout.
	Lines int `json:"lines"`

	Measured bool     `json:"measured"`
	Gesture  *Gesture `json:"gesture,omitempty"`

	onDrop DropFunc
}

// NewBoard creates a board for words with every word in the bank.
func NewBoard(words []string, p Params) *Board {
	b := &Board{
		Words:       append([]string(nil), words...),
		Slots:       make([]Slot, len(words)),
		Params:      p,
		BankOffsetY: DefaultBankOffsetY,
	}
	for i := range b.Slots {
		b.Slots[i].Order = Bank
	}
	return b
}

// OnDrop registers fn to receive drop events. A nil fn disables them.
func (b *Board) OnDrop(fn DropFunc) { b.onDrop = fn }

// Clone returns a deep copy of the board without its drop callback.
func (b *Board) Clone() *Board {
	c := *b
	c.Words = append([]string(nil), b.Words...)
	c.Slots = append([]Slot(nil), b.Slots...)
	if b.Gesture != nil {
		g := *b.Gesture
		g.Before = slices.Clone(b.Gesture.Before)
		c.Gesture = &g
	}
	c.onDrop = nil
	return &c
}

// Ready reports whether words and container have been measured.
func (b *Board) Ready() bool {
	return b.Measured && measured(b.Params.ContainerWidth)
}

// Measure records the measured size and bank position of every word and
// sends all words back to the bank. The number of distinct bank rows sets
// how many answer lines are reserved above the bank.
func (b *Board) Measure(ms []Measurement) error {
	if len(ms) != len(b.Slots) {
		return errors.New(errors.ErrCodeInvalidInput, "got %d measurements for %d words", len(ms), len(b.Slots))
	}
	rows := make(map[float64]struct{}, len(ms))
	for i, m := range ms {
		if !measured(m.Width) {
			return errors.New(errors.ErrCodeInvalidInput, "word %d has invalid width %v", i, m.Width)
		}
		rows[m.Y] = struct{}{}
	}

	b.BankLines = len(rows)
	b.ReservedLines = IdealLines(b.BankLines)
	reserved := b.ReservedHeight()
	for i, m := range ms {
		b.Slots[i] = Slot{
			Order:     Bank,
			Width:     m.Width,
			Height:    m.Height,
			OriginalX: m.X,
			OriginalY: m.Y + reserved + b.BankOffsetY,
		}
	}
	b.Measured = true
	b.Gesture = nil
	b.Lines = 0
	return nil
}

// SetContainerWidth updates the container width and relayouts when ready.
func (b *Board) SetContainerWidth(w float64) error {
	if w != 0 && !measured(w) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid container width %v", w)
	}
	b.Params.ContainerWidth = w
	if !b.Ready() {
		return nil
	}
	return b.Layout()
}

// Layout recomputes the position of every answered word.
func (b *Board) Layout() error {
	lines, err := ComputeLayout(b.Slots, b.Params)
	if err != nil {
		return err
	}
	b.Lines = lines
	return nil
}

// ReservedHeight is the height of the answer area. A pointer above it is
// inside the answer area, below it is over the bank.
func (b *Board) ReservedHeight() float64 {
	lh := b.Params.LineHeight()
	if b.ReservedLines == 0 {
		return lh
	}
	return float64(b.ReservedLines) * lh
}

// Height is the total height of answer area and bank.
func (b *Board) Height() float64 {
	bank := float64(b.BankLines)*(b.Params.WordHeight+b.Params.WordGap*2) + b.BankOffsetY*2
	return b.ReservedHeight() + bank
}

// Rest returns where word i is drawn when no gesture moves it: its computed
// position when answered, its bank position otherwise.
func (b *Board) Rest(i int) Vector {
	s := b.Slots[i]
	if s.Answered() {
		return Vector{X: s.X, Y: s.Y}
	}
	return Vector{X: s.OriginalX, Y: s.OriginalY + b.BankOffsetY}
}

// Tap moves word i between bank and answer area. A bank word is appended to
// the answer; an answered word returns to the bank and the remaining answer
// closes up.
func (b *Board) Tap(i int) (DropEvent, error) {
	if err := b.check(i); err != nil {
		return DropEvent{}, err
	}
	if err := b.toggle(i); err != nil {
		return DropEvent{}, err
	}
	if err := b.Layout(); err != nil {
		return DropEvent{}, err
	}
	ev := b.event(i)
	b.emit(ev)
	return ev, nil
}

// BeginDrag starts a drag of word i from its resting position.
func (b *Board) BeginDrag(i int) error {
	if err := b.check(i); err != nil {
		return err
	}
	if b.Gesture != nil {
		return errors.New(errors.ErrCodeInvalidInput, "word %d is already being dragged", b.Gesture.Index)
	}
	b.Gesture = &Gesture{
		Index:  i,
		Origin: b.Rest(i),
		Before: b.Orders(),
	}
	return nil
}

// DragUpdate moves the pointer of the active drag to its origin plus
// translation and applies at most one transition:
//
//   - a bank word above the bank threshold joins the answer at the end
//   - an answered word below the threshold returns to the bank
//   - an answered word over another answered word takes that word's rank
//
// It is safe to call once per pointer event; updates that change nothing
// leave the board untouched.
func (b *Board) DragUpdate(i int, translation Vector) error {
	g, err := b.gesture(i)
	if err != nil {
		return err
	}
	p := Vector{X: g.Origin.X + translation.X, Y: g.Origin.Y + translation.Y}
	threshold := b.ReservedHeight()
	s := b.Slots[i]

	switch {
	case s.InBank():
		if p.Y >= threshold {
			return nil
		}
		b.Slots[i].Order = LastOrder(b.Slots)
	case p.Y > threshold:
		if err := b.toggle(i); err != nil {
			return err
		}
	default:
		target, ok := b.hit(i, p)
		if !ok || target == s.Order {
			return nil
		}
		if err := ReorderWithinAnswered(b.Slots, s.Order, target); err != nil {
			return err
		}
	}

	return b.Layout()
}

// EndDrag finishes the drag of word i. It always runs a settle layout pass
// and emits one drop event when the orders differ from those at BeginDrag.
// A drag that leaves and comes back emits nothing. The returned bool
// reports whether an event was emitted.
func (b *Board) EndDrag(i int) (DropEvent, bool, error) {
	if _, err := b.gesture(i); err != nil {
		return DropEvent{}, false, err
	}
	changed := b.GestureChanged()
	b.Gesture = nil
	if err := b.Layout(); err != nil {
		return DropEvent{}, false, err
	}
	if !changed {
		return DropEvent{}, false, nil
	}
	ev := b.event(i)
	b.emit(ev)
	return ev, true, nil
}

// CancelDrag abandons the active drag. Every order goes back to its value
// at BeginDrag, so there is nothing to report and no event is emitted.
func (b *Board) CancelDrag() error {
	g := b.Gesture
	if g == nil {
		return nil
	}
	b.Gesture = nil
	if len(g.Before) != len(b.Slots) {
		return errors.New(errors.ErrCodeInternal, "gesture recorded %d orders for %d words", len(g.Before), len(b.Slots))
	}
	for i, o := range g.Before {
		b.Slots[i].Order = o
	}
	if !b.Ready() {
		return nil
	}
	return b.Layout()
}

// GestureChanged reports whether the active drag has changed any order.
func (b *Board) GestureChanged() bool {
	return b.Gesture != nil && !slices.Equal(b.Gesture.Before, b.Orders())
}

// hit returns the rank of the first answered word, other than i, whose box
// contains p. Boxes use each word's measured height, or the configured word
// height when the word was never measured.
func (b *Board) hit(i int, p Vector) (int, bool) {
	for _, j := range answered(b.Slots) {
		if j == i {
			continue
		}
		t := b.Slots[j]
		h := t.Height
		if h <= 0 {
			h = b.Params.WordHeight
		}
		if Between(p.X, t.X, t.X+t.Width, true) && Between(p.Y, t.Y, t.Y+h, true) {
			return t.Order, true
		}
	}
	return 0, false
}

func (b *Board) toggle(i int) error {
	if b.Slots[i].InBank() {
		b.Slots[i].Order = LastOrder(b.Slots)
		return nil
	}
	if err := RemoveFromAnswered(b.Slots, i); err != nil {
		return err
	}
	b.Slots[i].Order = Bank
	return nil
}

func (b *Board) gesture(i int) (*Gesture, error) {
	if b.Gesture == nil || b.Gesture.Index != i {
		return nil, errors.New(errors.ErrCodeInvalidInput, "word %d is not being dragged", i)
	}
	if !b.Ready() {
		return nil, errors.New(errors.ErrCodeNotReady, "board not measured")
	}
	return b.Gesture, nil
}

func (b *Board) check(i int) error {
	if i < 0 || i >= len(b.Slots) {
		return errors.New(errors.ErrCodeInvalidIndex, "word %d out of range [0, %d)", i, len(b.Slots))
	}
	if !b.Ready() {
		return errors.New(errors.ErrCodeNotReady, "board not measured")
	}
	return nil
}

func (b *Board) event(i int) DropEvent {
	ev := DropEvent{Index: i, Destination: DestinationAnswered, Position: b.Slots[i].Order}
	if b.Slots[i].InBank() {
		ev.Destination = DestinationBank
	}
	return ev
}

func (b *Board) emit(ev DropEvent) {
	if b.onDrop != nil {
		b.onDrop(ev)
	}
}
