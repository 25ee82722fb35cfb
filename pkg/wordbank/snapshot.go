package wordbank

import (
	"github.com/matzehuels/wordbank/pkg/errors"
)

// Snapshot is the copied-out input of a layout pass: the order and measured
// width of every word, indexed like the slots they came from.
type Snapshot struct {
	Orders []int     `json:"orders" bson:"orders"`
	Widths []float64 `json:"widths" bson:"widths"`
}

// Position is the computed placement of one word.
type Position struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Line   int     `json:"line" bson:"line"`
	Placed bool    `json:"placed" bson:"placed"`
}

// Result is the output of [Positions].
type Result struct {
	// Positions is indexed like the snapshot. Bank words are not placed.
	Positions []Position `json:"positions" bson:"positions"`

	// Lines is the number of answer lines in use.
	Lines int `json:"lines" bson:"lines"`
}

// SnapshotOf copies the orders and widths out of slots.
func SnapshotOf(slots []Slot) Snapshot {
	return Snapshot{Orders: Orders(slots), Widths: Widths(slots)}
}

// Validate checks that the snapshot is well formed: one width per order and
// answered orders forming a dense rank sequence.
func (s Snapshot) Validate() error {
	if len(s.Orders) != len(s.Widths) {
		return errors.New(errors.ErrCodeInvalidInput, "got %d orders and %d widths", len(s.Orders), len(s.Widths))
	}
	if !Dense(s.Orders) {
		return errors.New(errors.ErrCodeInvalidOrder, "orders are not a dense ranking: %v", s.Orders)
	}
	return nil
}

// Slots builds a fresh slot arena from the snapshot.
func (s Snapshot) Slots() []Slot {
	slots := make([]Slot, len(s.Orders))
	for i := range slots {
		slots[i].Order = s.Orders[i]
		if i < len(s.Widths) {
			slots[i].Width = s.Widths[i]
		}
	}
	return slots
}

// Positions runs [ComputeLayout] over a private copy of the snapshot and
// returns the placements. It never shares memory with the caller, so it can
// run on any goroutine or behind a remote call, and it produces exactly the
// coordinates ComputeLayout would write into the original slots.
func Positions(s Snapshot, p Params) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, err
	}
	slots := s.Slots()
	lineOf := make([]int, len(slots))
	lines, err := layout(slots, p, lineOf)
	if err != nil {
		return Result{}, err
	}

	res := Result{Positions: make([]Position, len(slots)), Lines: lines}
	for i, sl := range slots {
		if sl.InBank() {
			continue
		}
		res.Positions[i] = Position{
			X:      sl.X,
			Y:      sl.Y,
			Line:   lineOf[i],
			Placed: true,
		}
	}
	return res, nil
}

// Apply copies placed positions back into slots. Slots not placed by the
// result keep their coordinates.
func (r Result) Apply(slots []Slot) error {
	if len(r.Positions) != len(slots) {
		return errors.New(errors.ErrCodeInvalidInput, "result has %d positions for %d slots", len(r.Positions), len(slots))
	}
	for i, pos := range r.Positions {
		if pos.Placed {
			slots[i].X = pos.X
			slots[i].Y = pos.Y
		}
	}
	return nil
}
