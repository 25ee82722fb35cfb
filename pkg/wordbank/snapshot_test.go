package wordbank

import (
	"math/rand"
	"testing"

	"github.com/matzehuels/wordbank/pkg/errors"
)

// TestPositionsMatchesComputeLayout checks that the copied-out path places
// every word exactly where the in-place path does.
func TestPositionsMatchesComputeLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		slots := randomSlots(rng, 1+rng.Intn(20))
		p := Params{
			ContainerWidth: 80 + rng.Float64()*300,
			WordHeight:     30 + rng.Float64()*20,
			WordGap:        rng.Float64() * 10,
			LineGap:        rng.Float64() * 12,
			RTL:            rng.Intn(2) == 0,
		}

		snap := SnapshotOf(slots)
		res, err := Positions(snap, p)
		if err != nil {
			t.Fatalf("trial %d: Positions() error: %v", trial, err)
		}
		lines, err := ComputeLayout(slots, p)
		if err != nil {
			t.Fatalf("trial %d: ComputeLayout() error: %v", trial, err)
		}

		if res.Lines != lines {
			t.Errorf("trial %d: lines = %d, want %d", trial, res.Lines, lines)
		}
		for i, s := range slots {
			pos := res.Positions[i]
			if pos.Placed != s.Answered() {
				t.Fatalf("trial %d word %d: placed = %v, answered = %v", trial, i, pos.Placed, s.Answered())
			}
			if !pos.Placed {
				continue
			}
			if pos.X != s.X || pos.Y != s.Y {
				t.Errorf("trial %d word %d: snapshot (%v, %v) != in place (%v, %v)", trial, i, pos.X, pos.Y, s.X, s.Y)
			}
			if p.LineY(pos.Line) != pos.Y {
				t.Errorf("trial %d word %d: line %d does not match y %v", trial, i, pos.Line, pos.Y)
			}
		}
	}
}

func TestPositionsDoesNotShareMemory(t *testing.T) {
	snap := Snapshot{Orders: []int{1, 0, -1}, Widths: []float64{10, 20, 30}}
	if _, err := Positions(snap, testParams(100)); err != nil {
		t.Fatal(err)
	}
	if snap.Orders[0] != 1 || snap.Orders[1] != 0 || snap.Orders[2] != -1 {
		t.Errorf("Positions modified the snapshot: %v", snap.Orders)
	}
}

func TestPositionsValidation(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		code errors.Code
	}{
		{"length mismatch", Snapshot{Orders: []int{0, 1}, Widths: []float64{10}}, errors.ErrCodeInvalidInput},
		{"gap", Snapshot{Orders: []int{0, 2}, Widths: []float64{10, 10}}, errors.ErrCodeInvalidOrder},
		{"duplicate", Snapshot{Orders: []int{1, 1}, Widths: []float64{10, 10}}, errors.ErrCodeInvalidOrder},
		{"unmeasured", Snapshot{Orders: []int{0, 1}, Widths: []float64{10, 0}}, errors.ErrCodeNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Positions(tt.snap, testParams(100))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestResultApply(t *testing.T) {
	slots := []Slot{{Order: 0, Width: 40}, {Order: Bank, Width: 40, X: 9, Y: 9}}
	res, err := Positions(SnapshotOf(slots), testParams(100))
	if err != nil {
		t.Fatal(err)
	}
	if err := res.Apply(slots); err != nil {
		t.Fatal(err)
	}
	if slots[0].X != 0 || slots[0].Y != 4.5 {
		t.Errorf("answered slot at (%v, %v), want (0, 4.5)", slots[0].X, slots[0].Y)
	}
	if slots[1].X != 9 || slots[1].Y != 9 {
		t.Error("bank slot was modified")
	}

	if err := res.Apply(slots[:1]); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Apply with wrong length error = %v, want INVALID_INPUT", err)
	}
}
