package wordbank

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/wordbank/pkg/errors"
)

// newTestBoard returns a measured board with 50 wide words on a single bank
// row: two reserved answer lines of 54 give a bank threshold at y = 108.
func newTestBoard(t *testing.T, words ...string) (*Board, *[]DropEvent) {
	t.Helper()
	b := NewBoard(words, testParams(120))
	ms := make([]Measurement, len(words))
	for i := range ms {
		ms[i] = Measurement{Width: 50, Height: 45, X: float64(i) * 54}
	}
	if err := b.Measure(ms); err != nil {
		t.Fatalf("Measure() error: %v", err)
	}
	events := &[]DropEvent{}
	b.OnDrop(func(ev DropEvent) { *events = append(*events, ev) })
	return b, events
}

func tap(t *testing.T, b *Board, idx ...int) {
	t.Helper()
	for _, i := range idx {
		if _, err := b.Tap(i); err != nil {
			t.Fatalf("Tap(%d) error: %v", i, err)
		}
	}
}

func TestBoardMeasure(t *testing.T) {
	b, _ := newTestBoard(t, "a", "b", "c")
	if !b.Ready() {
		t.Fatal("board should be ready after Measure")
	}
	if b.BankLines != 1 || b.ReservedLines != 2 {
		t.Errorf("bank lines = %d, reserved = %d; want 1, 2", b.BankLines, b.ReservedLines)
	}
	if b.ReservedHeight() != 108 {
		t.Errorf("ReservedHeight() = %v, want 108", b.ReservedHeight())
	}
	for i, s := range b.Slots {
		if s.Order != Bank {
			t.Errorf("word %d order = %d, want bank", i, s.Order)
		}
		if s.OriginalY != 128 {
			t.Errorf("word %d OriginalY = %v, want 128", i, s.OriginalY)
		}
	}
	if got := b.Rest(1); got != (Vector{X: 54, Y: 148}) {
		t.Errorf("Rest(1) = %+v, want {54 148}", got)
	}
}

func TestBoardMeasureRejectsBadInput(t *testing.T) {
	b := NewBoard([]string{"a", "b"}, testParams(120))
	if err := b.Measure([]Measurement{{Width: 10}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("count mismatch error = %v", err)
	}
	if err := b.Measure([]Measurement{{Width: 10}, {Width: 0}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("zero width error = %v", err)
	}
	if err := b.Measure([]Measurement{{Width: 10}, {Width: math.NaN()}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("NaN width error = %v", err)
	}
	if err := b.Measure([]Measurement{{Width: math.Inf(1)}, {Width: 10}}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("infinite width error = %v", err)
	}
	if b.Ready() {
		t.Error("board should not be ready after rejected measurements")
	}
}

func TestBoardNotReady(t *testing.T) {
	b := NewBoard([]string{"a"}, testParams(120))
	if _, err := b.Tap(0); !errors.Is(err, errors.ErrCodeNotReady) {
		t.Errorf("Tap before Measure error = %v, want NOT_READY", err)
	}
	if err := b.BeginDrag(0); !errors.Is(err, errors.ErrCodeNotReady) {
		t.Errorf("BeginDrag before Measure error = %v, want NOT_READY", err)
	}
	if b.Slots[0].Order != Bank {
		t.Error("rejected tap changed the order")
	}
}

func TestBoardTap(t *testing.T) {
	b, events := newTestBoard(t, "a", "b", "c")

	tap(t, b, 2, 0, 1)
	if got := b.Orders(); !reflect.DeepEqual(got, []int{1, 2, 0}) {
		t.Fatalf("orders = %v, want [1 2 0]", got)
	}
	if b.Lines != 2 {
		t.Errorf("lines = %d, want 2", b.Lines)
	}

	ev, err := b.Tap(0)
	if err != nil {
		t.Fatal(err)
	}
	if ev != (DropEvent{Index: 0, Destination: DestinationBank, Position: Bank}) {
		t.Errorf("event = %+v", ev)
	}
	if got := b.Orders(); !reflect.DeepEqual(got, []int{Bank, 1, 0}) {
		t.Errorf("orders after removal = %v, want [-1 1 0]", got)
	}
	// word 1 closed up onto the first line
	if b.Slots[1].X != 50 || b.Slots[1].Y != 4.5 {
		t.Errorf("word 1 at (%v, %v), want (50, 4.5)", b.Slots[1].X, b.Slots[1].Y)
	}

	if len(*events) != 4 {
		t.Fatalf("got %d events, want 4", len(*events))
	}
	if (*events)[0] != (DropEvent{Index: 2, Destination: DestinationAnswered, Position: 0}) {
		t.Errorf("first event = %+v", (*events)[0])
	}
}

func TestBoardTapOutOfRange(t *testing.T) {
	b, events := newTestBoard(t, "a")
	if _, err := b.Tap(1); !errors.Is(err, errors.ErrCodeInvalidIndex) {
		t.Errorf("error = %v, want INVALID_INDEX", err)
	}
	if len(*events) != 0 {
		t.Error("rejected tap emitted an event")
	}
}

func TestBoardDragToBank(t *testing.T) {
	b, events := newTestBoard(t, "a", "b", "c")
	tap(t, b, 0, 1)
	*events = nil

	if err := b.BeginDrag(0); err != nil {
		t.Fatal(err)
	}
	for _, dy := range []float64{50, 150, 160, 200} {
		if err := b.DragUpdate(0, Vector{Y: dy}); err != nil {
			t.Fatalf("DragUpdate(dy=%v) error: %v", dy, err)
		}
	}
	if b.Slots[0].Order != Bank || b.Slots[1].Order != 0 {
		t.Fatalf("orders = %v, want [-1 0 -1]", b.Orders())
	}
	if len(*events) != 0 {
		t.Fatal("events must wait for the end of the gesture")
	}

	ev, emitted, err := b.EndDrag(0)
	if err != nil {
		t.Fatal(err)
	}
	if !emitted || ev.Destination != DestinationBank || ev.Index != 0 {
		t.Errorf("EndDrag() = %+v, %v", ev, emitted)
	}
	if len(*events) != 1 || (*events)[0].Destination != DestinationBank {
		t.Errorf("events = %+v, want one bank event", *events)
	}
	if b.Gesture != nil {
		t.Error("gesture not cleared")
	}
}

func TestBoardDragFromBank(t *testing.T) {
	b, events := newTestBoard(t, "a", "b", "c")
	tap(t, b, 0)
	*events = nil

	if err := b.BeginDrag(2); err != nil {
		t.Fatal(err)
	}
	// rest y is 148; moving up by 100 enters the answer area
	if err := b.DragUpdate(2, Vector{Y: -100}); err != nil {
		t.Fatal(err)
	}
	if b.Slots[2].Order != 1 {
		t.Fatalf("word 2 order = %d, want 1", b.Slots[2].Order)
	}
	if b.Slots[2].X != 50 || b.Slots[2].Y != 4.5 {
		t.Errorf("word 2 at (%v, %v), want (50, 4.5)", b.Slots[2].X, b.Slots[2].Y)
	}
	ev, emitted, err := b.EndDrag(2)
	if err != nil || !emitted {
		t.Fatalf("EndDrag() = %+v, %v, %v", ev, emitted, err)
	}
	if ev != (DropEvent{Index: 2, Destination: DestinationAnswered, Position: 1}) {
		t.Errorf("event = %+v", ev)
	}
}

func TestBoardDragReorder(t *testing.T) {
	b, events := newTestBoard(t, "a", "b", "c")
	tap(t, b, 0, 1, 2)
	*events = nil

	if err := b.BeginDrag(0); err != nil {
		t.Fatal(err)
	}
	// origin (0, 4.5); the pointer lands inside word 1 at [50, 100] x [4.5, 49.5]
	for i := 0; i < 3; i++ {
		if err := b.DragUpdate(0, Vector{X: 60, Y: 10}); err != nil {
			t.Fatal(err)
		}
	}
	if got := b.Orders(); !reflect.DeepEqual(got, []int{1, 0, 2}) {
		t.Fatalf("orders = %v, want [1 0 2]", got)
	}
	if b.Slots[1].X != 0 || b.Slots[0].X != 50 {
		t.Errorf("x after reorder = %v, %v; want 50, 0", b.Slots[0].X, b.Slots[1].X)
	}

	ev, emitted, err := b.EndDrag(0)
	if err != nil || !emitted {
		t.Fatalf("EndDrag() = %+v, %v, %v", ev, emitted, err)
	}
	if ev != (DropEvent{Index: 0, Destination: DestinationAnswered, Position: 1}) {
		t.Errorf("event = %+v", ev)
	}
	if len(*events) != 1 {
		t.Errorf("got %d events, want 1", len(*events))
	}
}

func TestBoardDragWithoutChange(t *testing.T) {
	b, events := newTestBoard(t, "a", "b")
	tap(t, b, 0, 1)
	*events = nil

	if err := b.BeginDrag(1); err != nil {
		t.Fatal(err)
	}
	// stays over itself
	if err := b.DragUpdate(1, Vector{X: 5, Y: 5}); err != nil {
		t.Fatal(err)
	}
	_, emitted, err := b.EndDrag(1)
	if err != nil {
		t.Fatal(err)
	}
	if emitted || len(*events) != 0 {
		t.Error("a drag that changed nothing must not emit")
	}
}

func TestBoardDragRoundTrip(t *testing.T) {
	t.Run("bank to answer and back", func(t *testing.T) {
		b, events := newTestBoard(t, "a", "b", "c")
		tap(t, b, 0)
		*events = nil

		if err := b.BeginDrag(2); err != nil {
			t.Fatal(err)
		}
		if err := b.DragUpdate(2, Vector{Y: -100}); err != nil {
			t.Fatal(err)
		}
		if !b.GestureChanged() {
			t.Fatal("joining the answer should count as a change")
		}
		// back to the rest position at y = 148, below the threshold
		if err := b.DragUpdate(2, Vector{}); err != nil {
			t.Fatal(err)
		}
		if b.GestureChanged() {
			t.Errorf("orders %v should match the start of the gesture", b.Orders())
		}
		_, emitted, err := b.EndDrag(2)
		if err != nil {
			t.Fatal(err)
		}
		if emitted || len(*events) != 0 {
			t.Errorf("round trip emitted %+v", *events)
		}
		if got := b.Orders(); !reflect.DeepEqual(got, []int{0, Bank, Bank}) {
			t.Errorf("orders = %v", got)
		}
	})

	t.Run("reorder and back", func(t *testing.T) {
		b, events := newTestBoard(t, "a", "b", "c")
		tap(t, b, 0, 1, 2)
		*events = nil

		if err := b.BeginDrag(0); err != nil {
			t.Fatal(err)
		}
		// over word 1, then over word 1 again after it moved to x = 0
		if err := b.DragUpdate(0, Vector{X: 60, Y: 10}); err != nil {
			t.Fatal(err)
		}
		if got := b.Orders(); !reflect.DeepEqual(got, []int{1, 0, 2}) {
			t.Fatalf("orders = %v, want [1 0 2]", got)
		}
		if err := b.DragUpdate(0, Vector{X: 5, Y: 5}); err != nil {
			t.Fatal(err)
		}
		if got := b.Orders(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
			t.Fatalf("orders = %v, want [0 1 2]", got)
		}
		_, emitted, err := b.EndDrag(0)
		if err != nil {
			t.Fatal(err)
		}
		if emitted || len(*events) != 0 {
			t.Errorf("round trip emitted %+v", *events)
		}
	})
}

func TestBoardCancelDrag(t *testing.T) {
	t.Run("restores a word that joined the answer", func(t *testing.T) {
		b, events := newTestBoard(t, "a", "b", "c")
		tap(t, b, 0)
		*events = nil

		if err := b.BeginDrag(2); err != nil {
			t.Fatal(err)
		}
		if err := b.DragUpdate(2, Vector{Y: -100}); err != nil {
			t.Fatal(err)
		}
		if got := b.Orders(); !reflect.DeepEqual(got, []int{0, Bank, 1}) {
			t.Fatalf("orders = %v, want [0 -1 1]", got)
		}
		if err := b.CancelDrag(); err != nil {
			t.Fatal(err)
		}
		if got := b.Orders(); !reflect.DeepEqual(got, []int{0, Bank, Bank}) {
			t.Errorf("orders after cancel = %v, want [0 -1 -1]", got)
		}
		if b.Gesture != nil || b.Lines != 1 || len(*events) != 0 {
			t.Errorf("gesture = %v, lines = %d, events = %+v", b.Gesture, b.Lines, *events)
		}
	})

	t.Run("restores a word dragged to the bank", func(t *testing.T) {
		b, events := newTestBoard(t, "a", "b", "c")
		tap(t, b, 0, 1)
		*events = nil

		if err := b.BeginDrag(0); err != nil {
			t.Fatal(err)
		}
		if err := b.DragUpdate(0, Vector{Y: 200}); err != nil {
			t.Fatal(err)
		}
		if b.Slots[1].X != 0 {
			t.Fatalf("word 1 at x = %v, want 0 while word 0 is out", b.Slots[1].X)
		}
		if err := b.CancelDrag(); err != nil {
			t.Fatal(err)
		}
		if got := b.Orders(); !reflect.DeepEqual(got, []int{0, 1, Bank}) {
			t.Errorf("orders after cancel = %v, want [0 1 -1]", got)
		}
		if b.Slots[1].X != 50 {
			t.Errorf("word 1 at x = %v after cancel, want 50", b.Slots[1].X)
		}
		if len(*events) != 0 {
			t.Errorf("cancel emitted %+v", *events)
		}
	})

	t.Run("without a gesture", func(t *testing.T) {
		b, _ := newTestBoard(t, "a")
		if err := b.CancelDrag(); err != nil {
			t.Errorf("CancelDrag() error = %v", err)
		}
	})
}

func TestBoardHitUsesTargetHeight(t *testing.T) {
	b, _ := newTestBoard(t, "a", "b")
	b.Slots[1].Height = 10
	tap(t, b, 0, 1)

	if err := b.BeginDrag(0); err != nil {
		t.Fatal(err)
	}
	// y = 4.5 + 20 is below word 1's 10 high box
	if err := b.DragUpdate(0, Vector{X: 60, Y: 20}); err != nil {
		t.Fatal(err)
	}
	if b.Slots[0].Order != 0 {
		t.Errorf("reordered outside target box: %v", b.Orders())
	}
	// y = 4.5 + 5 is inside
	if err := b.DragUpdate(0, Vector{X: 60, Y: 5}); err != nil {
		t.Fatal(err)
	}
	if b.Slots[0].Order != 1 {
		t.Errorf("expected reorder inside target box: %v", b.Orders())
	}
}

func TestBoardGestureErrors(t *testing.T) {
	b, _ := newTestBoard(t, "a", "b")
	if err := b.DragUpdate(0, Vector{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("update without gesture error = %v", err)
	}
	if err := b.BeginDrag(0); err != nil {
		t.Fatal(err)
	}
	if err := b.BeginDrag(1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("second gesture error = %v", err)
	}
	if _, _, err := b.EndDrag(1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ending the wrong word error = %v", err)
	}
	if err := b.CancelDrag(); err != nil {
		t.Fatal(err)
	}
	if b.Gesture != nil {
		t.Error("CancelDrag did not clear the gesture")
	}
}

func TestBoardSetContainerWidth(t *testing.T) {
	b, _ := newTestBoard(t, "a", "b", "c")
	tap(t, b, 0, 1, 2)
	if b.Lines != 2 {
		t.Fatalf("lines = %d, want 2", b.Lines)
	}
	if err := b.SetContainerWidth(200); err != nil {
		t.Fatal(err)
	}
	if b.Lines != 1 || b.Slots[2].X != 100 {
		t.Errorf("after resize lines = %d, x2 = %v", b.Lines, b.Slots[2].X)
	}
	for _, w := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := b.SetContainerWidth(w); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("SetContainerWidth(%v) error = %v", w, err)
		}
	}
	if b.Params.ContainerWidth != 200 {
		t.Errorf("rejected width was stored: %v", b.Params.ContainerWidth)
	}
}

func TestBoardSetOrders(t *testing.T) {
	b, _ := newTestBoard(t, "a", "b", "c")
	if err := b.SetOrders([]int{2, -1, 0}); !errors.Is(err, errors.ErrCodeInvalidOrder) {
		t.Errorf("gap error = %v, want INVALID_ORDER", err)
	}
	if err := b.SetOrders([]int{0}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("length error = %v, want INVALID_INPUT", err)
	}
	if err := b.SetOrders([]int{1, -1, 0}); err != nil {
		t.Fatal(err)
	}
	if b.Slots[0].X != 50 || b.Slots[2].X != 0 {
		t.Errorf("positions not recomputed: %+v", b.Slots)
	}
}

func TestBoardApplyTarget(t *testing.T) {
	words := []string{"the", "cat", "the", "dog", "sat"}
	target := []string{"the", "dog", "sat", "the", "cat"}

	t.Run("last position", func(t *testing.T) {
		b, _ := newTestBoard(t, words...)
		if err := b.ApplyTarget(target); err != nil {
			t.Fatal(err)
		}
		if !Dense(b.Orders()) {
			t.Fatalf("orders not dense: %v", b.Orders())
		}
		want := []string{"dog", "sat", "the", "the", "cat"}
		if got := b.Answered(); !reflect.DeepEqual(got, want) {
			t.Errorf("Answered() = %v, want %v", got, want)
		}
	})

	t.Run("unique positions", func(t *testing.T) {
		b, _ := newTestBoard(t, words...)
		if err := b.ApplyTargetUnique(target); err != nil {
			t.Fatal(err)
		}
		if got := b.Answered(); !reflect.DeepEqual(got, target) {
			t.Errorf("Answered() = %v, want %v", got, target)
		}
	})

	t.Run("missing words stay in bank", func(t *testing.T) {
		b, _ := newTestBoard(t, words...)
		if err := b.ApplyTargetUnique([]string{"cat", "sat"}); err != nil {
			t.Fatal(err)
		}
		answered, bank := b.Split()
		if !reflect.DeepEqual(answered, []string{"cat", "sat"}) {
			t.Errorf("answered = %v", answered)
		}
		if !reflect.DeepEqual(bank, []string{"the", "the", "dog"}) {
			t.Errorf("bank = %v", bank)
		}
	})
}

func TestBoardClone(t *testing.T) {
	b, events := newTestBoard(t, "a", "b")
	tap(t, b, 0)
	if err := b.BeginDrag(0); err != nil {
		t.Fatal(err)
	}

	c := b.Clone()
	c.Slots[0].Order = Bank
	c.Gesture.Before[1] = 7
	c.Words[0] = "z"
	if b.Slots[0].Order != 0 || b.Gesture.Before[1] != Bank || b.Words[0] != "a" {
		t.Error("Clone shares memory with the original")
	}

	*events = nil
	c.Gesture = nil
	if _, err := c.Tap(1); err != nil {
		t.Fatal(err)
	}
	if len(*events) != 0 {
		t.Error("Clone kept the drop callback")
	}
}

func TestBoardHeight(t *testing.T) {
	b, _ := newTestBoard(t, "a", "b")
	// 108 reserved, one gapless bank line of 45, 20 offset above and below
	if got := b.Height(); got != 193 {
		t.Errorf("Height() = %v, want 193", got)
	}
}
