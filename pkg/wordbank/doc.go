// Package wordbank implements the layout-and-reordering engine behind a
// drag-and-drop word bank exercise.
//
// # Overview
//
// A word bank is a fixed set of word tokens. Each token either rests in the
// unordered bank or occupies a rank in the answer area. The answer area is
// rendered as lines of a fixed-width container: words are wrapped greedily,
// left to right or mirrored for right-to-left scripts.
//
// The package owns two pieces of state per word, held in a [Slot]:
//
//   - Order: [Bank] (-1) or a dense rank in [0, k) over the k answered words
//   - X, Y: the computed position of an answered word
//
// Width, Height and the bank resting position (OriginalX, OriginalY) are
// supplied once by whatever measures the rendered words. The engine reads
// them and never writes them.
//
// # Ordering
//
// [LastOrder], [RemoveFromAnswered] and [ReorderWithinAnswered] keep the
// answered ranks gap-free. [Move] is the positional primitive they share and
// rejects out-of-range indices instead of padding the sequence.
//
// # Layout
//
// [ComputeLayout] converts ranks and widths into coordinates:
//
//	lines, err := wordbank.ComputeLayout(slots, wordbank.Params{
//	    ContainerWidth: 320,
//	    WordHeight:     45,
//	    WordGap:        4,
//	    LineGap:        9,
//	})
//
// [Positions] runs the same computation over a copied [Snapshot] so it can be
// evaluated off the thread that owns the slots. Both paths produce
// bit-identical results.
//
// # Boards
//
// A [Board] is one interactive session: it combines the engine with the
// tap and drag state machine that moves words between bank and answer area,
// hit-tests the pointer against answered words, and emits one [DropEvent]
// per gesture that ends with different orders than it started with. A
// cancelled gesture puts the orders back and emits nothing.
//
// # Concurrency
//
// Nothing in this package locks. A [Slot] slice or [Board] must be owned by a
// single goroutine; pass copies ([Board.Clone], [Snapshot]) across goroutine
// or process boundaries.
package wordbank
