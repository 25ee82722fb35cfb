// Package pkg provides the libraries behind wordbank, a drag-and-drop
// sentence builder.
//
// # Overview
//
// A word bank holds a fixed set of words. Each word is either in the bank
// or answered with a rank; answered words are wrapped into lines in rank
// order. The pkg directory is organized as follows:
//
//  1. [wordbank] - Domain logic (slots, ordering, line wrap, board, drag resolution)
//  2. [pipeline] - Offloaded layout computation with caching
//  3. [cache] and [session] - Storage backends (file, Redis, MongoDB, memory)
//  4. [config], [errors], [observability] - Shared infrastructure
//
// # Architecture
//
// A tap or drag flows through the engine like this:
//
//	Board.Tap / Board.DragUpdate
//	         ↓
//	    ordering (LastOrder, RemoveFromAnswered, ReorderWithinAnswered)
//	         ↓
//	    ComputeLayout (line wrap in rank order)
//	         ↓
//	    DropEvent (once per tap or finished drag)
//
// Layout can also run away from the board: [wordbank.SnapshotOf] copies
// orders and widths out, [wordbank.Positions] computes on the copy, and
// [wordbank.Result.Apply] writes positions back. [pipeline.Runner] adds
// validation and caching on top for the CLI and the HTTP API.
//
// # Quick Start
//
//	b := wordbank.NewBoard([]string{"gato", "el"}, wordbank.DefaultParams(320))
//	b.OnDrop(func(ev wordbank.DropEvent) { fmt.Println(ev) })
//	_ = b.Measure(measurements)
//	_, _ = b.Tap(1)
//	_, _ = b.Tap(0)
//	fmt.Println(b.Answered()) // [el gato]
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/wordbank/...           # Specific package
//	go test -run Example                 # Examples only
//
// [wordbank]: https://pkg.go.dev/github.com/matzehuels/wordbank/pkg/wordbank
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/wordbank/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/wordbank/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/wordbank/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/wordbank/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/wordbank/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/wordbank/pkg/observability
package pkg
