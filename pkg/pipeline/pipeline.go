// Package pipeline runs offloaded layout computation for the CLI and the
// HTTP API.
//
// A [Request] carries the copy-boundary snapshot of a board (orders and
// widths) plus layout parameters. The [Runner] validates it, fills in
// default geometry, consults the cache and computes positions with
// [wordbank.Positions]. Because positions are a pure function of the
// request, cached results are always valid until they expire.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Layout(ctx, pipeline.Request{
//	    Orders: []int{1, -1, 0},
//	    Widths: []float64{40, 52, 61},
//	    Params: wordbank.Params{ContainerWidth: 320},
//	})
package pipeline

import (
	"encoding/json"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/wordbank/pkg/cache"
	"github.com/matzehuels/wordbank/pkg/errors"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultContainerWidth is used by the CLI when no width is given.
	DefaultContainerWidth = 320.0

	// DefaultCellWidth is the estimated width of one terminal cell when
	// word widths are derived from text.
	DefaultCellWidth = 10.0

	// DefaultWordPadding is added to every estimated word width.
	DefaultWordPadding = 16.0

	// MaxBatch bounds the number of requests in one batch.
	MaxBatch = 64

	// batchWorkers bounds the goroutines computing one batch.
	batchWorkers = 8
)

// Request is one offloaded layout computation.
type Request struct {
	// Words is optional and only used for display and width estimation.
	Words  []string        `json:"words,omitempty"`
	Orders []int           `json:"orders"`
	Widths []float64       `json:"widths"`
	Params wordbank.Params `json:"params"`
}

// Result is a computed layout and how it was obtained.
type Result struct {
	wordbank.Result
	Hash   string `json:"hash"`
	Cached bool   `json:"cached"`
}

// ValidateAndSetDefaults fills default geometry and validates the request.
//
// A zero WordHeight selects the default geometry (word height, word gap
// and line gap); ContainerWidth and RTL are always taken as given. Missing
// widths are estimated from Words. Orders may be omitted, meaning every
// word is in the bank.
func (r *Request) ValidateAndSetDefaults() error {
	if r.Params.WordHeight == 0 {
		d := wordbank.DefaultParams(r.Params.ContainerWidth)
		d.RTL = r.Params.RTL
		r.Params = d
	}
	if len(r.Widths) == 0 && len(r.Words) > 0 {
		if err := errors.ValidateWords(r.Words); err != nil {
			return err
		}
		r.Widths = EstimateWidths(r.Words, DefaultCellWidth, DefaultWordPadding)
	}
	if r.Orders == nil {
		r.Orders = make([]int, len(r.Widths))
		for i := range r.Orders {
			r.Orders[i] = wordbank.Bank
		}
	}
	if len(r.Words) > 0 && len(r.Words) != len(r.Widths) {
		return errors.New(errors.ErrCodeInvalidInput, "got %d words and %d widths", len(r.Words), len(r.Widths))
	}
	if len(r.Widths) > errors.MaxWords {
		return errors.New(errors.ErrCodeInvalidInput, "too many words (max %d)", errors.MaxWords)
	}
	if r.Params.WordHeight < 0 || r.Params.WordGap < 0 || r.Params.LineGap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout geometry must not be negative")
	}
	return r.Snapshot().Validate()
}

// Snapshot returns the request's snapshot.
func (r *Request) Snapshot() wordbank.Snapshot {
	return wordbank.Snapshot{Orders: r.Orders, Widths: r.Widths}
}

// KeyOpts returns the parameters that identify the result in the cache.
func (r *Request) KeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		ContainerWidth: r.Params.ContainerWidth,
		WordHeight:     r.Params.WordHeight,
		WordGap:        r.Params.WordGap,
		LineGap:        r.Params.LineGap,
		RTL:            r.Params.RTL,
	}
}

// Hash identifies the request's snapshot.
func (r *Request) Hash() string {
	h, _ := cache.HashJSON(r.Snapshot())
	return h
}

// ReadRequest decodes a JSON request.
func ReadRequest(rd io.Reader) (Request, error) {
	var req Request
	dec := json.NewDecoder(rd)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Request{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout request")
	}
	return req, nil
}

// EstimateWidths derives word widths from their display width in cells,
// so that wide scripts take proportionally more room.
func EstimateWidths(words []string, cellWidth, padding float64) []float64 {
	out := make([]float64, len(words))
	for i, w := range words {
		out[i] = float64(runewidth.StringWidth(w))*cellWidth + padding
	}
	return out
}
