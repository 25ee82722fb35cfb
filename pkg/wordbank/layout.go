package wordbank

import (
	"math"

	"github.com/matzehuels/wordbank/pkg/errors"
)

// Defaults used by the reference word bank widget.
const (
	DefaultWordHeight  = 45.0
	DefaultWordGap     = 4.0
	DefaultBankOffsetY = 20.0

	// DefaultLineHeightRatio derives the line height from the word height
	// when no explicit line height is configured.
	DefaultLineHeightRatio = 1.2

	// minReservedLines is the line count below which one spare line is
	// reserved for the next accepted word.
	minReservedLines = 3
)

// Params are the container and spacing inputs of a layout pass.
type Params struct {
	ContainerWidth float64 `json:"container_width" bson:"container_width" toml:"container_width"`
	WordHeight     float64 `json:"word_height" bson:"word_height" toml:"word_height"`
	WordGap        float64 `json:"word_gap" bson:"word_gap" toml:"word_gap"`
	LineGap        float64 `json:"line_gap" bson:"line_gap" toml:"line_gap"`
	RTL            bool    `json:"rtl,omitempty" bson:"rtl,omitempty" toml:"rtl"`
}

// DefaultParams returns the widget defaults for the given container width:
// 45 high words, a 4 unit gap and a line height of 1.2 word heights.
func DefaultParams(containerWidth float64) Params {
	return Params{
		ContainerWidth: containerWidth,
		WordHeight:     DefaultWordHeight,
		WordGap:        DefaultWordGap,
		LineGap:        LineGapFor(DefaultWordHeight, 0),
	}
}

// LineGapFor returns the vertical gap between lines for a word height and a
// line height. A zero line height means DefaultLineHeightRatio word heights.
func LineGapFor(wordHeight, lineHeight float64) float64 {
	if lineHeight <= 0 {
		lineHeight = wordHeight * DefaultLineHeightRatio
	}
	return lineHeight - wordHeight
}

// LineHeight returns the distance between the tops of consecutive lines.
func (p Params) LineHeight() float64 { return p.WordHeight + p.LineGap }

// LineY returns the y coordinate of words on the given line.
func (p Params) LineY(line int) float64 {
	return p.LineHeight()*float64(line) + p.LineGap/2
}

// IdealLines returns the number of answer lines to reserve when lines are in
// use: one spare line is kept below three lines.
func IdealLines(lines int) int {
	if lines < minReservedLines {
		return lines + 1
	}
	return lines
}

// ComputeLayout assigns X and Y to every answered slot by wrapping the words,
// in rank order, into lines no wider than p.ContainerWidth. Bank slots are
// not touched. It returns the number of lines used.
//
// Each word advances the line by its width plus half the word gap. A word
// that does not fit starts a new line; a word wider than the container is
// placed alone on its own line. With p.RTL the x coordinates are mirrored
// inside the container without changing the line breaks.
//
// If the container or any answered word lacks a finite positive width, no
// slot is modified and an error with code NOT_READY is returned.
// An empty answer area is not an error and yields zero lines.
func ComputeLayout(slots []Slot, p Params) (int, error) {
	return layout(slots, p, nil)
}

// layout implements ComputeLayout. When lineOf is non-nil it also records the
// line of every placed slot.
func layout(slots []Slot, p Params, lineOf []int) (int, error) {
	idx := answered(slots)
	if len(idx) == 0 {
		return 0, nil
	}
	if !measured(p.ContainerWidth) {
		return 0, errors.New(errors.ErrCodeNotReady, "container width not measured")
	}
	for _, i := range idx {
		if !measured(slots[i].Width) {
			return 0, errors.New(errors.ErrCodeNotReady, "word %d not measured", i)
		}
	}

	line := 0
	acc := 0.0
	for _, i := range idx {
		s := &slots[i]
		if acc > 0 && acc+s.Width > p.ContainerWidth {
			line++
			acc = 0
		}
		if p.RTL {
			s.X = p.ContainerWidth - acc - s.Width
		} else {
			s.X = acc
		}
		s.Y = p.LineY(line)
		if lineOf != nil {
			lineOf[i] = line
		}
		acc = acc + s.Width + p.WordGap/2
	}
	return line + 1, nil
}

// measured reports whether w is a usable measured size. NaN and infinities
// are not.
func measured(w float64) bool {
	return w > 0 && !math.IsInf(w, 1)
}
