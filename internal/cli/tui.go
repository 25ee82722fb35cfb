package cli

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/wordbank/pkg/wordbank"
)

// Word styles
var (
	wordStyle     = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("237"))
	wordBankStyle = lipgloss.NewStyle().Foreground(colorGray).Background(lipgloss.Color("236"))
	wordFocus     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(colorCyan)
	wordDragging  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("16")).Background(colorYellow)
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// headerRows is the number of rows above the board in the view.
	headerRows = 2

	// maxBoardWidth caps the container width in cells.
	maxBoardWidth = 72
	minBoardWidth = 10
)

// =============================================================================
// Terminal geometry
// =============================================================================

// cellParams are layout parameters in terminal cells: words are one row
// high, separated by one blank cell, with one blank row between lines.
func cellParams(containerWidth float64, rtl bool) wordbank.Params {
	return wordbank.Params{
		ContainerWidth: containerWidth,
		WordHeight:     1,
		WordGap:        2,
		LineGap:        1,
		RTL:            rtl,
	}
}

// cellWidth is the number of cells a word occupies, including one cell of
// padding on either side.
func cellWidth(word string) float64 {
	return float64(runewidth.StringWidth(word) + 2)
}

// measureBank wraps every word, in word order, into the bank the same way
// the answer area wraps answered words, and returns the resulting
// measurements relative to the top of the bank.
func measureBank(words []string, p wordbank.Params) ([]wordbank.Measurement, error) {
	slots := make([]wordbank.Slot, len(words))
	for i, w := range words {
		slots[i] = wordbank.Slot{Order: i, Width: cellWidth(w)}
	}
	if _, err := wordbank.ComputeLayout(slots, p); err != nil {
		return nil, err
	}
	ms := make([]wordbank.Measurement, len(words))
	for i, s := range slots {
		ms[i] = wordbank.Measurement{
			Width:  s.Width,
			Height: p.WordHeight,
			X:      s.X,
			Y:      s.Y - p.LineGap/2,
		}
	}
	return ms, nil
}

func row(y float64) int { return int(math.Floor(y)) }
func col(x float64) int { return int(math.Round(x)) }

// =============================================================================
// BoardModel - Interactive word bank
// =============================================================================

// dragState tracks a mouse drag in screen cells.
type dragState struct {
	index          int
	startX, startY int
	dx, dy         int
}

// BoardModel is the bubbletea model for playing a word bank in the
// terminal. Words are moved with the keyboard (focus and tap) or dragged
// with the mouse.
type BoardModel struct {
	Board  *wordbank.Board
	Target []string

	focus  int
	drag   *dragState
	rtl    bool
	status string
	err    error
}

// NewBoardModel creates a model for words. The board is measured on the
// first window size message.
func NewBoardModel(b *wordbank.Board, target []string) *BoardModel {
	m := &BoardModel{Board: b, Target: target, rtl: b.Params.RTL}
	b.OnDrop(m.onDrop)
	return m
}

// Solved reports whether the answer matches the target.
func (m *BoardModel) Solved() bool {
	return len(m.Target) > 0 && slices.Equal(m.Board.Answered(), m.Target)
}

func (m *BoardModel) onDrop(ev wordbank.DropEvent) {
	w := m.Board.Words[ev.Index]
	if ev.Destination == wordbank.DestinationBank {
		m.status = fmt.Sprintf("%q %s bank", w, iconArrow)
		return
	}
	m.status = fmt.Sprintf("%q %s answer #%d", w, iconArrow, ev.Position+1)
}

// resize measures the board for a terminal width, keeping every word's
// order.
func (m *BoardModel) resize(width int) error {
	cw := min(width-2, maxBoardWidth)
	cw = max(cw, minBoardWidth)

	orders := m.Board.Orders()
	p := cellParams(float64(cw), m.rtl)
	ms, err := measureBank(m.Board.Words, p)
	if err != nil {
		return err
	}
	m.Board.Params = p
	m.Board.BankOffsetY = 1
	if err := m.Board.Measure(ms); err != nil {
		return err
	}
	m.drag = nil
	return m.Board.SetOrders(orders)
}

// visual returns word indices in display order: the answer by rank, then
// the bank by word index.
func (m *BoardModel) visual() []int {
	answered := make([]int, wordbank.LastOrder(m.Board.Slots))
	var bank []int
	for i, s := range m.Board.Slots {
		if s.InBank() {
			bank = append(bank, i)
		} else {
			answered[s.Order] = i
		}
	}
	return append(answered, bank...)
}

func (m *BoardModel) moveFocus(delta int) {
	v := m.visual()
	pos := slices.Index(v, m.focus)
	pos = (pos + delta + len(v)) % len(v)
	m.focus = v[pos]
}

// wordAt returns the word drawn at screen cell (x, y).
func (m *BoardModel) wordAt(x, y int) (int, bool) {
	for i, s := range m.Board.Slots {
		r := m.Board.Rest(i)
		if row(r.Y)+headerRows == y && x >= col(r.X) && x < col(r.X+s.Width) {
			return i, true
		}
	}
	return 0, false
}

func (m *BoardModel) Init() tea.Cmd {
	return nil
}

func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.err = m.resize(msg.Width)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.err = m.handleMouse(msg)
	}
	return m, nil
}

func (m *BoardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !m.Board.Ready() {
		if s := msg.String(); s == "q" || s == "ctrl+c" || s == "esc" {
			return tea.Quit
		}
		return nil
	}
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case "left", "h", "up", "k":
		m.moveFocus(-1)
	case "right", "l", "down", "j", "tab":
		m.moveFocus(1)
	case "enter", " ":
		_, m.err = m.Board.Tap(m.focus)
	case "r":
		orders := make([]int, len(m.Board.Words))
		for i := range orders {
			orders[i] = wordbank.Bank
		}
		m.err = m.Board.SetOrders(orders)
		m.status = "reset"
	case "s":
		if len(m.Target) > 0 {
			m.err = m.Board.ApplyTargetUnique(m.Target)
			m.status = "solved"
		}
	}
	return nil
}

func (m *BoardModel) handleMouse(msg tea.MouseMsg) error {
	if !m.Board.Ready() {
		return nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.drag != nil {
			return nil
		}
		i, ok := m.wordAt(msg.X, msg.Y)
		if !ok {
			return nil
		}
		if err := m.Board.BeginDrag(i); err != nil {
			return err
		}
		m.focus = i
		m.drag = &dragState{index: i, startX: msg.X, startY: msg.Y}
	case tea.MouseActionMotion:
		if m.drag == nil {
			return nil
		}
		m.drag.dx, m.drag.dy = msg.X-m.drag.startX, msg.Y-m.drag.startY
		return m.Board.DragUpdate(m.drag.index, wordbank.Vector{X: float64(m.drag.dx), Y: float64(m.drag.dy)})
	case tea.MouseActionRelease:
		if m.drag == nil {
			return nil
		}
		d := m.drag
		m.drag = nil
		// A click without movement taps the word.
		if m.Board.Gesture != nil && !m.Board.GestureChanged() && d.dx == 0 && d.dy == 0 {
			if err := m.Board.CancelDrag(); err != nil {
				return err
			}
			_, err := m.Board.Tap(d.index)
			return err
		}
		_, _, err := m.Board.EndDrag(d.index)
		return err
	}
	return nil
}

// placed is a word drawn at a cell.
type placed struct {
	col   int
	width int
	text  string
	style lipgloss.Style
	top   bool
}

// canvas renders the answer area, a separator, and the bank.
func (m *BoardModel) canvas() string {
	b := m.Board
	reserved := row(b.ReservedHeight())
	rows := map[int][]placed{}
	height := reserved + 1

	for i, s := range b.Slots {
		pos := b.Rest(i)
		style := wordStyle
		if s.InBank() {
			style = wordBankStyle
		}
		if i == m.focus {
			style = wordFocus
		}
		top := false
		if m.drag != nil && m.drag.index == i && b.Gesture != nil {
			pos = wordbank.Vector{
				X: b.Gesture.Origin.X + float64(m.drag.dx),
				Y: b.Gesture.Origin.Y + float64(m.drag.dy),
			}
			style, top = wordDragging, true
		}
		r := row(pos.Y)
		if r < 0 {
			r = 0
		}
		rows[r] = append(rows[r], placed{
			col:   max(col(pos.X), 0),
			width: int(s.Width),
			text:  " " + b.Words[i] + " ",
			style: style,
			top:   top,
		})
		height = max(height, r+1)
	}

	width := int(b.Params.ContainerWidth)
	lines := make([]string, height)
	for r := range lines {
		if r == reserved {
			lines[r] = listDimStyle.Render(strings.Repeat("┄", width))
			continue
		}
		lines[r] = renderRow(rows[r])
	}
	return strings.Join(lines, "\n")
}

// renderRow draws the words of one row left to right. A dragged word
// hides the words it overlaps.
func renderRow(items []placed) string {
	if i := slices.IndexFunc(items, func(p placed) bool { return p.top }); i >= 0 {
		top := items[i]
		items = slices.DeleteFunc(items, func(o placed) bool {
			return !o.top && o.col < top.col+top.width && top.col < o.col+o.width
		})
	}
	sort.Slice(items, func(a, b int) bool { return items[a].col < items[b].col })

	var sb strings.Builder
	pos := 0
	for _, it := range items {
		if it.col < pos {
			continue
		}
		sb.WriteString(strings.Repeat(" ", it.col-pos))
		sb.WriteString(it.style.Render(it.text))
		pos = it.col + it.width
	}
	return sb.String()
}

func (m *BoardModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Wordbank"))
	if len(m.Target) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d words", len(m.Target))))
	}
	b.WriteString("\n\n")

	if !m.Board.Ready() {
		b.WriteString(listDimStyle.Render("measuring..."))
		return b.String()
	}

	b.WriteString(m.canvas())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
	case m.Solved():
		b.WriteString(styleIconSuccess.Render(iconSuccess) + " " + StyleSuccess.Render("correct"))
	case m.status != "":
		b.WriteString(styleIconInfo.Render(iconInfo) + " " + m.status)
	}
	b.WriteString("\n")
	help := "←/→ focus  ⏎ tap  drag with mouse  r reset  q quit"
	if len(m.Target) > 0 {
		help = "←/→ focus  ⏎ tap  drag with mouse  r reset  s solve  q quit"
	}
	b.WriteString(listDimStyle.Render(help))

	return b.String()
}
