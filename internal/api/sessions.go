package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/wordbank/pkg/errors"
	"github.com/matzehuels/wordbank/pkg/observability"
	"github.com/matzehuels/wordbank/pkg/session"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

type createSessionReq struct {
	Words  []string `json:"words"`
	Target []string `json:"target,omitempty"`

	// Params overrides the configured geometry when WordHeight is set.
	Params         *wordbank.Params       `json:"params,omitempty"`
	ContainerWidth float64                `json:"container_width"`
	BankOffsetY    *float64               `json:"bank_offset_y,omitempty"`
	Measurements   []wordbank.Measurement `json:"measurements,omitempty"`
}

type sessionView struct {
	ID            string               `json:"id"`
	Words         []string             `json:"words"`
	Orders        []int                `json:"orders"`
	Slots         []wordbank.Slot      `json:"slots"`
	Params        wordbank.Params      `json:"params"`
	Ready         bool                 `json:"ready"`
	Lines         int                  `json:"lines"`
	ReservedLines int                  `json:"reserved_lines"`
	Height        float64              `json:"height"`
	Dragging      *wordbank.Gesture    `json:"dragging,omitempty"`
	Events        []wordbank.DropEvent `json:"events"`
	Correct       *bool                `json:"correct,omitempty"`
	ExpiresAt     time.Time            `json:"expires_at"`
}

func viewOf(s *session.Session) sessionView {
	b := s.Board
	v := sessionView{
		ID:            s.ID,
		Words:         b.Words,
		Orders:        b.Orders(),
		Slots:         b.Slots,
		Params:        b.Params,
		Ready:         b.Ready(),
		Lines:         b.Lines,
		ReservedLines: b.ReservedLines,
		Height:        b.Height(),
		Dragging:      b.Gesture,
		Events:        s.Events,
		ExpiresAt:     s.ExpiresAt,
	}
	if v.Events == nil {
		v.Events = []wordbank.DropEvent{}
	}
	if s.Target != nil {
		ok := slices.Equal(b.Answered(), s.Target)
		v.Correct = &ok
	}
	return v
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := errors.ValidateWords(req.Words); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ContainerWidth < 0 {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "container width must not be negative"))
		return
	}

	p := s.opts.Layout.Params(req.ContainerWidth)
	if req.Params != nil && req.Params.WordHeight > 0 {
		p = *req.Params
		if req.ContainerWidth > 0 {
			p.ContainerWidth = req.ContainerWidth
		}
	}
	b := wordbank.NewBoard(req.Words, p)
	b.BankOffsetY = s.opts.Layout.BankOffsetY
	if req.BankOffsetY != nil {
		b.BankOffsetY = *req.BankOffsetY
	}
	if req.Measurements != nil {
		if err := b.Measure(req.Measurements); err != nil {
			writeError(w, r, err)
			return
		}
	}

	sess := session.New(b, s.opts.SessionTTL)
	sess.Target = req.Target
	if err := s.opts.Sessions.Set(r.Context(), sess); err != nil {
		writeError(w, r, err)
		return
	}
	observability.Session().OnSessionCreated(r.Context(), sess.ID, len(req.Words))
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := s.opts.Sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.opts.Sessions.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	observability.Session().OnSessionDeleted(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

type measureReq struct {
	Measurements []wordbank.Measurement `json:"measurements"`
}

func (s *Server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	var req measureReq
	s.update(w, r, &req, func(b *wordbank.Board) error {
		if err := b.Measure(req.Measurements); err != nil {
			return err
		}
		if b.Ready() {
			return b.Layout()
		}
		return nil
	})
}

type containerReq struct {
	Width float64 `json:"width"`
}

func (s *Server) handleContainer(w http.ResponseWriter, r *http.Request) {
	var req containerReq
	s.update(w, r, &req, func(b *wordbank.Board) error {
		return b.SetContainerWidth(req.Width)
	})
}

type indexReq struct {
	Index int     `json:"index"`
	DX    float64 `json:"dx"`
	DY    float64 `json:"dy"`
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	var req indexReq
	s.update(w, r, &req, func(b *wordbank.Board) error {
		_, err := b.Tap(req.Index)
		return err
	})
}

func (s *Server) handleDragBegin(w http.ResponseWriter, r *http.Request) {
	var req indexReq
	s.update(w, r, &req, func(b *wordbank.Board) error {
		return b.BeginDrag(req.Index)
	})
}

func (s *Server) handleDragUpdate(w http.ResponseWriter, r *http.Request) {
	var req indexReq
	s.update(w, r, &req, func(b *wordbank.Board) error {
		return b.DragUpdate(req.Index, wordbank.Vector{X: req.DX, Y: req.DY})
	})
}

func (s *Server) handleDragEnd(w http.ResponseWriter, r *http.Request) {
	var req indexReq
	s.update(w, r, &req, func(b *wordbank.Board) error {
		_, _, err := b.EndDrag(req.Index)
		return err
	})
}

func (s *Server) handleDragCancel(w http.ResponseWriter, r *http.Request) {
	s.update(w, r, nil, func(b *wordbank.Board) error {
		return b.CancelDrag()
	})
}

type setOrdersReq struct {
	Orders []int `json:"orders"`
}

func (s *Server) handleSetOrders(w http.ResponseWriter, r *http.Request) {
	var req setOrdersReq
	s.update(w, r, &req, func(b *wordbank.Board) error {
		return b.SetOrders(req.Orders)
	})
}

type targetReq struct {
	Target []string `json:"target"`
	Unique bool     `json:"unique"`
}

func (s *Server) handleApplyTarget(w http.ResponseWriter, r *http.Request) {
	var req targetReq
	s.update(w, r, &req, func(b *wordbank.Board) error {
		if req.Unique {
			return b.ApplyTargetUnique(req.Target)
		}
		return b.ApplyTarget(req.Target)
	})
}

type wordsRes struct {
	Answered []string `json:"answered"`
	Bank     []string `json:"bank"`
}

func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := s.opts.Sessions.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	answered, bank := sess.Board.Split()
	writeJSON(w, http.StatusOK, wordsRes{Answered: answered, Bank: bank})
}

// update decodes body into req (unless req is nil), applies fn to the
// stored board and responds with the updated session.
func (s *Server) update(w http.ResponseWriter, r *http.Request, req any, fn func(*wordbank.Board) error) {
	id, err := sessionID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req != nil {
		if err := decode(r, req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	sess, err := s.opts.Sessions.Update(r.Context(), id, func(sess *session.Session) error {
		return fn(sess.Board)
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	for _, ev := range sess.Events {
		observability.Session().OnDrop(r.Context(), id, ev.Index, string(ev.Destination), ev.Position)
	}
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func sessionID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		return "", err
	}
	return id, nil
}
