package api

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/wordbank/pkg/errors"
	"github.com/matzehuels/wordbank/pkg/pipeline"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.opts.Runner.Layout(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type batchReq struct {
	Requests []pipeline.Request `json:"requests"`
}

type batchRes struct {
	Results []*pipeline.Result `json:"results"`
}

func (s *Server) handleLayoutBatch(w http.ResponseWriter, r *http.Request) {
	var req batchReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.opts.Runner.LayoutBatch(r.Context(), req.Requests)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batchRes{Results: res})
}

type ordersReq struct {
	Orders []int `json:"orders"`
	Index  int   `json:"index"`
	From   int   `json:"from"`
	To     int   `json:"to"`
}

type ordersRes struct {
	Orders []int `json:"orders"`
}

// slotsFor builds a slot arena from orders alone; widths play no part in
// ordering operations.
func slotsFor(orders []int) ([]wordbank.Slot, error) {
	if !wordbank.Dense(orders) {
		return nil, errors.New(errors.ErrCodeInvalidOrder, "orders are not a dense ranking: %v", orders)
	}
	slots := make([]wordbank.Slot, len(orders))
	for i, o := range orders {
		slots[i].Order = o
	}
	return slots, nil
}

func (s *Server) handleLastOrder(w http.ResponseWriter, r *http.Request) {
	var req ordersReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	slots, err := slotsFor(req.Orders)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"last": wordbank.LastOrder(slots)})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req ordersReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	slots, err := slotsFor(req.Orders)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := wordbank.RemoveFromAnswered(slots, req.Index); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersRes{Orders: wordbank.Orders(slots)})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req ordersReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	slots, err := slotsFor(req.Orders)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := wordbank.ReorderWithinAnswered(slots, req.From, req.To); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ordersRes{Orders: wordbank.Orders(slots)})
}

type moveReq struct {
	Values []json.RawMessage `json:"values"`
	From   int               `json:"from"`
	To     int               `json:"to"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := wordbank.Move(req.Values, req.From, req.To)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]json.RawMessage{"values": out})
}

type betweenReq struct {
	Value     float64 `json:"value"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Inclusive bool    `json:"inclusive"`
}

func (s *Server) handleBetween(w http.ResponseWriter, r *http.Request) {
	var req betweenReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{
		"result": wordbank.Between(req.Value, req.Lower, req.Upper, req.Inclusive),
	})
}
