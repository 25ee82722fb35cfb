package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wordbank/pkg/errors"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error code to an HTTP status.
func statusFor(code errors.Code) int {
	switch code.Kind() {
	case errors.KindInput:
		return http.StatusBadRequest
	case errors.KindState:
		return http.StatusConflict
	case errors.KindMissing:
		if code == errors.ErrCodeSessionExpired {
			return http.StatusGone
		}
		return http.StatusNotFound
	case errors.KindUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.CodeOf(err)
	status := statusFor(code)
	msg := errors.UserMessage(err)
	if status >= 500 {
		log.FromContext(r.Context()).Error("request failed", "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
