package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/chanroute/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidFormat, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errs.ErrCodeUnroutable, errs.ErrCodeRetriesExhausted:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeUnsupported:
		return http.StatusNotImplemented
	case errs.ErrCodeNetwork:
		return http.StatusBadGateway
	case errs.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	msg := errs.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
