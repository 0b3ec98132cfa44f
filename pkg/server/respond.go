package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperr "github.com/matzehuels/tensorcubes/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code  apperr.Code `json:"code"`
	Error string      `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes err with its code. Errors without a code are reported as
// internal and their text is not exposed.
func writeError(w http.ResponseWriter, status int, err error) {
	code := apperr.GetCode(err)
	msg := apperr.UserMessage(err)
	if code == "" {
		code, msg = apperr.ErrCodeInternal, "internal error"
	}
	writeJSON(w, status, errorBody{Code: code, Error: msg})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch apperr.GetCode(err) {
	case apperr.ErrCodeInvalidInput, apperr.ErrCodeInvalidShape, apperr.ErrCodeInvalidTensor,
		apperr.ErrCodeInvalidAxes, apperr.ErrCodeInvalidMode, apperr.ErrCodeInvalidConfig,
		apperr.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case apperr.ErrCodeTooLarge:
		return http.StatusUnprocessableEntity
	case apperr.ErrCodeNotFound, apperr.ErrCodeFileNotFound:
		return http.StatusNotFound
	case apperr.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func notFound(r *http.Request) error {
	return apperr.New(apperr.ErrCodeNotFound, "no route for %s", r.URL.Path)
}

func badRequest(format string, args ...any) error {
	return apperr.New(apperr.ErrCodeInvalidInput, "%s", fmt.Sprintf(format, args...))
}
