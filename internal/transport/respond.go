package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/feeuplift/internal/domain/casefile"
	"github.com/rpggio/feeuplift/internal/domain/team"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Allowed []string `json:"allowed,omitempty"`
}

// StatusFor maps a domain error to an HTTP status and error code.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, casefile.ErrInvalidInput), errors.Is(err, team.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, casefile.ErrCaseNotFound):
		return http.StatusNotFound, "case_not_found"
	case errors.Is(err, team.ErrTeamNotFound):
		return http.StatusNotFound, "team_not_found"
	case errors.Is(err, casefile.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, casefile.ErrIllegalTransition):
		return http.StatusUnprocessableEntity, "illegal_transition"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := StatusFor(err)
	body := ErrorBody{Code: code, Message: err.Error()}
	if status == http.StatusInternalServerError {
		body.Message = "internal error"
	}
	var terr *casefile.TransitionError
	if errors.As(err, &terr) {
		body.Allowed = terr.Allowed
		if body.Allowed == nil {
			body.Allowed = []string{}
		}
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(body io.Reader, out any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", casefile.ErrInvalidInput, err)
	}
	return nil
}
