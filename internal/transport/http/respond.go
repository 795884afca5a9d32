package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"codemcq-service/internal/auth"
	"codemcq-service/internal/domain"
	log "github.com/sirupsen/logrus"
)

// Status values carried by every JSON response.
const (
	StatusOK               = "ok"
	StatusNotFound         = "not_found"
	StatusInvalidInput     = "invalid_input"
	StatusAlreadyCompleted = "already_completed"
	StatusFinalize         = "finalize"
	StatusUnauthenticated  = "unauthenticated"
	StatusError            = "error"
)

const maxBodyBytes = 1 << 20

// Envelope is the response shape of the JSON API.
type Envelope struct {
	Status   string `json:"status"`
	Data     any    `json:"data,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("write response")
	}
}

func writeOK(w http.ResponseWriter, data any, redirect string) {
	writeJSON(w, http.StatusOK, Envelope{Status: StatusOK, Data: data, Redirect: redirect})
}

// writeError maps domain errors onto status codes. attemptID, when non-zero,
// points already-completed callers at the result page.
func writeError(w http.ResponseWriter, r *http.Request, err error, attemptID int64) {
	switch {
	case errors.Is(err, domain.ErrAlreadyCompleted):
		writeJSON(w, http.StatusConflict, Envelope{
			Status:   StatusAlreadyCompleted,
			Redirect: resultPath(attemptID),
			Error:    err.Error(),
		})
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, Envelope{Status: StatusNotFound, Redirect: catalogPath, Error: err.Error()})
	case domain.IsInvalidInput(err):
		writeJSON(w, http.StatusBadRequest, Envelope{Status: StatusInvalidInput, Error: err.Error()})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, Envelope{Status: StatusUnauthenticated, Error: err.Error()})
	default:
		log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeJSON(w, http.StatusInternalServerError, Envelope{Status: StatusError, Error: "internal error"})
	}
}

func writeInvalid(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, Envelope{Status: StatusInvalidInput, Error: msg})
}

func denyUnauthenticated(w http.ResponseWriter, _ *http.Request, d auth.Decision) {
	writeJSON(w, http.StatusUnauthorized, Envelope{Status: StatusUnauthenticated, Error: d.Reason})
}

// decodeBody reads a JSON body and runs struct validation on it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	if err := domain.Validator().Struct(dst); err != nil {
		return err
	}
	return nil
}

const catalogPath = "/api/catalog"

func attemptPath(attemptID int64) string {
	return fmt.Sprintf("/api/attempts/%d", attemptID)
}

func questionPath(attemptID int64, position int) string {
	return fmt.Sprintf("%s/questions/%d", attemptPath(attemptID), position)
}

func finalizePath(attemptID int64) string {
	return attemptPath(attemptID) + "/finalize"
}

func resultPath(attemptID int64) string {
	if attemptID == 0 {
		return ""
	}
	return attemptPath(attemptID) + "/result"
}
