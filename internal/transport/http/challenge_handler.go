package http

import (
	"net/http"

	"codemcq-service/internal/app"
	"codemcq-service/internal/auth"
	"github.com/go-chi/chi/v5"
)

// ChallengeHandler serves coding challenges and accepts submissions.
type ChallengeHandler struct {
	challenges *app.ChallengeService
}

func NewChallengeHandler(challenges *app.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challenges: challenges}
}

type submissionRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *ChallengeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.challenges.List(r.Context(), q.Get("language"), q.Get("level"))
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	writeOK(w, list, "")
}

func (h *ChallengeHandler) Get(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.challenges.Get(r.Context(), chi.URLParam(r, "challengeID"))
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	writeOK(w, challenge, "")
}

func (h *ChallengeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	var req submissionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeInvalid(w, err.Error())
		return
	}
	sub, err := h.challenges.Submit(r.Context(), userID, chi.URLParam(r, "challengeID"), req.Code)
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{Status: StatusOK, Data: sub})
}

func (h *ChallengeHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	subs, err := h.challenges.Submissions(r.Context(), userID, chi.URLParam(r, "challengeID"))
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	writeOK(w, subs, "")
}
