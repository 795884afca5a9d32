package http

import (
	"net/http"
	"strconv"

	"codemcq-service/internal/app"
	"codemcq-service/internal/auth"
	"codemcq-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// AttemptHandler exposes the attempt lifecycle over JSON.
type AttemptHandler struct {
	attempts  *app.AttemptService
	dashboard *app.DashboardService
}

func NewAttemptHandler(attempts *app.AttemptService, dashboard *app.DashboardService) *AttemptHandler {
	return &AttemptHandler{attempts: attempts, dashboard: dashboard}
}

type startRequest struct {
	Language string `json:"language" validate:"required"`
	Level    string `json:"level" validate:"required"`
}

type answerRequest struct {
	QuestionID domain.QuestionID `json:"question_id" validate:"required"`
	OptionID   *string           `json:"option_id"`
	// Position is the page the answer was given on; it drives navigation
	// when present.
	Position *int `json:"position" validate:"omitempty,gte=0"`
}

func (h *AttemptHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	var req startRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeInvalid(w, err.Error())
		return
	}
	attempt, err := h.attempts.Start(r.Context(), userID, req.Language, req.Level)
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	writeJSON(w, http.StatusCreated, Envelope{
		Status:   StatusOK,
		Data:     domain.Summarize(attempt, ""),
		Redirect: questionPath(attempt.ID, 0),
	})
}

func (h *AttemptHandler) Question(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	attemptID, ok := attemptIDParam(w, r)
	if !ok {
		return
	}
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		writeInvalid(w, "position must be an integer")
		return
	}
	step, err := h.attempts.GetQuestion(r.Context(), attemptID, userID, position)
	if err != nil {
		writeError(w, r, err, attemptID)
		return
	}
	if step.Action == domain.ActionFinalize {
		writeJSON(w, http.StatusOK, Envelope{Status: StatusFinalize, Data: step, Redirect: finalizePath(attemptID)})
		return
	}
	writeOK(w, step.View, "")
}

func (h *AttemptHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	attemptID, ok := attemptIDParam(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeInvalid(w, err.Error())
		return
	}
	var (
		outcome domain.AnswerOutcome
		err     error
	)
	if req.Position != nil {
		outcome, err = h.attempts.SubmitAnswerAt(r.Context(), attemptID, userID, *req.Position, req.QuestionID, req.OptionID)
	} else {
		outcome, err = h.attempts.SubmitAnswer(r.Context(), attemptID, userID, req.QuestionID, req.OptionID)
	}
	if err != nil {
		writeError(w, r, err, attemptID)
		return
	}
	redirect := resultPath(attemptID)
	if outcome.Action == domain.ActionQuestion {
		redirect = questionPath(attemptID, outcome.NextPosition)
	}
	writeOK(w, outcome, redirect)
}

func (h *AttemptHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	attemptID, ok := attemptIDParam(w, r)
	if !ok {
		return
	}
	attempt, err := h.attempts.Finalize(r.Context(), attemptID, userID)
	if err != nil {
		writeError(w, r, err, attemptID)
		return
	}
	writeOK(w, domain.Summarize(attempt, ""), resultPath(attemptID))
}

func (h *AttemptHandler) Result(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	attemptID, ok := attemptIDParam(w, r)
	if !ok {
		return
	}
	result, err := h.attempts.BuildResult(r.Context(), attemptID, userID)
	if err != nil {
		writeError(w, r, err, attemptID)
		return
	}
	writeOK(w, result, "")
}

func (h *AttemptHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserFromContext(r.Context())
	dash, err := h.dashboard.Dashboard(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, 0)
		return
	}
	writeOK(w, dash, "")
}

func attemptIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "attemptID"), 10, 64)
	if err != nil || id <= 0 {
		writeInvalid(w, "attempt id must be a positive integer")
		return 0, false
	}
	return id, true
}
