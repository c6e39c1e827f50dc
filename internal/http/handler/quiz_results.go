package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"engdaily/internal/auth"
	"engdaily/internal/quiz"
)

type QuizResultHandler struct {
	Results *quiz.ResultService
}

type saveQuizResultRequest struct {
	QuizID         uint64 `json:"quizId"`
	CorrectAnswers *int   `json:"correctAnswers"`
	WrongAnswers   *int   `json:"wrongAnswers"`
}

func (h *QuizResultHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req saveQuizResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Geçersiz JSON formatı")
		return
	}
	if req.QuizID == 0 || req.CorrectAnswers == nil || req.WrongAnswers == nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	updated, err := h.Results.UpdateScores(r.Context(), req.QuizID, userID, *req.CorrectAnswers, *req.WrongAnswers)
	if err != nil {
		if errors.Is(err, quiz.ErrResultNotFound) {
			respondError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(w, r, http.StatusOK, updated)
}

func (h *QuizResultHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	results, err := h.Results.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondData(w, r, http.StatusOK, results)
}
