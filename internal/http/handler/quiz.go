package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"engdaily/internal/auth"
	"engdaily/internal/quiz"
)

// QuizGenerator produces the question set for one quiz run.
type QuizGenerator interface {
	CreateQuiz(ctx context.Context, tense string, count int) ([]quiz.Question, error)
}

type QuizHandler struct {
	Generator QuizGenerator
	Results   *quiz.ResultService
	Log       *slog.Logger
}

type createQuizRequest struct {
	Tense         string `json:"tense"`
	QuestionCount int    `json:"questionCount"`
}

func (h *QuizHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, r, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Geçersiz JSON formatı")
		return
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = 10
	}

	todayCount, err := h.Results.CountToday(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	if todayCount >= quiz.DailyLimit {
		hours, minutes, err := h.Results.NextQuizTime(r.Context(), userID)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, "Internal server error")
			return
		}
		respondError(w, r, http.StatusBadRequest, dailyLimitMessage(hours, minutes))
		return
	}

	if !quiz.IsValidTense(req.Tense) {
		respondError(w, r, http.StatusBadRequest, "Invalid tense value")
		return
	}

	questions, err := h.Generator.CreateQuiz(r.Context(), req.Tense, req.QuestionCount)
	if err != nil {
		h.Log.Error("quiz generation failed", "user", userID, "tense", req.Tense, "error", err)
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// The row starts with zero scores; the app reports them when done.
	result, err := h.Results.Create(r.Context(), userID, req.Tense, req.QuestionCount)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(w, r, http.StatusOK, map[string]any{
		"questions": questions,
		"quizId":    result.ID,
	})
}

func dailyLimitMessage(hours, minutes int) string {
	if hours == 0 && minutes == 0 {
		return fmt.Sprintf("Günde en fazla %d quiz başlatılabilir. Quiz hakkınız sıfırlandı, tekrar başlayabilirsiniz.", quiz.DailyLimit)
	}

	wait := ""
	if hours > 0 {
		wait += fmt.Sprintf("%d saat ", hours)
	}
	if minutes > 0 {
		wait += fmt.Sprintf("%d dakika ", minutes)
	}
	return fmt.Sprintf("Günde en fazla %d quiz başlatılabilir. Tekrar quiz başlatmak için %sbekleyiniz.", quiz.DailyLimit, wait)
}
