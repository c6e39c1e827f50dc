package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"engdaily/internal/jobs"
	"engdaily/internal/quiz"
	"engdaily/internal/reminder"

	"github.com/go-chi/chi/v5"
)

// ReminderStore is the slice of the reminder store the HTTP surface needs.
type ReminderStore interface {
	ListByUser(ctx context.Context, userID uint64) ([]reminder.Reminder, error)
	Create(ctx context.Context, r *reminder.Reminder) error
	Delete(ctx context.Context, id uint64) error
}

// QueueStats exposes queue depth for the health endpoint.
type QueueStats interface {
	Counts(ctx context.Context) (jobs.Counts, error)
}

type NotificationHandler struct {
	Store ReminderStore
	Queue QueueStats
}

type createNotificationRequest struct {
	UserID uint64   `json:"user_id"`
	Time   string   `json:"time"`
	Days   []string `json:"days"`
	Tense  string   `json:"tense"`
}

func (h *NotificationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	reminders, err := h.Store.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondData(w, r, http.StatusOK, reminders)
}

func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Geçersiz JSON formatı")
		return
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}
	if req.UserID == 0 || len(req.Days) == 0 || !quiz.IsValidTense(req.Tense) {
		respondError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	rem := reminder.Reminder{
		UserID: req.UserID,
		Time:   req.Time,
		Days:   req.Days,
		Tense:  req.Tense,
	}
	if err := h.Store.Create(r.Context(), &rem); err != nil {
		if errors.Is(err, reminder.ErrLimitReached) {
			respondError(w, r, http.StatusBadRequest, "Maksimum 5 bildirim oluşturulabilir.")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(w, r, http.StatusCreated, rem)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid notification id")
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, reminder.ErrNotFound) {
			respondError(w, r, http.StatusNotFound, "Notification setting not found")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationHandler) QueueStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Queue.Counts(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondData(w, r, http.StatusOK, counts)
}
