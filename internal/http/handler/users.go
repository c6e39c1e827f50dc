package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"engdaily/internal/auth"
	"engdaily/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB  *gorm.DB
	JWT *auth.JWT
}

type userPayload struct {
	FirstName           *string `json:"first_name"`
	LastName            *string `json:"last_name"`
	Email               *string `json:"email"`
	NotificationToken   *string `json:"notification_token"`
	NotificationEnabled *bool   `json:"notification_enabled"`
	DeviceType          *string `json:"device_type"`
	DeviceVersion       *string `json:"device_version"`
	DeviceModel         *string `json:"device_model"`
	DeviceName          *string `json:"device_name"`
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []user.User
	if err := h.DB.Order("created_at desc").Find(&users).Error; err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	render.JSON(w, r, users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	var u user.User
	if err := h.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, r, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	render.JSON(w, r, u)
}

// Create registers the device and hands back the identity token every
// authenticated endpoint expects.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Geçersiz JSON formatı")
		return
	}

	u := user.User{}
	applyUserPayload(&u, req)
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))

	if u.Email != "" {
		var existing user.User
		if err := h.DB.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			respondError(w, r, http.StatusConflict, "Email already exists")
			return
		}
	}

	if err := h.DB.Create(&u).Error; err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	token, err := h.JWT.Sign(u.ID, u.Email)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"user":  u,
		"token": token,
	})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req userPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, "Geçersiz JSON formatı")
		return
	}

	var u user.User
	if err := h.DB.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(w, r, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email != "" && email != u.Email {
			var conflict user.User
			if err := h.DB.Where("email = ? AND id != ?", email, id).First(&conflict).Error; err == nil {
				respondError(w, r, http.StatusConflict, "Email already exists")
				return
			}
		}
		req.Email = &email
	}

	applyUserPayload(&u, req)
	if err := h.DB.Save(&u).Error; err != nil {
		respondError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}
	render.JSON(w, r, u)
}

// applyUserPayload copies only the fields the request actually carried,
// leaving the rest untouched (partial update).
func applyUserPayload(u *user.User, req userPayload) {
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.NotificationToken != nil {
		u.NotificationToken = *req.NotificationToken
	}
	if req.NotificationEnabled != nil {
		u.NotificationEnabled = *req.NotificationEnabled
	}
	if req.DeviceType != nil {
		u.DeviceType = *req.DeviceType
	}
	if req.DeviceVersion != nil {
		u.DeviceVersion = *req.DeviceVersion
	}
	if req.DeviceModel != nil {
		u.DeviceModel = *req.DeviceModel
	}
	if req.DeviceName != nil {
		u.DeviceName = *req.DeviceName
	}
}
