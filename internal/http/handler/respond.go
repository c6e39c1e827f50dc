package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

func respondData(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{
		"success": true,
		"data":    data,
	})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]any{
		"success": false,
		"message": message,
	})
}
