package handler

import (
	"encoding/json"
	"net/http"

	"github.com/CampusConnect/notice-service/internal/config"
	"github.com/CampusConnect/notice-service/internal/service"
)

type Resp map[string]interface{}

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	// auth
	mux.HandleFunc("POST /api/v1/auth/signup", h.signUp)
	mux.HandleFunc("POST /api/v1/auth/login", h.signIn)

	// notices
	mux.HandleFunc("GET /api/v1/notices", h.noticesList)
	mux.HandleFunc("GET /api/v1/notices/new-only", h.noticesNewOnly)
	mux.HandleFunc("GET /api/v1/notices/archived", h.noticesArchived)
	mux.HandleFunc("GET /api/v1/notices/{id}", h.noticesGet)
	mux.HandleFunc("POST /api/v1/notices", h.noticesCreate)
	mux.HandleFunc("PUT /api/v1/notices/{id}", h.noticesUpdate)
	mux.HandleFunc("PATCH /api/v1/notices/{id}/view", h.noticesMarkViewed)
	mux.HandleFunc("PATCH /api/v1/notices/{id}/archive", h.noticesToggleArchive)
	mux.HandleFunc("DELETE /api/v1/notices/{id}", h.noticesDelete)

	// live badge pushes
	mux.HandleFunc("GET /api/v1/notifications/ws", h.noticesWS)

	// notice images
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadsDir()))))

	return mux
}

func (h *Handler) Respond(w http.ResponseWriter, resp any, statusCode int) {
	respJSON, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(respJSON)
}
