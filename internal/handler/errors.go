package handler

import (
	"errors"
	"net/http"

	"github.com/CampusConnect/notice-service/internal/service"
)

var (
	errNoToken       = errors.New("there is no token")
	errInvalidJWT    = errors.New("invalid jwt")
	errInvalidUserID = errors.New("invalid user ID")
	errNotAdmin      = errors.New("admin access required")
)

// respondAuthError distinguishes a caller without a usable identity (401)
// from one whose identity lacks the role (403).
func (h *Handler) respondAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	if errors.Is(err, errNotAdmin) {
		status = http.StatusForbidden
	}
	h.Respond(w, Resp{"error": err.Error()}, status)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidCategory):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNoticeNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	h.Respond(w, Resp{"error": err.Error()}, status)
}
