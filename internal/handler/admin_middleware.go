package handler

import (
	"net/http"

	"github.com/CampusConnect/notice-service/internal/model"
)

func (h *Handler) adminMiddleware(r *http.Request) (*model.User, error) {
	user, err := h.authMiddleware(r)
	if err != nil {
		return nil, err
	}

	if user.Role != model.RoleAdmin {
		return nil, errNotAdmin
	}

	return user, nil
}
