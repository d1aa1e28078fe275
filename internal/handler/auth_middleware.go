package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/CampusConnect/notice-service/internal/model"
	"github.com/google/uuid"
	jwtmanager "github.com/morf1lo/jwt-pair-manager"
)

func (h *Handler) authMiddleware(r *http.Request) (*model.User, error) {
	bearerHeader := r.Header.Get("Authorization")

	if !strings.HasPrefix(bearerHeader, "Bearer ") {
		return nil, errNoToken
	}

	token := strings.Split(bearerHeader, " ")[1]
	if token == "" {
		return nil, errNoToken
	}

	claims, err := jwtmanager.DecodeJWT(token, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		return nil, errInvalidJWT
	}

	userIDString, exists := claims["id"].(string)
	if !exists {
		return nil, errInvalidJWT
	}
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		return nil, errInvalidUserID
	}

	user, err := h.services.User.FindByID(r.Context(), userID)
	if err != nil {
		return nil, errInvalidJWT
	}

	return user, nil
}

// optionalAuth resolves the viewer when a usable token is present; a missing
// or invalid token degrades to an anonymous view rather than failing the
// request.
func (h *Handler) optionalAuth(r *http.Request) *model.User {
	user, err := h.authMiddleware(r)
	if err != nil {
		return nil
	}
	return user
}
