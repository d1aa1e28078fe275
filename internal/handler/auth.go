package handler

import (
	"encoding/json"
	"net/http"

	"github.com/CampusConnect/notice-service/internal/dto"
)

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var input dto.SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	resp, err := h.services.User.SignUp(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, resp, http.StatusCreated)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var input dto.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Respond(w, Resp{"error": err.Error()}, http.StatusBadRequest)
		return
	}

	resp, err := h.services.User.SignIn(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	h.Respond(w, resp, http.StatusOK)
}
