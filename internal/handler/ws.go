package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *Handler) noticesWS(w http.ResponseWriter, r *http.Request) {
	user, err := h.authMiddleware(r)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.services.Notice.RegisterConnection(user.ID, conn)
}
