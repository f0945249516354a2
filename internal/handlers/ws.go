package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"poolroom/internal/store"
	"poolroom/internal/ws"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SocketHandler upgrades GET /ws?room=X&member_id=Y and subscribes the
// connection to the room's event stream. Only members may subscribe.
type SocketHandler struct {
	Store store.Store
	Hub   *ws.Hub
}

func (h *SocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	roomName := q.Get("room")
	memberID := q.Get("member_id")
	if roomName == "" || memberID == "" {
		http.Error(w, "room and member_id required", http.StatusBadRequest)
		return
	}

	snap, err := h.Store.GetRoom(r.Context(), roomName)
	if errors.Is(err, store.ErrRoomNotFound) {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "store error", http.StatusInternalServerError)
		return
	}
	if _, ok := snap.Members[memberID]; !ok {
		http.Error(w, "not a member of room", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &ws.Connection{
		Conn:     conn,
		Send:     make(chan []byte, 256),
		MemberID: memberID,
		Room:     roomName,
	}
	h.Hub.Register(c)

	go c.StartWrite()
	c.StartRead(h.Hub)
}
