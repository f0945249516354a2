package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Event is the envelope pushed to room subscribers. Type is one of
// "message", "ledger", or "refresh".
type Event struct {
	Type string      `json:"type"`
	Room string      `json:"room"`
	Data interface{} `json:"data,omitempty"`
}

// Connection represents a websocket connection to one client in one room.
type Connection struct {
	Conn     *websocket.Conn
	Send     chan []byte
	MemberID string
	Room     string
}

// roomHub maintains the set of active connections for one room and fans
// events out to them.
type roomHub struct {
	room       string
	conns      map[*Connection]bool
	register   chan *Connection
	unregister chan *Connection
	broadcast  chan []byte
	mu         sync.Mutex
	log        logrus.FieldLogger
}

// Hub hands out per-room hubs keyed by room name.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]*roomHub
	log   logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{rooms: make(map[string]*roomHub), log: log}
}

func (h *Hub) room(name string) *roomHub {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rh, ok := h.rooms[name]; ok {
		return rh
	}
	rh := &roomHub{
		room:       name,
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte),
		log:        h.log,
	}
	h.rooms[name] = rh
	go rh.run()
	return rh
}

// Register attaches a connection to its room's hub.
func (h *Hub) Register(c *Connection) {
	h.room(c.Room).register <- c
}

// Unregister detaches a connection.
func (h *Hub) Unregister(c *Connection) {
	h.room(c.Room).unregister <- c
}

// Broadcast pushes an event to every subscriber of the room.
func (h *Hub) Broadcast(room string, ev Event) {
	ev.Room = room
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).Warn("event marshal failed")
		return
	}
	h.room(room).broadcast <- b
}

func (rh *roomHub) run() {
	for {
		select {
		case c := <-rh.register:
			rh.mu.Lock()
			rh.conns[c] = true
			rh.mu.Unlock()
			rh.log.WithFields(logrus.Fields{"room": rh.room, "member": c.MemberID}).Info("subscriber joined")
		case c := <-rh.unregister:
			rh.mu.Lock()
			if _, ok := rh.conns[c]; ok {
				delete(rh.conns, c)
				close(c.Send)
			}
			rh.mu.Unlock()
			rh.log.WithFields(logrus.Fields{"room": rh.room, "member": c.MemberID}).Info("subscriber left")
		case msg := <-rh.broadcast:
			rh.mu.Lock()
			for c := range rh.conns {
				select {
				case c.Send <- msg:
				default:
					// send buffer full, drop the connection
					delete(rh.conns, c)
					close(c.Send)
				}
			}
			rh.mu.Unlock()
		}
	}
}

// StartWrite drains the Send channel into the websocket.
func (c *Connection) StartWrite() {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// StartRead blocks until the client disconnects. Clients talk to the ledger
// over HTTP; the socket is push-only, so inbound frames are discarded.
func (c *Connection) StartRead(h *Hub) {
	defer func() {
		h.Unregister(c)
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
