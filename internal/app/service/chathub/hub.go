package chathub

import (
	"context"

	"github.com/gorilla/websocket"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tiredaf123/fitflow--G3-sub001/internal/app/service/messaging"
	"github.com/tiredaf123/fitflow--G3-sub001/pkg/types"
)

type joinRequest struct {
	client  *Client
	roomKey string
}

type outbound struct {
	roomKey string
	payload []byte
}

// Hub tracks which connections are subscribed to which conversation room and
// fans persisted messages out to them. All membership mutation happens on the
// run loop goroutine.
type Hub struct {
	log      *zap.SugaredLogger
	messages *messaging.Service

	rooms map[string]map[*Client]bool

	join       chan joinRequest
	unregister chan *Client
	broadcast  chan outbound
	done       chan struct{}
}

func NewHub(log *zap.SugaredLogger, messages *messaging.Service) *Hub {
	return &Hub{
		log:        log,
		messages:   messages,
		rooms:      make(map[string]map[*Client]bool),
		join:       make(chan joinRequest),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 64),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case req := <-h.join:
			h.handleJoin(req)
		case c := <-h.unregister:
			h.handleLeave(c)
		case out := <-h.broadcast:
			h.handleBroadcast(out)
		case <-h.done:
			for _, clients := range h.rooms {
				for c := range clients {
					h.closeClient(c)
				}
			}
			h.rooms = make(map[string]map[*Client]bool)
			return
		}
	}
}

func (h *Hub) handleJoin(req joinRequest) {
	c := req.client
	// an evicted client keeps its readPump alive until the connection dies;
	// it must never get back into a room with a closed send channel
	if c.closed {
		return
	}
	if c.room != "" && c.room != req.roomKey {
		h.removeFromRoom(c)
	}
	c.room = req.roomKey
	if h.rooms[req.roomKey] == nil {
		h.rooms[req.roomKey] = make(map[*Client]bool)
	}
	h.rooms[req.roomKey][c] = true
	h.log.Debugw("client joined room", "user_id", c.userID, "room_key", req.roomKey)
}

func (h *Hub) handleLeave(c *Client) {
	if clients, ok := h.rooms[c.room]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.room)
		}
	}
	h.closeClient(c)
}

func (h *Hub) handleBroadcast(out outbound) {
	for c := range h.rooms[out.roomKey] {
		select {
		case c.send <- out.payload:
		default:
			// slow consumer, drop the connection rather than block the hub
			delete(h.rooms[out.roomKey], c)
			h.closeClient(c)
		}
	}
}

// closeClient closes the client at most once. Only the run loop calls it, so
// the closed flag needs no locking.
func (h *Hub) closeClient(c *Client) {
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		c.conn.Close()
	}
}

func (h *Hub) removeFromRoom(c *Client) {
	if clients, ok := h.rooms[c.room]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.rooms, c.room)
		}
	}
}

// HandleConn takes ownership of an upgraded connection whose identity was
// established before the upgrade.
func (h *Hub) HandleConn(conn *websocket.Conn, userID string, role types.Role) {
	c := newClient(h, conn, userID, role)
	go c.writePump()
	go c.readPump()
}

// Module runs the hub for the lifetime of the application.
var Module = fx.Options(
	fx.Provide(NewHub),
	fx.Invoke(runHub),
)

func runHub(lc fx.Lifecycle, h *Hub) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go h.Run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(h.done)
			return nil
		},
	})
}
