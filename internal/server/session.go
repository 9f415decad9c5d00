package server

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"arena/internal/game"
	"arena/internal/net"
)

// playerSession binds a token to a slot for the lifetime of a match. The
// binding survives disconnects for the grace window, after which the slot is
// freed and a late reconnect is treated as a fresh join.
type playerSession struct {
	Token          string
	Slot           int
	Name           string
	Connected      bool
	DisconnectedAt time.Time
}

// RoomHost owns the network side of one room: live connections per slot and
// the token→slot session table. The simulation itself never sees tokens.
type RoomHost struct {
	Code string
	Room *game.Room

	// Host lock is never held while calling into game.Room.
	mu       sync.Mutex
	conns    map[int]*Connection
	sessions map[string]*playerSession
	emptyAt  time.Time // when the last connection left; zero while occupied
}

func newRoomHost(code string, room *game.Room) *RoomHost {
	h := &RoomHost{
		Code:     code,
		Room:     room,
		conns:    make(map[int]*Connection),
		sessions: make(map[string]*playerSession),
		emptyAt:  time.Now(),
	}
	room.SetEmit(h.Broadcast)
	return h
}

// Broadcast fans a message out to every attached connection.
func (h *RoomHost) Broadcast(v interface{}) {
	h.mu.Lock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		c.SendMessage(v)
	}
}

// Attach resolves a hello into a slot: a known token reattaches with state
// intact, anything else is a fresh join. A full room rejects the requester
// only.
func (h *RoomHost) Attach(c *Connection, name, token string) {
	if token != "" {
		h.mu.Lock()
		s, ok := h.sessions[token]
		live := ok && s.Connected
		h.mu.Unlock()
		// A token whose old socket is still attached takes its slot over:
		// the new hello can race ahead of the old socket's detach, and that
		// must never burn a second slot. The replaced socket's late detach
		// is already a no-op.
		if ok && (live || h.Room.Reconnect(s.Slot)) {
			h.mu.Lock()
			old := h.conns[s.Slot]
			s.Connected = true
			h.conns[s.Slot] = c
			h.emptyAt = time.Time{}
			h.mu.Unlock()
			c.slot = s.Slot
			if old != nil && old != c && old.conn != nil {
				old.conn.Close()
			}
			c.SendMessage(net.WelcomeMessage{Type: "welcome", Slot: s.Slot, Token: token, RoomCode: h.Code})
			c.SendMessage(h.Room.Snapshot())
			return
		}
		// Unknown or expired token: fall through to a fresh join.
	}

	slot, ok := h.Room.Connect(name)
	if !ok {
		c.SendMessage(net.JoinRejectedMessage{Type: "joinRejected", Reason: "room full"})
		return
	}

	newToken := uuid.NewString()
	h.mu.Lock()
	h.sessions[newToken] = &playerSession{Token: newToken, Slot: slot, Name: name, Connected: true}
	h.conns[slot] = c
	h.emptyAt = time.Time{}
	h.mu.Unlock()

	c.slot = slot
	c.SendMessage(net.WelcomeMessage{Type: "welcome", Slot: slot, Token: newToken, RoomCode: h.Code})
	c.SendMessage(h.Room.Snapshot())
}

// Detach handles a dropped connection: the slot goes disconnected and its
// session starts the grace clock.
func (h *RoomHost) Detach(c *Connection) {
	if c.slot == 0 {
		return
	}
	h.mu.Lock()
	// Only the current connection may detach the slot; a reconnect that
	// already replaced us must not be undone by the old socket dying.
	if h.conns[c.slot] != c {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c.slot)
	for _, s := range h.sessions {
		if s.Slot == c.slot {
			s.Connected = false
			s.DisconnectedAt = time.Now()
			break
		}
	}
	if len(h.conns) == 0 {
		h.emptyAt = time.Now()
	}
	h.mu.Unlock()

	h.Room.Disconnect(c.slot)
	log.Printf("room %s: slot %d disconnected", h.Code, c.slot)
}

// expireSessions frees slots whose grace window has lapsed. Returns whether
// the host has been empty past the grace window and can be reaped.
func (h *RoomHost) expireSessions(grace time.Duration) bool {
	now := time.Now()
	var freed []int

	h.mu.Lock()
	for token, s := range h.sessions {
		if !s.Connected && now.Sub(s.DisconnectedAt) > grace {
			freed = append(freed, s.Slot)
			delete(h.sessions, token)
		}
	}
	reapable := len(h.conns) == 0 && !h.emptyAt.IsZero() && now.Sub(h.emptyAt) > grace
	h.mu.Unlock()

	for _, slot := range freed {
		h.Room.FreeSlot(slot)
	}
	return reapable
}
