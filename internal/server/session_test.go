package server

import (
	"encoding/json"
	"testing"

	"arena/internal/game"
)

func newTestHost(t *testing.T) *RoomHost {
	t.Helper()
	cfg := game.DefaultTuning()
	return newRoomHost("TEST01", game.NewRoom("TEST01", cfg, 1))
}

func newTestConn() *Connection {
	return &Connection{send: make(chan []byte, 64)}
}

// recv decodes the next queued message on a test connection.
func recv(t *testing.T, c *Connection) map[string]interface{} {
	t.Helper()
	select {
	case b := <-c.send:
		var m map[string]interface{}
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("decode message: %v", err)
		}
		return m
	default:
		t.Fatalf("no message queued")
		return nil
	}
}

func TestAttachAssignsSlotAndToken(t *testing.T) {
	h := newTestHost(t)
	c := newTestConn()

	h.Attach(c, "alice", "")

	m := recv(t, c)
	if m["type"] != "welcome" {
		t.Fatalf("type = %v, want welcome", m["type"])
	}
	if int(m["slot"].(float64)) != 1 {
		t.Fatalf("slot = %v, want 1", m["slot"])
	}
	if m["token"] == "" || m["token"] == nil {
		t.Fatalf("welcome must carry a session token")
	}
	if snap := recv(t, c); snap["type"] != "snapshot" {
		t.Fatalf("expected an initial snapshot, got %v", snap["type"])
	}
}

func TestFullRoomRejectsRequesterOnly(t *testing.T) {
	h := newTestHost(t)
	var conns []*Connection
	for i := 0; i < game.MaxPlayers; i++ {
		c := newTestConn()
		h.Attach(c, "p", "")
		conns = append(conns, c)
	}

	late := newTestConn()
	h.Attach(late, "late", "")

	m := recv(t, late)
	if m["type"] != "joinRejected" {
		t.Fatalf("type = %v, want joinRejected", m["type"])
	}
	for i, c := range conns {
		if len(c.send) != 2 { // welcome + snapshot only
			t.Fatalf("conn %d received %d messages; rejection must go to the requester only", i, len(c.send))
		}
	}
}

func TestReconnectWithTokenKeepsSlot(t *testing.T) {
	h := newTestHost(t)
	c1 := newTestConn()
	h.Attach(c1, "alice", "")
	welcome := recv(t, c1)
	token := welcome["token"].(string)
	slot := int(welcome["slot"].(float64))

	h.Detach(c1)

	c2 := newTestConn()
	h.Attach(c2, "alice", token)
	m := recv(t, c2)
	if m["type"] != "welcome" {
		t.Fatalf("type = %v, want welcome", m["type"])
	}
	if int(m["slot"].(float64)) != slot {
		t.Fatalf("reconnect slot = %v, want %d", m["slot"], slot)
	}
	if m["token"].(string) != token {
		t.Fatalf("reconnect must keep the original token")
	}
}

func TestUnknownTokenFallsBackToFreshJoin(t *testing.T) {
	h := newTestHost(t)
	c := newTestConn()

	h.Attach(c, "bob", "not-a-real-token")

	m := recv(t, c)
	if m["type"] != "welcome" {
		t.Fatalf("type = %v, want welcome", m["type"])
	}
	if m["token"].(string) == "not-a-real-token" {
		t.Fatalf("unknown token must be replaced by a fresh one")
	}
}

func TestGraceExpiryFreesSlotForFreshJoin(t *testing.T) {
	h := newTestHost(t)
	c1 := newTestConn()
	h.Attach(c1, "alice", "")
	welcome := recv(t, c1)
	token := welcome["token"].(string)

	h.Detach(c1)
	h.expireSessions(0)

	// The stale token no longer reattaches; the slot was freed.
	c2 := newTestConn()
	h.Attach(c2, "alice", token)
	m := recv(t, c2)
	if m["type"] != "welcome" {
		t.Fatalf("type = %v, want welcome", m["type"])
	}
	if int(m["slot"].(float64)) != 1 {
		t.Fatalf("slot = %v, want reassigned slot 1", m["slot"])
	}
	if m["token"].(string) == token {
		t.Fatalf("expired token must not be honored")
	}
}

// A hello with a known token can race ahead of the old socket's detach. The
// new connection must take over the existing slot, never claim a second one.
func TestLiveTokenHelloReplacesConnection(t *testing.T) {
	h := newTestHost(t)
	c1 := newTestConn()
	h.Attach(c1, "alice", "")
	welcome := recv(t, c1)
	token := welcome["token"].(string)
	slot := int(welcome["slot"].(float64))

	c2 := newTestConn()
	h.Attach(c2, "alice", token)

	m := recv(t, c2)
	if m["type"] != "welcome" {
		t.Fatalf("type = %v, want welcome", m["type"])
	}
	if int(m["slot"].(float64)) != slot {
		t.Fatalf("slot = %v, want %d (same slot taken over)", m["slot"], slot)
	}
	if m["token"].(string) != token {
		t.Fatalf("takeover must keep the original token")
	}

	h.mu.Lock()
	liveConn := h.conns[slot]
	total := len(h.conns)
	h.mu.Unlock()
	if liveConn != c2 {
		t.Fatalf("slot still bound to the old connection")
	}
	if total != 1 {
		t.Fatalf("connections = %d, want 1 (no second slot burned)", total)
	}

	// The old socket's late detach must not evict the replacement.
	h.Detach(c1)
	h.mu.Lock()
	_, still := h.conns[slot]
	h.mu.Unlock()
	if !still {
		t.Fatalf("stale detach removed the replacement connection")
	}
}

func TestStaleSocketCannotDetachReplacement(t *testing.T) {
	h := newTestHost(t)
	c1 := newTestConn()
	h.Attach(c1, "alice", "")
	welcome := recv(t, c1)
	token := welcome["token"].(string)

	h.Detach(c1)
	c2 := newTestConn()
	h.Attach(c2, "alice", token)

	// The old socket's read pump dies late; it must not detach c2's slot.
	h.Detach(c1)

	h.mu.Lock()
	_, live := h.conns[c2.slot]
	h.mu.Unlock()
	if !live {
		t.Fatalf("stale detach removed the replacement connection")
	}
}

func TestRegistrySweepReapsEmptyRooms(t *testing.T) {
	cfg := game.DefaultTuning()
	cfg.GracePeriod = 0
	reg := NewRegistry(cfg)

	host := reg.CreateRoom()
	if _, ok := reg.Lookup(host.Code); !ok {
		t.Fatalf("room should be registered")
	}

	reg.Sweep()

	if _, ok := reg.Lookup(host.Code); ok {
		t.Fatalf("empty room past the grace window must be reaped")
	}
	if reg.Count() != 0 {
		t.Fatalf("registry count = %d, want 0", reg.Count())
	}
}
