package server

import (
	"crypto/rand"
	"log"
	"math/big"
	"sync"
	"time"

	"arena/internal/game"
)

// Registry is the process-wide table of active rooms. Rooms are created
// explicitly, looked up by code, and reaped once empty past the grace window.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*RoomHost
	cfg   game.Tuning
}

func NewRegistry(cfg game.Tuning) *Registry {
	return &Registry{
		rooms: make(map[string]*RoomHost),
		cfg:   cfg,
	}
}

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func generateCode(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(codeChars)))
	for i := range b {
		idx, _ := rand.Int(rand.Reader, max)
		b[i] = codeChars[idx.Int64()]
	}
	return string(b)
}

// CreateRoom allocates a fresh code, starts the room's tick loop and returns
// the host.
func (reg *Registry) CreateRoom() *RoomHost {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for {
		code := generateCode(6)
		if _, exists := reg.rooms[code]; exists {
			continue
		}
		room := game.NewRoom(code, reg.cfg, 0)
		host := newRoomHost(code, room)
		reg.rooms[code] = host
		go room.Run()
		log.Printf("Created room %s", code)
		return host
	}
}

func (reg *Registry) Lookup(code string) (*RoomHost, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	h, ok := reg.rooms[code]
	return h, ok
}

// Count returns the number of active rooms.
func (reg *Registry) Count() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// Run is the registry janitor: expire lapsed sessions and reap rooms that
// have sat empty past the grace window. Reaping stops the room's tick loop,
// which drops every pending deferred action with it.
func (reg *Registry) Run() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		reg.Sweep()
	}
}

// Sweep runs one janitor pass. Split out so tests can drive it directly.
func (reg *Registry) Sweep() {
	reg.mu.Lock()
	hosts := make([]*RoomHost, 0, len(reg.rooms))
	for _, h := range reg.rooms {
		hosts = append(hosts, h)
	}
	reg.mu.Unlock()

	for _, h := range hosts {
		if h.expireSessions(reg.cfg.GracePeriod) {
			reg.mu.Lock()
			delete(reg.rooms, h.Code)
			reg.mu.Unlock()
			h.Room.Stop()
			log.Printf("Reaped empty room %s", h.Code)
		}
	}
}
