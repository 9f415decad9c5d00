package game

import (
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"arena/internal/net"
)

// deferredAction is a one-shot callback realized at a future tick. The whole
// list is cleared on restart and teardown so a previous match can never leak
// spawns into the next one.
type deferredAction struct {
	due uint64
	fn  func()
}

type reviveAttempt struct {
	Target    int
	StartTick uint64
}

type waveState int

const (
	waveIdle waveState = iota
	waveSpawning
	waveClearing
	bossIncoming
	bossActive
	bossCooldown
)

// Room owns the full simulation state for one match. All mutation happens
// under mu: the tick loop and the session-layer entry points serialize on it,
// so no two ticks overlap and intent writes land between ticks.
type Room struct {
	mu   sync.Mutex
	Code string
	cfg  Tuning
	rng  *rand.Rand
	emit func(v interface{})

	tick    uint64
	players [MaxPlayers + 1]*Player // 1-based slots
	zombies []*Zombie
	bullets []*Bullet
	pickups []*Pickup
	boss    *Boss

	wave          int
	state         waveState
	quota         int
	spawned       int
	killed        int
	waveAdvancing bool

	box     mysteryBox
	vending vendingMachine
	revives map[int]*reviveAttempt
	votes   map[int]bool

	deferred   []deferredAction
	explosions []net.ExplosionEvent

	started  bool
	gameOver bool

	quit     chan struct{}
	stopOnce sync.Once
}

func NewRoom(code string, cfg Tuning, seed int64) *Room {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := &Room{
		Code:    code,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		revives: make(map[int]*reviveAttempt),
		votes:   make(map[int]bool),
		quit:    make(chan struct{}),
	}
	r.box.relocate(r)
	r.vending.reset(r)
	return r
}

// SetEmit installs the broadcast callback for one-shot events and snapshots.
func (r *Room) SetEmit(fn func(v interface{})) {
	r.mu.Lock()
	r.emit = fn
	r.mu.Unlock()
}

func (r *Room) send(v interface{}) {
	if r.emit != nil {
		r.emit(v)
	}
}

// Run drives the fixed-rate tick loop until Stop. Broadcast runs at a divisor
// of the logic rate; the snapshot is a read-only projection taken after the
// tick completes, so a slower broadcast never affects simulation correctness.
func (r *Room) Run() {
	ticker := time.NewTicker(r.cfg.TickDuration())
	defer ticker.Stop()

	every := r.cfg.BroadcastEvery
	if every < 1 {
		every = 1
	}

	for {
		select {
		case <-r.quit:
			return
		case <-ticker.C:
			r.mu.Lock()
			r.step()
			var snap *net.SnapshotMessage
			if r.tick%uint64(every) == 0 {
				snap = r.snapshotLocked()
			}
			emit := r.emit
			r.mu.Unlock()
			if snap != nil && emit != nil {
				emit(snap)
			}
		}
	}
}

// Stop tears the room down: the ticker goroutine exits and every pending
// deferred action is dropped.
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		close(r.quit)
		r.mu.Lock()
		r.deferred = r.deferred[:0]
		r.mu.Unlock()
	})
}

// Tick advances the simulation by one step. The tests drive rooms with this
// instead of running the wall-clock loop.
func (r *Room) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.step()
}

func (r *Room) step() {
	r.tick++
	r.explosions = r.explosions[:0]

	r.runDeferred()

	if r.gameOver {
		return
	}

	r.movePlayers()
	r.moveZombies()
	r.moveBullets()
	r.updateBoss()

	r.resolveFiring()
	r.resolveBulletHits()
	r.resolveMelee()
	r.resolveBossShots()
	r.resolveContactDamage()

	r.resolvePickups()
	r.resolveRevives()
}

// after schedules fn for d from now. Must be called with mu held.
func (r *Room) after(d time.Duration, fn func()) {
	r.deferred = append(r.deferred, deferredAction{
		due: r.tick + uint64(r.cfg.Ticks(d)),
		fn:  fn,
	})
}

func (r *Room) runDeferred() {
	// fn may schedule more actions; those must land on a fresh slice, never
	// the backing array still being read, or appends clobber unread entries.
	pending := r.deferred
	r.deferred = nil
	for _, a := range pending {
		if a.due <= r.tick {
			a.fn()
		} else {
			r.deferred = append(r.deferred, a)
		}
	}
}

func (r *Room) cancelDeferred() {
	r.deferred = r.deferred[:0]
}

// Connect assigns a free slot to a new participant. Returns 0, false when the
// room is full.
func (r *Room) Connect(name string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for slot := 1; slot <= MaxPlayers; slot++ {
		if r.players[slot] == nil {
			r.players[slot] = r.newPlayer(slot)
			log.Printf("room %s: slot %d joined (%s)", r.Code, slot, name)
			if !r.started {
				r.started = true
				r.after(r.cfg.WaveBreak, func() { r.startWave(1) })
			}
			return slot, true
		}
	}
	return 0, false
}

// Reconnect restores participation for a slot that disconnected within the
// grace window. Accumulated points, weapon and position survive untouched.
func (r *Room) Reconnect(slot int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.playerAt(slot)
	if p == nil {
		return false
	}
	p.Connected = true
	log.Printf("room %s: slot %d reconnected", r.Code, slot)
	return true
}

// Disconnect marks the slot absent. The player record stays: reconnecting
// within the grace window resumes with state intact.
func (r *Room) Disconnect(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.playerAt(slot)
	if p == nil {
		return
	}
	p.Connected = false
	p.MoveAngle = nil
	p.Firing = false
	p.Meleeing = false
	delete(r.votes, slot)
	delete(r.revives, slot)
	r.checkGameOver()
}

// FreeSlot releases a slot whose grace window expired. A later join to this
// slot starts fresh.
func (r *Room) FreeSlot(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.playerAt(slot)
	if p == nil || p.Connected {
		return
	}
	r.players[slot] = nil
	delete(r.votes, slot)
	delete(r.revives, slot)
	log.Printf("room %s: slot %d freed after grace period", r.Code, slot)
}

// Empty reports whether no slot is occupied by a connected player.
func (r *Room) Empty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for slot := 1; slot <= MaxPlayers; slot++ {
		if p := r.players[slot]; p != nil && p.Connected {
			return false
		}
	}
	return true
}

func (r *Room) newPlayer(slot int) *Player {
	w := WeaponFor(StartingWeapon)
	return &Player{
		Slot:      slot,
		X:         r.cfg.ArenaW/2 + float64(slot-1)*40 - 60,
		Y:         r.cfg.ArenaH / 2,
		Color:     slotColors[slot-1],
		HP:        PlayerMaxHP,
		MaxHP:     PlayerMaxHP,
		Ammo:      w.Capacity,
		Weapon:    w.Name,
		Alive:     true,
		Connected: true,
	}
}

func (r *Room) playerAt(slot int) *Player {
	if slot < 1 || slot > MaxPlayers {
		return nil
	}
	return r.players[slot]
}

// SetInput records a slot's intent for the next tick. Unknown or dead slots
// are a silent no-op, as is a non-finite angle: NaN or ±Inf from the wire
// would poison positions and the angle math downstream.
func (r *Room) SetInput(slot int, angle *float64, fire, melee bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.playerAt(slot)
	if p == nil || !p.Connected {
		return
	}
	if angle != nil && (math.IsNaN(*angle) || math.IsInf(*angle, 0)) {
		angle = nil
	}
	p.MoveAngle = angle
	p.Firing = fire
	p.Meleeing = melee
}

// VoteRestart registers a restart vote. The match resets once every connected
// player has voted.
func (r *Room) VoteRestart(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.playerAt(slot)
	if p == nil || !p.Connected {
		return
	}
	r.votes[slot] = true
	for s := 1; s <= MaxPlayers; s++ {
		if q := r.players[s]; q != nil && q.Connected && !r.votes[s] {
			return
		}
	}
	r.resetMatch()
}

// resetMatch wipes the simulation back to a fresh wave 1. Every pending
// deferred action from the old match is cancelled first.
func (r *Room) resetMatch() {
	r.cancelDeferred()

	r.zombies = nil
	r.bullets = nil
	r.pickups = nil
	r.boss = nil
	r.wave = 0
	r.state = waveIdle
	r.quota, r.spawned, r.killed = 0, 0, 0
	r.waveAdvancing = false
	r.gameOver = false
	r.revives = make(map[int]*reviveAttempt)
	r.votes = make(map[int]bool)
	r.vending.reset(r)
	r.box.relocate(r)

	for slot := 1; slot <= MaxPlayers; slot++ {
		old := r.players[slot]
		if old == nil {
			continue
		}
		p := r.newPlayer(slot)
		p.Connected = old.Connected
		r.players[slot] = p
	}

	log.Printf("room %s: match restarted", r.Code)
	r.after(r.cfg.WaveBreak, func() { r.startWave(1) })
}

func (r *Room) movePlayers() {
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil {
			continue
		}
		if p.FireCD > 0 {
			p.FireCD--
		}
		if p.MeleeCD > 0 {
			p.MeleeCD--
		}
		if p.HitCD > 0 {
			p.HitCD--
		}
		if !p.Connected || !p.Alive {
			continue
		}
		if p.MoveAngle != nil {
			p.Angle = *p.MoveAngle
			p.X += math.Cos(p.Angle) * PlayerSpeed
			p.Y += math.Sin(p.Angle) * PlayerSpeed
		}
		p.X, p.Y = r.clampToArena(p.X, p.Y, PlayerRadius)
	}
}

func (r *Room) moveZombies() {
	for _, z := range r.zombies {
		if z.AttackCD > 0 {
			z.AttackCD--
		}
		target := r.nearestLivingPlayer(z.X, z.Y)
		if target == nil {
			continue
		}
		a := math.Atan2(target.Y-z.Y, target.X-z.X)
		z.X += math.Cos(a) * z.Speed
		z.Y += math.Sin(a) * z.Speed
		z.X, z.Y = r.clampToArena(z.X, z.Y, z.Size/2)
	}
}

func (r *Room) moveBullets() {
	kept := r.bullets[:0]
	for _, b := range r.bullets {
		b.X += b.VX
		b.Y += b.VY
		if r.inBounds(b.X, b.Y) {
			kept = append(kept, b)
		}
	}
	r.bullets = kept
}

// nearestLivingPlayer finds the closest alive, connected player to a point.
func (r *Room) nearestLivingPlayer(x, y float64) *Player {
	var best *Player
	bestD := math.MaxFloat64
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil || !p.Connected || !p.Alive {
			continue
		}
		if d := dist(x, y, p.X, p.Y); d < bestD {
			bestD = d
			best = p
		}
	}
	return best
}

func (r *Room) livingPlayers() []*Player {
	var out []*Player
	for slot := 1; slot <= MaxPlayers; slot++ {
		if p := r.players[slot]; p != nil && p.Connected && p.Alive {
			out = append(out, p)
		}
	}
	return out
}

// checkGameOver ends the match once no connected player is alive. Reported a
// single time; re-entering a damage path after that is a no-op.
func (r *Room) checkGameOver() {
	if r.gameOver || !r.started {
		return
	}
	for slot := 1; slot <= MaxPlayers; slot++ {
		if p := r.players[slot]; p != nil && p.Connected && p.Alive {
			return
		}
	}
	anyConnected := false
	for slot := 1; slot <= MaxPlayers; slot++ {
		if p := r.players[slot]; p != nil && p.Connected {
			anyConnected = true
			break
		}
	}
	if !anyConnected {
		// Everyone left; the registry will reap the room, not end the match.
		return
	}
	r.gameOver = true
	r.cancelDeferred()
	log.Printf("room %s: game over at wave %d", r.Code, r.wave)
	r.send(&net.GameOverMessage{Type: "gameOver", Wave: r.wave})
}
