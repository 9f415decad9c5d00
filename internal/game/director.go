package game

import (
	"log"
	"math"
	"time"

	"arena/internal/net"
)

// startWave begins wave n. Every 5th wave is a boss wave; the rest compute a
// quota and stagger spawns through the deferred-action queue.
func (r *Room) startWave(n int) {
	r.wave = n
	r.waveAdvancing = false
	r.killed = 0
	r.spawned = 0

	if n%5 == 0 {
		r.startBossWave(n)
		return
	}

	r.state = waveSpawning
	players := r.connectedCount()
	if players < 1 {
		players = 1
	}
	r.quota = (r.cfg.BaseQuota + (n-1)*r.cfg.QuotaPerWave) * players

	r.vending.enabled = true
	r.vending.relocate(r)

	log.Printf("room %s: wave %d, quota %d", r.Code, n, r.quota)
	r.send(&net.WaveChangedMessage{Type: "waveChanged", Wave: n})

	for i := 0; i < r.quota; i++ {
		d := r.cfg.SpawnStagger * time.Duration(i+1)
		r.after(d, r.spawnOne)
	}
}

func (r *Room) startBossWave(n int) {
	r.state = bossIncoming
	r.quota = 0
	r.vending.enabled = false

	// Capture ammo and hand out the unlimited sentinel for the duration.
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil {
			continue
		}
		if p.SavedAmmo == nil {
			saved := p.Ammo
			p.SavedAmmo = &saved
		}
		p.Ammo = AmmoUnlimited
	}

	kind := bossKindFor(n)
	log.Printf("room %s: wave %d, boss incoming (%s)", r.Code, n, kind)
	r.send(&net.WaveChangedMessage{Type: "waveChanged", Wave: n, Boss: true})

	r.after(r.cfg.BossEntry, func() {
		r.boss = newBoss(r, kind)
		r.state = bossActive
		r.send(&net.BossSpawnedMessage{Type: "bossSpawned", Kind: string(kind), Wave: n})
	})
}

func (r *Room) spawnOne() {
	if r.gameOver || r.wave%5 == 0 {
		return
	}
	x, y := r.edgeSpawnPoint()
	r.zombies = append(r.zombies, newZombie(r.pickZombieKind(), x, y))
	r.spawned++
	if r.spawned >= r.quota {
		r.state = waveClearing
	}
}

// edgeSpawnPoint picks a point just inside a random wall.
func (r *Room) edgeSpawnPoint() (float64, float64) {
	m := r.cfg.WallMargin
	switch r.rng.Intn(4) {
	case 0:
		return m + r.rng.Float64()*(r.cfg.ArenaW-2*m), m
	case 1:
		return m + r.rng.Float64()*(r.cfg.ArenaW-2*m), r.cfg.ArenaH - m
	case 2:
		return m, m + r.rng.Float64()*(r.cfg.ArenaH-2*m)
	default:
		return r.cfg.ArenaW - m, m + r.rng.Float64()*(r.cfg.ArenaH-2*m)
	}
}

// pickZombieKind mixes in tougher variants as waves climb.
func (r *Room) pickZombieKind() ZombieKind {
	roll := r.rng.Float64()
	switch {
	case r.wave >= 4 && roll < 0.15:
		return ZombieBomber
	case r.wave >= 3 && roll < 0.30:
		return ZombieTank
	case r.wave >= 2 && roll < 0.55:
		return ZombieRunner
	default:
		return ZombieRegular
	}
}

func (r *Room) connectedCount() int {
	n := 0
	for slot := 1; slot <= MaxPlayers; slot++ {
		if p := r.players[slot]; p != nil && p.Connected {
			n++
		}
	}
	return n
}

// checkWaveClear advances once the quota is killed and the field is empty.
// Called from every zombie death path.
func (r *Room) checkWaveClear() {
	if r.state != waveSpawning && r.state != waveClearing {
		return
	}
	if r.killed < r.quota || r.spawned < r.quota {
		return
	}
	if len(r.zombies) > 0 || r.boss != nil {
		return
	}
	r.advanceWave()
}

// advanceWave is the single wave-advance entry point. The flag makes it
// idempotent per clearing event: two same-tick triggers (bullet kill plus a
// chain explosion on the last zombie) advance the counter exactly once. The
// flag resets only when the next wave actually starts.
func (r *Room) advanceWave() {
	if r.waveAdvancing {
		return
	}
	r.waveAdvancing = true
	next := r.wave + 1
	r.after(r.cfg.WaveBreak, func() { r.startWave(next) })
}

// bossDefeated runs the uniform defeat path: point bonus and full heal for the
// living, scattered ammo, a big bang, then a delayed clear and wave advance.
func (r *Room) bossDefeated() {
	b := r.boss
	if b == nil || b.Dead {
		return
	}
	b.Dead = true
	r.state = bossCooldown

	for _, p := range r.livingPlayers() {
		p.Points += r.cfg.BossBonusPoints
		p.HP = p.MaxHP
	}
	for i := 0; i < 5; i++ {
		a := r.rng.Float64() * 2 * math.Pi
		d := 40 + r.rng.Float64()*60
		x, y := r.clampToArena(b.X+math.Cos(a)*d, b.Y+math.Sin(a)*d, 0)
		r.pickups = append(r.pickups, &Pickup{Kind: PickupAmmo, X: x, Y: y})
	}
	r.explosions = append(r.explosions, net.ExplosionEvent{X: b.X, Y: b.Y, Radius: 150})

	log.Printf("room %s: boss defeated on wave %d", r.Code, r.wave)

	r.after(r.cfg.BossClearWait, func() {
		r.boss = nil
		for slot := 1; slot <= MaxPlayers; slot++ {
			p := r.players[slot]
			if p == nil || p.SavedAmmo == nil {
				continue
			}
			p.Ammo = *p.SavedAmmo
			p.SavedAmmo = nil
		}
		r.advanceWave()
	})
}
