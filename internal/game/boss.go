package game

import "math"

type BossKind string

const (
	BossTriangle BossKind = "triangle"
	BossOctagon  BossKind = "octagon"
	BossPentagon BossKind = "pentagon"
	BossDiamond  BossKind = "diamond"
	BossSpiral   BossKind = "spiral"
	BossFractal  BossKind = "fractal"
)

// bossCycle is the deterministic round-robin: wave 5 gets the first entry,
// wave 10 the second, and so on.
var bossCycle = []BossKind{BossTriangle, BossOctagon, BossPentagon, BossDiamond, BossSpiral, BossFractal}

func bossKindFor(wave int) BossKind {
	return bossCycle[(wave/5-1)%len(bossCycle)]
}

const (
	bossDropSpeed     = 4.0
	bossRestY         = 150.0
	bossBaseSpeed     = 1.8
	bossShotSpeed     = 5.0
	bossShotDamage    = 15
	bossShotRadius    = 6.0
	bossContactDamage = 20
	bossContactEvery  = 20 // player hit cooldown ticks

	partHitRadiusCap = 30.0
	fractalSplitMin  = 15.0
)

// BossPart is one damageable sub-entity. IDs are assigned monotonically and
// never reused; dead parts stay in the slice so an ID always resolves to the
// same part regardless of what died before it.
type BossPart struct {
	ID        int
	HP, MaxHP int

	// Attached pose: polar offset from the body, rotated with it.
	Angle float64
	Dist  float64
	Size  float64

	// Free parts (diamond shards, fractal pieces) move on their own.
	Free   bool
	X, Y   float64
	VX, VY float64
}

type BossShot struct {
	X, Y   float64
	VX, VY float64
}

type Boss struct {
	Kind     BossKind
	X, Y     float64
	VX, VY   float64
	Rotation float64
	Pad      float64 // bounding radius for wall bounce

	FlashTicks int
	Dropping   bool
	Dead       bool

	parts      []*BossPart
	nextPartID int
	Shots      []*BossShot
	volleyCD   int
}

// HitPoint is one damageable world position for the current tick. PartID is
// the owning part's stable identifier, never a position in a filtered view.
type HitPoint struct {
	PartID int
	X, Y   float64
	Radius float64
}

func (b *Boss) addPart(p *BossPart) *BossPart {
	b.nextPartID++
	p.ID = b.nextPartID
	b.parts = append(b.parts, p)
	return p
}

// Part resolves a stable ID to its part, dead or alive.
func (b *Boss) Part(id int) *BossPart {
	for _, p := range b.parts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Parts returns the underlying collection, including dead entries.
func (b *Boss) Parts() []*BossPart {
	return b.parts
}

func (b *Boss) partsAlive() int {
	n := 0
	for _, p := range b.parts {
		if p.HP > 0 {
			n++
		}
	}
	return n
}

// HitPoints derives this tick's damageable positions from the live parts.
func (b *Boss) HitPoints() []HitPoint {
	out := make([]HitPoint, 0, len(b.parts))
	for _, p := range b.parts {
		if p.HP <= 0 {
			continue
		}
		hp := HitPoint{PartID: p.ID, Radius: math.Min(p.Size, partHitRadiusCap)}
		if p.Free {
			hp.X, hp.Y = p.X, p.Y
		} else {
			a := b.Rotation + p.Angle
			hp.X = b.X + math.Cos(a)*p.Dist
			hp.Y = b.Y + math.Sin(a)*p.Dist
		}
		out = append(out, hp)
	}
	return out
}

type bossBehavior struct {
	pad    float64
	spin   float64
	layout func(r *Room, b *Boss)
	update func(r *Room, b *Boss)
	// onPartDeath handles shape-specific fan-out (diamond shards, fractal
	// splits). Nil for shapes with a fixed topology.
	onPartDeath func(r *Room, b *Boss, p *BossPart)
}

var bossBehaviors = map[BossKind]bossBehavior{
	BossTriangle: {
		pad:  70,
		spin: 0.02,
		layout: func(r *Room, b *Boss) {
			for i := 0; i < 3; i++ {
				b.addPart(&BossPart{HP: 150, MaxHP: 150, Angle: float64(i) * 2 * math.Pi / 3, Dist: 60, Size: 18})
			}
		},
		update: volleyUpdate(90),
	},
	BossOctagon: {
		pad:  85,
		spin: 0.015,
		layout: func(r *Room, b *Boss) {
			for i := 0; i < 8; i++ {
				b.addPart(&BossPart{HP: 80, MaxHP: 80, Angle: float64(i) * math.Pi / 4, Dist: 70, Size: 14})
			}
		},
		update: volleyUpdate(120),
	},
	BossPentagon: {
		pad:  65,
		spin: 0.05,
		layout: func(r *Room, b *Boss) {
			for i := 0; i < 5; i++ {
				b.addPart(&BossPart{HP: 120, MaxHP: 120, Angle: float64(i) * 2 * math.Pi / 5, Dist: 55, Size: 16})
			}
		},
	},
	BossDiamond: {
		pad:  45,
		spin: 0.03,
		layout: func(r *Room, b *Boss) {
			b.addPart(&BossPart{HP: 400, MaxHP: 400, Dist: 0, Size: 22})
		},
		onPartDeath: func(r *Room, b *Boss, p *BossPart) {
			// Core depletion fans out into independently-moving shards.
			if p.Free {
				return
			}
			for i := 0; i < 4; i++ {
				a := float64(i)*math.Pi/2 + r.rng.Float64()*0.5
				b.addPart(&BossPart{
					HP: 100, MaxHP: 100, Size: 12, Free: true,
					X: b.X, Y: b.Y,
					VX: math.Cos(a) * 2.5, VY: math.Sin(a) * 2.5,
				})
			}
		},
	},
	BossSpiral: {
		pad:  95,
		spin: 0.04,
		layout: func(r *Room, b *Boss) {
			for i := 0; i < 6; i++ {
				b.addPart(&BossPart{HP: 90, MaxHP: 90, Angle: float64(i) * 0.9, Dist: float64(i+1) * 14, Size: 14})
			}
		},
		update: func(r *Room, b *Boss) {
			// Continuous rotating stream instead of discrete volleys.
			if b.volleyCD > 0 {
				b.volleyCD--
				return
			}
			b.volleyCD = 6
			a := b.Rotation * 3
			b.Shots = append(b.Shots, &BossShot{
				X: b.X, Y: b.Y,
				VX: math.Cos(a) * bossShotSpeed, VY: math.Sin(a) * bossShotSpeed,
			})
		},
	},
	BossFractal: {
		pad:  50,
		spin: 0.02,
		layout: func(r *Room, b *Boss) {
			for i := 0; i < 3; i++ {
				a := float64(i) * 2 * math.Pi / 3
				b.addPart(&BossPart{
					HP: 200, MaxHP: 200, Size: 40, Free: true,
					X: b.X + math.Cos(a)*50, Y: b.Y + math.Sin(a)*50,
					VX: math.Cos(a) * 1.5, VY: math.Sin(a) * 1.5,
				})
			}
		},
		onPartDeath: func(r *Room, b *Boss, p *BossPart) {
			// Pieces above the threshold split into two smaller children;
			// shrinking size terminates the recursion naturally.
			if p.Size <= fractalSplitMin {
				return
			}
			for i := 0; i < 2; i++ {
				a := r.rng.Float64() * 2 * math.Pi
				b.addPart(&BossPart{
					HP: p.MaxHP / 2, MaxHP: p.MaxHP / 2, Size: p.Size * 0.6, Free: true,
					X: p.X, Y: p.Y,
					VX: math.Cos(a) * 2, VY: math.Sin(a) * 2,
				})
			}
		},
	},
}

// volleyUpdate fires a radial shot outward from every surviving attached part
// on a fixed cadence.
func volleyUpdate(every int) func(r *Room, b *Boss) {
	return func(r *Room, b *Boss) {
		if b.volleyCD > 0 {
			b.volleyCD--
			return
		}
		b.volleyCD = every
		for _, p := range b.parts {
			if p.HP <= 0 || p.Free {
				continue
			}
			a := b.Rotation + p.Angle
			b.Shots = append(b.Shots, &BossShot{
				X:  b.X + math.Cos(a)*p.Dist,
				Y:  b.Y + math.Sin(a)*p.Dist,
				VX: math.Cos(a) * bossShotSpeed,
				VY: math.Sin(a) * bossShotSpeed,
			})
		}
	}
}

func newBoss(r *Room, kind BossKind) *Boss {
	beh := bossBehaviors[kind]
	b := &Boss{
		Kind:     kind,
		X:        r.cfg.ArenaW / 2,
		Y:        -100,
		Pad:      beh.pad,
		Dropping: true,
	}
	beh.layout(r, b)
	return b
}

// updateBoss runs shared boss physics (entry drop, wall bounce, spin, free
// part motion) and then the shape-specific behavior.
func (r *Room) updateBoss() {
	b := r.boss
	if b == nil || b.Dead {
		return
	}
	if b.FlashTicks > 0 {
		b.FlashTicks--
	}

	if b.Dropping {
		b.Y += bossDropSpeed
		if b.Y >= bossRestY {
			b.Y = bossRestY
			b.Dropping = false
			a := r.rng.Float64() * 2 * math.Pi
			b.VX = math.Cos(a) * bossBaseSpeed
			b.VY = math.Sin(a) * bossBaseSpeed
		}
		return
	}

	b.X += b.VX
	b.Y += b.VY
	r.bounce(&b.X, &b.Y, &b.VX, &b.VY, b.Pad)

	// Spin accelerates as parts die.
	beh := bossBehaviors[b.Kind]
	deadFrac := 1 - float64(b.partsAlive())/float64(len(b.parts))
	b.Rotation += beh.spin * (1 + 2*deadFrac)

	for _, p := range b.parts {
		if p.HP <= 0 || !p.Free {
			continue
		}
		p.X += p.VX
		p.Y += p.VY
		r.bounce(&p.X, &p.Y, &p.VX, &p.VY, p.Size/2)
	}

	if beh.update != nil {
		beh.update(r, b)
	}
}

// bounce reflects a padded point off the arena walls.
func (r *Room) bounce(x, y, vx, vy *float64, pad float64) {
	min := r.cfg.WallMargin + pad
	maxX := r.cfg.ArenaW - r.cfg.WallMargin - pad
	maxY := r.cfg.ArenaH - r.cfg.WallMargin - pad
	if *x < min {
		*x = min
		*vx = -*vx
	} else if *x > maxX {
		*x = maxX
		*vx = -*vx
	}
	if *y < min {
		*y = min
		*vy = -*vy
	} else if *y > maxY {
		*y = maxY
		*vy = -*vy
	}
}

// damageBossPart applies damage by stable part ID. Dead parts absorb nothing;
// an ID that has left the damageable set is simply ignored.
func (r *Room) damageBossPart(id, dmg int) {
	b := r.boss
	if b == nil || b.Dead || b.Dropping {
		return
	}
	p := b.Part(id)
	if p == nil || p.HP <= 0 {
		return
	}
	p.HP -= dmg
	b.FlashTicks = 6
	if p.HP > 0 {
		return
	}
	p.HP = 0
	beh := bossBehaviors[b.Kind]
	if beh.onPartDeath != nil {
		beh.onPartDeath(r, b, p)
	}
	if b.partsAlive() == 0 {
		r.bossDefeated()
	}
}

// resolveBossShots advances boss projectiles and damages players they touch.
func (r *Room) resolveBossShots() {
	b := r.boss
	if b == nil {
		return
	}
	kept := b.Shots[:0]
	for _, s := range b.Shots {
		s.X += s.VX
		s.Y += s.VY
		if !r.inBounds(s.X, s.Y) {
			continue
		}
		hit := false
		for slot := 1; slot <= MaxPlayers; slot++ {
			p := r.players[slot]
			if p == nil || !p.Connected || !p.Alive {
				continue
			}
			if dist(s.X, s.Y, p.X, p.Y) < bossShotRadius+PlayerRadius {
				r.damagePlayer(p, bossShotDamage)
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, s)
		}
	}
	b.Shots = kept
}

// resolveBossContact damages players touching the boss body or a free part.
func (r *Room) resolveBossContact() {
	b := r.boss
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil || !p.Connected || !p.Alive || p.HitCD > 0 {
			continue
		}
		if dist(b.X, b.Y, p.X, p.Y) < b.Pad*0.7+PlayerRadius {
			r.damagePlayer(p, bossContactDamage)
			p.HitCD = bossContactEvery
			continue
		}
		for _, part := range b.parts {
			if part.HP <= 0 || !part.Free {
				continue
			}
			if dist(part.X, part.Y, p.X, p.Y) < part.Size/2+PlayerRadius {
				r.damagePlayer(p, bossContactDamage)
				p.HitCD = bossContactEvery
				break
			}
		}
	}
}
