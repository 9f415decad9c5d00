package game

import (
	"math"

	"arena/internal/net"
)

// resolveFiring realizes fire intent: spawn a bullet in the facing direction,
// spend a round unless ammo is the unlimited sentinel.
func (r *Room) resolveFiring() {
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil || !p.Connected || !p.Alive || !p.Firing {
			continue
		}
		if p.FireCD > 0 || p.Ammo == 0 {
			continue
		}
		w := WeaponFor(p.Weapon)
		r.bullets = append(r.bullets, &Bullet{
			X:      p.X + math.Cos(p.Angle)*PlayerRadius,
			Y:      p.Y + math.Sin(p.Angle)*PlayerRadius,
			VX:     math.Cos(p.Angle) * w.Speed,
			VY:     math.Sin(p.Angle) * w.Speed,
			Damage: w.Damage,
			Color:  p.Color,
		})
		if p.Ammo > 0 {
			p.Ammo--
		}
		p.FireCD = w.Cooldown
	}
}

// resolveBulletHits applies each surviving bullet to at most one target:
// first zombie within the combined half-radii, else the closest boss hit
// point. A bullet that hits is consumed; no pass-through.
func (r *Room) resolveBulletHits() {
	kept := r.bullets[:0]
	for _, b := range r.bullets {
		if r.bulletHitsZombie(b) || r.bulletHitsBoss(b) {
			continue
		}
		kept = append(kept, b)
	}
	r.bullets = kept
}

func (r *Room) bulletHitsZombie(b *Bullet) bool {
	for _, z := range r.zombies {
		if dist(b.X, b.Y, z.X, z.Y) < z.Size/2+BulletRadius/2 {
			r.damageZombie(z, b.Damage, 0)
			return true
		}
	}
	return false
}

func (r *Room) bulletHitsBoss(b *Bullet) bool {
	if r.boss == nil || r.boss.Dead || r.boss.Dropping {
		return false
	}
	for _, hp := range r.boss.HitPoints() {
		if dist(b.X, b.Y, hp.X, hp.Y) < hp.Radius+BulletRadius/2 {
			r.damageBossPart(hp.PartID, b.Damage)
			return true
		}
	}
	return false
}

// resolveMelee strikes every zombie and boss hit point inside the melee arc.
// Melee is only available with an empty magazine.
func (r *Room) resolveMelee() {
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil || !p.Connected || !p.Alive || !p.Meleeing {
			continue
		}
		if p.Ammo != 0 || p.MeleeCD > 0 {
			continue
		}
		p.MeleeCD = MeleeCooldown

		// Collect first: damageZombie mutates r.zombies.
		var struck []*Zombie
		for _, z := range r.zombies {
			if dist(p.X, p.Y, z.X, z.Y) > MeleeRange+z.Size/2 {
				continue
			}
			d := wrapAngle(math.Atan2(z.Y-p.Y, z.X-p.X) - p.Angle)
			if math.Abs(d) <= MeleeArc/2 {
				struck = append(struck, z)
			}
		}
		for _, z := range struck {
			r.damageZombie(z, MeleeDamage, 0)
		}

		if r.boss != nil && !r.boss.Dead && !r.boss.Dropping {
			for _, hp := range r.boss.HitPoints() {
				if dist(p.X, p.Y, hp.X, hp.Y) > MeleeRange+hp.Radius {
					continue
				}
				d := wrapAngle(math.Atan2(hp.Y-p.Y, hp.X-p.X) - p.Angle)
				if math.Abs(d) <= MeleeArc/2 {
					r.damageBossPart(hp.PartID, MeleeDamage)
				}
			}
		}
	}
}

// damageZombie applies damage and, on death, runs the full kill path: points
// to the nearest living player, drop rolls, explosion chain for bombers, kill
// counter and the guarded wave-advance check. depth bounds bomber recursion.
func (r *Room) damageZombie(z *Zombie, dmg, depth int) {
	if z.HP <= 0 {
		return
	}
	z.HP -= dmg
	if z.HP > 0 {
		return
	}
	r.removeZombie(z)

	if p := r.nearestLivingPlayer(z.X, z.Y); p != nil {
		p.Points += z.Points
	}
	r.rollDrops(z.X, z.Y)
	r.explosions = append(r.explosions, net.ExplosionEvent{X: z.X, Y: z.Y, Radius: z.Size})

	if z.Kind == ZombieBomber {
		r.detonate(z.X, z.Y, depth)
	}

	r.killed++
	r.checkWaveClear()
}

func (r *Room) removeZombie(z *Zombie) {
	for i, other := range r.zombies {
		if other == z {
			r.zombies = append(r.zombies[:i], r.zombies[i+1:]...)
			return
		}
	}
}

// detonate deals blast damage around a dead bomber. Bombers caught in the
// blast detonate in turn, bounded by the configured chain depth.
func (r *Room) detonate(x, y float64, depth int) {
	r.explosions = append(r.explosions, net.ExplosionEvent{X: x, Y: y, Radius: BomberBlastRadius})

	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil || !p.Connected || !p.Alive {
			continue
		}
		if dist(x, y, p.X, p.Y) < BomberBlastRadius {
			r.damagePlayer(p, BomberBlastDamage)
		}
	}

	if depth >= r.cfg.MaxChainDepth {
		return
	}
	var caught []*Zombie
	for _, z := range r.zombies {
		if dist(x, y, z.X, z.Y) < BomberBlastRadius {
			caught = append(caught, z)
		}
	}
	for _, z := range caught {
		r.damageZombie(z, BomberBlastDamage, depth+1)
	}
}

// rollDrops runs the two independent drop rolls for a zombie death.
func (r *Room) rollDrops(x, y float64) {
	if r.rng.Float64() < r.cfg.AmmoDropChance {
		r.pickups = append(r.pickups, &Pickup{Kind: PickupAmmo, X: x, Y: y})
	}
	if r.rng.Float64() < r.cfg.HealthDropChance {
		r.pickups = append(r.pickups, &Pickup{Kind: PickupHealth, X: x + 10, Y: y})
	}
}

// damagePlayer clamps hp at zero and runs the death transition exactly once.
func (r *Room) damagePlayer(p *Player, dmg int) {
	if !p.Alive {
		return
	}
	p.HP -= dmg
	if p.HP > 0 {
		return
	}
	p.HP = 0
	p.Alive = false
	delete(r.revives, p.Slot)
	r.checkGameOver()
}

// resolveContactDamage covers zombie bites and boss body contact.
func (r *Room) resolveContactDamage() {
	for _, z := range r.zombies {
		if z.AttackCD > 0 {
			continue
		}
		for slot := 1; slot <= MaxPlayers; slot++ {
			p := r.players[slot]
			if p == nil || !p.Connected || !p.Alive {
				continue
			}
			if dist(z.X, z.Y, p.X, p.Y) < z.Size/2+PlayerRadius {
				r.damagePlayer(p, ZombieBiteDamage)
				z.AttackCD = ZombieBiteEvery
				break
			}
		}
	}

	if r.boss != nil && !r.boss.Dead && !r.boss.Dropping {
		r.resolveBossContact()
	}
}
