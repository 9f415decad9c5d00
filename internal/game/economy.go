package game

type mysteryBox struct {
	X, Y float64
	busy bool // waiting to relocate after a purchase
}

func (b *mysteryBox) relocate(r *Room) {
	m := r.cfg.WallMargin + 40
	b.X = m + r.rng.Float64()*(r.cfg.ArenaW-2*m)
	b.Y = m + r.rng.Float64()*(r.cfg.ArenaH-2*m)
}

type vendingMachine struct {
	X, Y    float64
	Cost    int
	enabled bool
}

func (v *vendingMachine) reset(r *Room) {
	v.Cost = r.cfg.VendingBaseCost
	v.enabled = true
	v.relocate(r)
}

// relocate places the machine away from the mystery box.
func (v *vendingMachine) relocate(r *Room) {
	m := r.cfg.WallMargin + 40
	for i := 0; i < 20; i++ {
		v.X = m + r.rng.Float64()*(r.cfg.ArenaW-2*m)
		v.Y = m + r.rng.Float64()*(r.cfg.ArenaH-2*m)
		if dist(v.X, v.Y, r.box.X, r.box.Y) > 100 {
			return
		}
	}
}

// BuyBox handles a mystery box purchase request. Out of range, unaffordable,
// or mid-relocation requests are silent no-ops.
func (r *Room) BuyBox(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerAt(slot)
	if p == nil || !p.Connected || !p.Alive || r.gameOver {
		return
	}
	if r.box.busy || dist(p.X, p.Y, r.box.X, r.box.Y) > r.cfg.BoxRange {
		return
	}
	if p.Points < r.cfg.BoxCost {
		return
	}

	p.Points -= r.cfg.BoxCost
	p.Weapon = rollWeapon(r.rng)
	r.refillAmmo(p, WeaponFor(p.Weapon).Capacity)

	r.box.busy = true
	r.after(r.cfg.BoxRelocate, func() {
		r.box.relocate(r)
		r.box.busy = false
	})
}

// UseVending heals for points. Price climbs per use and persists across waves;
// the machine is offline during boss waves.
func (r *Room) UseVending(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.playerAt(slot)
	if p == nil || !p.Connected || !p.Alive || r.gameOver {
		return
	}
	v := &r.vending
	if !v.enabled || dist(p.X, p.Y, v.X, v.Y) > r.cfg.VendingRange {
		return
	}
	if p.HP >= p.MaxHP || p.Points < v.Cost {
		return
	}

	p.Points -= v.Cost
	p.HP += r.cfg.VendingHeal
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	v.Cost += r.cfg.VendingCostStep
}

// refillAmmo writes through the boss-wave sentinel: with unlimited ammo the
// refill lands on the saved value restored after the boss.
func (r *Room) refillAmmo(p *Player, amount int) {
	if p.Ammo == AmmoUnlimited {
		if p.SavedAmmo != nil {
			*p.SavedAmmo = amount
		}
		return
	}
	p.Ammo = amount
}

// resolvePickups consumes drops touched by the first living player found.
func (r *Room) resolvePickups() {
	kept := r.pickups[:0]
	for _, pk := range r.pickups {
		taker := r.touchingPlayer(pk.X, pk.Y)
		if taker == nil {
			kept = append(kept, pk)
			continue
		}
		switch pk.Kind {
		case PickupAmmo:
			// Restores half the current weapon's capacity, not a flat amount.
			capacity := WeaponFor(taker.Weapon).Capacity
			if taker.Ammo == AmmoUnlimited {
				if taker.SavedAmmo != nil {
					*taker.SavedAmmo += capacity / 2
					if *taker.SavedAmmo > capacity {
						*taker.SavedAmmo = capacity
					}
				}
			} else {
				taker.Ammo += capacity / 2
				if taker.Ammo > capacity {
					taker.Ammo = capacity
				}
			}
		case PickupHealth:
			taker.HP += HealthPackHeal
			if taker.HP > taker.MaxHP {
				taker.HP = taker.MaxHP
			}
		}
	}
	r.pickups = kept
}

func (r *Room) touchingPlayer(x, y float64) *Player {
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil || !p.Connected || !p.Alive {
			continue
		}
		if dist(x, y, p.X, p.Y) < r.cfg.PickupRadius {
			return p
		}
	}
	return nil
}

// resolveRevives tracks one reviver→target pairing per living player.
// Sustained proximity for the full duration revives the target at partial
// health; breaking proximity or switching targets resets the timer.
func (r *Room) resolveRevives() {
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil || !p.Connected || !p.Alive {
			delete(r.revives, slot)
			continue
		}

		target := r.nearestDowned(p)
		if target == nil {
			delete(r.revives, slot)
			continue
		}

		at, ok := r.revives[slot]
		if !ok || at.Target != target.Slot {
			r.revives[slot] = &reviveAttempt{Target: target.Slot, StartTick: r.tick}
			continue
		}

		if r.tick-at.StartTick >= uint64(r.cfg.Ticks(r.cfg.ReviveTime)) {
			target.Alive = true
			target.HP = int(float64(target.MaxHP) * r.cfg.ReviveHPFrac)
			delete(r.revives, slot)
		}
	}
}

func (r *Room) nearestDowned(reviver *Player) *Player {
	var best *Player
	bestD := r.cfg.ReviveRadius
	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil || !p.Connected || p.Alive || p == reviver {
			continue
		}
		if d := dist(reviver.X, reviver.Y, p.X, p.Y); d <= bestD {
			bestD = d
			best = p
		}
	}
	return best
}
