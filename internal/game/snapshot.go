package game

import "arena/internal/net"

// Snapshot takes a read-only projection of the current state.
func (r *Room) Snapshot() *net.SnapshotMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) snapshotLocked() *net.SnapshotMessage {
	snap := &net.SnapshotMessage{
		Type:      "snapshot",
		Tick:      r.tick,
		Wave:      r.wave,
		GameOver:  r.gameOver,
		Players:   make([]net.PlayerState, 0, MaxPlayers),
		Zombies:   make([]net.ZombieState, 0, len(r.zombies)),
		Bullets:   make([]net.BulletState, 0, len(r.bullets)),
		Pickups:   make([]net.PickupState, 0, len(r.pickups)),
		Revives:   make([]net.ReviveState, 0, len(r.revives)),
		BoxX:      r.box.X,
		BoxY:      r.box.Y,
		VendingX:  r.vending.X,
		VendingY:  r.vending.Y,
		VendingOn: r.vending.enabled,
	}

	for slot := 1; slot <= MaxPlayers; slot++ {
		p := r.players[slot]
		if p == nil {
			continue
		}
		snap.Players = append(snap.Players, net.PlayerState{
			Slot:          p.Slot,
			X:             p.X,
			Y:             p.Y,
			Angle:         p.Angle,
			Color:         p.Color,
			HP:            p.HP,
			MaxHP:         p.MaxHP,
			Ammo:          p.Ammo,
			Points:        p.Points,
			Weapon:        p.Weapon,
			Alive:         p.Alive,
			Connected:     p.Connected,
			CanUseBox:     p.Alive && !r.box.busy && p.Points >= r.cfg.BoxCost && dist(p.X, p.Y, r.box.X, r.box.Y) <= r.cfg.BoxRange,
			CanUseVending: p.Alive && r.vending.enabled && p.HP < p.MaxHP && p.Points >= r.vending.Cost && dist(p.X, p.Y, r.vending.X, r.vending.Y) <= r.cfg.VendingRange,
			VendingCost:   r.vending.Cost,
		})
	}

	for _, z := range r.zombies {
		snap.Zombies = append(snap.Zombies, net.ZombieState{
			X: z.X, Y: z.Y, Kind: string(z.Kind),
			HP: z.HP, MaxHP: z.MaxHP, Size: z.Size,
		})
	}
	for _, b := range r.bullets {
		snap.Bullets = append(snap.Bullets, net.BulletState{X: b.X, Y: b.Y, Color: b.Color})
	}
	for _, pk := range r.pickups {
		snap.Pickups = append(snap.Pickups, net.PickupState{X: pk.X, Y: pk.Y, Kind: string(pk.Kind)})
	}

	if b := r.boss; b != nil {
		bs := &net.BossState{
			Kind:     string(b.Kind),
			X:        b.X,
			Y:        b.Y,
			Rotation: b.Rotation,
			Flash:    b.FlashTicks > 0,
			Dropping: b.Dropping,
			Dead:     b.Dead,
			Parts:    make([]net.BossPartState, 0, len(b.parts)),
			Shots:    make([]net.BossShotState, 0, len(b.Shots)),
		}
		for _, hp := range b.HitPoints() {
			part := b.Part(hp.PartID)
			bs.Parts = append(bs.Parts, net.BossPartState{
				ID: hp.PartID, X: hp.X, Y: hp.Y,
				HP: part.HP, MaxHP: part.MaxHP, Size: hp.Radius,
			})
		}
		for _, s := range b.Shots {
			bs.Shots = append(bs.Shots, net.BossShotState{X: s.X, Y: s.Y})
		}
		snap.Boss = bs
	}

	reviveTicks := uint64(r.cfg.Ticks(r.cfg.ReviveTime))
	for slot, at := range r.revives {
		progress := float64(r.tick-at.StartTick) / float64(reviveTicks)
		if progress > 1 {
			progress = 1
		}
		snap.Revives = append(snap.Revives, net.ReviveState{
			Reviver: slot, Target: at.Target, Progress: progress,
		})
	}

	if len(r.explosions) > 0 {
		snap.Explosions = append([]net.ExplosionEvent(nil), r.explosions...)
	}
	return snap
}
