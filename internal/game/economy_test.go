package game

import "testing"

func TestBoxPurchaseDebitsExactCost(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.X, p.Y = r.box.X, r.box.Y
	p.Points = r.cfg.BoxCost + 30

	r.BuyBox(1)

	if p.Points != 30 {
		t.Fatalf("points = %d, want 30", p.Points)
	}
	if p.Ammo != WeaponFor(p.Weapon).Capacity {
		t.Fatalf("ammo = %d, want full capacity %d", p.Ammo, WeaponFor(p.Weapon).Capacity)
	}
}

func TestBoxPurchaseInsufficientPointsIsNoOp(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.X, p.Y = r.box.X, r.box.Y
	p.Points = r.cfg.BoxCost - 1
	weapon := p.Weapon
	ammo := p.Ammo

	r.BuyBox(1)

	if p.Points != r.cfg.BoxCost-1 || p.Weapon != weapon || p.Ammo != ammo {
		t.Fatalf("unaffordable purchase must leave player unchanged")
	}
}

func TestBoxPurchaseOutOfRangeIsNoOp(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.X = r.box.X + r.cfg.BoxRange + 50
	p.Y = r.box.Y
	p.Points = 10000

	r.BuyBox(1)

	if p.Points != 10000 {
		t.Fatalf("out-of-range purchase must be a no-op")
	}
}

func TestBoxRelocatesAfterPurchase(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.X, p.Y = r.box.X, r.box.Y
	p.Points = r.cfg.BoxCost * 2
	oldX, oldY := r.box.X, r.box.Y

	r.BuyBox(1)
	if !r.box.busy {
		t.Fatalf("box should be busy until it relocates")
	}

	// Busy box refuses a second purchase.
	before := p.Points
	r.BuyBox(1)
	if p.Points != before {
		t.Fatalf("busy box must not sell")
	}

	for i := 0; i < r.cfg.Ticks(r.cfg.BoxRelocate)+1; i++ {
		r.Tick()
	}
	if r.box.busy {
		t.Fatalf("box should be free again")
	}
	if r.box.X == oldX && r.box.Y == oldY {
		t.Fatalf("box did not relocate")
	}
}

// A purchase whose relocate is queued behind a wave start must still free the
// box once the delay passes, even though the wave start schedules its own
// spawn actions when it fires.
func TestBoxRelocateSurvivesWaveStart(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.X, p.Y = r.box.X, r.box.Y
	p.Points = r.cfg.BoxCost

	r.after(r.cfg.TickDuration(), func() { r.startWave(1) })
	r.BuyBox(1)
	if !r.box.busy {
		t.Fatalf("purchase should have gone through")
	}

	for i := 0; i < r.cfg.Ticks(r.cfg.BoxRelocate)+2; i++ {
		r.Tick()
	}
	if r.box.busy {
		t.Fatalf("box stuck busy: relocate was dropped by the wave start")
	}
}

func TestVendingHealsAndPriceClimbs(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.X, p.Y = r.vending.X, r.vending.Y
	p.HP = 10
	p.Points = 1000
	base := r.cfg.VendingBaseCost

	r.UseVending(1)
	if p.HP != 10+r.cfg.VendingHeal {
		t.Fatalf("hp = %d, want %d", p.HP, 10+r.cfg.VendingHeal)
	}
	if p.Points != 1000-base {
		t.Fatalf("points = %d, want %d", p.Points, 1000-base)
	}
	if r.vending.Cost != base+r.cfg.VendingCostStep {
		t.Fatalf("cost = %d, want %d", r.vending.Cost, base+r.cfg.VendingCostStep)
	}

	r.UseVending(1)
	if r.vending.Cost != base+2*r.cfg.VendingCostStep {
		t.Fatalf("cost must climb per use")
	}
	if p.HP > p.MaxHP {
		t.Fatalf("heal overflowed max hp")
	}
}

func TestVendingAtFullHealthIsNoOp(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.X, p.Y = r.vending.X, r.vending.Y
	p.Points = 1000

	r.UseVending(1)
	if p.Points != 1000 {
		t.Fatalf("vending at full hp must not charge")
	}
}

func TestVendingDisabledDuringBossWave(t *testing.T) {
	r := testRoom(t, 1)
	r.startWave(5)
	p := r.players[1]
	p.X, p.Y = r.vending.X, r.vending.Y
	p.HP = 10
	p.Points = 1000

	r.UseVending(1)
	if p.Points != 1000 || p.HP != 10 {
		t.Fatalf("vending must be offline during boss waves")
	}
}

func TestAmmoPickupRestoresHalfCapacity(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.Ammo = 0
	r.pickups = append(r.pickups, &Pickup{Kind: PickupAmmo, X: p.X, Y: p.Y})

	r.resolvePickups()

	want := WeaponFor(p.Weapon).Capacity / 2
	if p.Ammo != want {
		t.Fatalf("ammo = %d, want %d", p.Ammo, want)
	}
	if len(r.pickups) != 0 {
		t.Fatalf("pickup not consumed")
	}
}

func TestHealthPickupCapsAtMax(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.HP = p.MaxHP - 5
	r.pickups = append(r.pickups, &Pickup{Kind: PickupHealth, X: p.X, Y: p.Y})

	r.resolvePickups()

	if p.HP != p.MaxHP {
		t.Fatalf("hp = %d, want %d", p.HP, p.MaxHP)
	}
}

func TestReviveAfterSustainedProximity(t *testing.T) {
	r := testRoom(t, 2)
	reviver := r.players[1]
	downed := r.players[2]
	downed.Alive = false
	downed.HP = 0
	downed.X, downed.Y = reviver.X+20, reviver.Y

	need := r.cfg.Ticks(r.cfg.ReviveTime)
	for i := 0; i < need+2; i++ {
		r.Tick()
	}

	if !downed.Alive {
		t.Fatalf("sustained proximity should revive the target")
	}
	want := int(float64(downed.MaxHP) * r.cfg.ReviveHPFrac)
	if downed.HP != want {
		t.Fatalf("revived hp = %d, want %d", downed.HP, want)
	}
}

func TestReviveInterruptedResetsTimer(t *testing.T) {
	r := testRoom(t, 2)
	reviver := r.players[1]
	downed := r.players[2]
	downed.Alive = false
	downed.HP = 0
	downed.X, downed.Y = reviver.X+20, reviver.Y

	need := r.cfg.Ticks(r.cfg.ReviveTime)
	for i := 0; i < need/2; i++ {
		r.Tick()
	}

	// Break proximity before the timer completes.
	homeX := reviver.X
	reviver.X = downed.X + r.cfg.ReviveRadius + 100
	r.Tick()
	if _, ok := r.revives[1]; ok {
		t.Fatalf("broken proximity must drop the attempt")
	}
	if downed.Alive {
		t.Fatalf("interrupted revive must leave the target downed")
	}

	// Coming back restarts from zero: half the duration is not enough.
	reviver.X = homeX
	for i := 0; i < need/2; i++ {
		r.Tick()
	}
	if downed.Alive {
		t.Fatalf("revive timer must reset on re-approach")
	}
	for i := 0; i < need; i++ {
		r.Tick()
	}
	if !downed.Alive {
		t.Fatalf("full sustained duration should revive")
	}
}
