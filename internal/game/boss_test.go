package game

import "testing"

func spawnTestBoss(r *Room, kind BossKind) *Boss {
	b := newBoss(r, kind)
	b.Dropping = false
	b.Y = bossRestY
	r.boss = b
	r.state = bossActive
	return b
}

func TestBossKindCycle(t *testing.T) {
	waves := []int{5, 10, 15, 20, 25, 30, 35}
	want := []BossKind{BossTriangle, BossOctagon, BossPentagon, BossDiamond, BossSpiral, BossFractal, BossTriangle}
	for i, w := range waves {
		if got := bossKindFor(w); got != want[i] {
			t.Fatalf("wave %d: boss kind %s, want %s", w, got, want[i])
		}
	}
}

// Regression test for the filtered-index defect: after a part dies, the hit
// point list must keep carrying real part IDs, so damage through "the 2nd
// remaining hit point" lands on that exact part and no other.
func TestBossHitPointIDsStableAfterRemoval(t *testing.T) {
	r := testRoom(t, 1)
	b := spawnTestBoss(r, BossTriangle)

	if len(b.HitPoints()) != 3 {
		t.Fatalf("triangle should expose 3 hit points")
	}

	r.damageBossPart(1, 10000) // kill part 1

	hps := b.HitPoints()
	if len(hps) != 2 {
		t.Fatalf("expected 2 remaining hit points, got %d", len(hps))
	}
	if hps[0].PartID != 2 || hps[1].PartID != 3 {
		t.Fatalf("remaining hit point IDs = %d,%d, want 2,3", hps[0].PartID, hps[1].PartID)
	}

	second := hps[1]
	before2 := b.Part(2).HP
	before3 := b.Part(3).HP
	r.damageBossPart(second.PartID, 10)

	if b.Part(3).HP != before3-10 {
		t.Fatalf("part 3 hp = %d, want %d", b.Part(3).HP, before3-10)
	}
	if b.Part(2).HP != before2 {
		t.Fatalf("part 2 hp changed; damage landed on the wrong part")
	}
}

func TestBossDamageToDeadPartIgnored(t *testing.T) {
	r := testRoom(t, 1)
	b := spawnTestBoss(r, BossTriangle)

	r.damageBossPart(1, 10000)
	r.damageBossPart(1, 10000) // stale ID from a client still aiming here

	if b.Part(1).HP != 0 {
		t.Fatalf("dead part hp = %d, want 0", b.Part(1).HP)
	}
	if b.Dead {
		t.Fatalf("boss died with two parts still alive")
	}
}

func TestDiamondCoreFansOutIntoShards(t *testing.T) {
	r := testRoom(t, 1)
	b := spawnTestBoss(r, BossDiamond)

	r.damageBossPart(1, 10000)

	if b.Dead {
		t.Fatalf("diamond must survive core death through its shards")
	}
	free := 0
	for _, p := range b.Parts() {
		if p.Free && p.HP > 0 {
			free++
		}
	}
	if free != 4 {
		t.Fatalf("free shards = %d, want 4", free)
	}
}

func TestFractalPiecesSplitUntilSizeThreshold(t *testing.T) {
	r := testRoom(t, 1)
	b := spawnTestBoss(r, BossFractal)

	first := b.Parts()[0]
	r.damageBossPart(first.ID, 10000)

	children := 0
	for _, p := range b.Parts() {
		if p.ID > 3 && p.HP > 0 {
			children++
			if p.Size != first.Size*0.6 {
				t.Fatalf("child size = %v, want %v", p.Size, first.Size*0.6)
			}
		}
	}
	if children != 2 {
		t.Fatalf("children spawned = %d, want 2", children)
	}

	// Grind the whole tree down; shrinking size must terminate the recursion.
	for i := 0; i < 1000; i++ {
		alive := false
		for _, p := range b.Parts() {
			if p.HP > 0 {
				r.damageBossPart(p.ID, 10000)
				alive = true
				break
			}
		}
		if !alive {
			break
		}
	}
	if b.partsAlive() != 0 {
		t.Fatalf("fractal tree did not terminate")
	}
	if !b.Dead {
		t.Fatalf("boss should be dead once every piece is destroyed")
	}
}

func TestBossDefeatHealsAndPaysBonus(t *testing.T) {
	r := testRoom(t, 2)
	r.wave = 5
	p1 := r.players[1]
	p2 := r.players[2]
	p1.HP = 10
	p2.HP = 40
	b := spawnTestBoss(r, BossTriangle)

	for _, part := range b.Parts() {
		r.damageBossPart(part.ID, 10000)
	}

	if !b.Dead {
		t.Fatalf("boss should be dead")
	}
	if p1.HP != p1.MaxHP || p2.HP != p2.MaxHP {
		t.Fatalf("defeat must fully heal living players")
	}
	if p1.Points != r.cfg.BossBonusPoints || p2.Points != r.cfg.BossBonusPoints {
		t.Fatalf("defeat bonus missing: %d / %d", p1.Points, p2.Points)
	}
	if len(r.pickups) == 0 {
		t.Fatalf("defeat should scatter ammo drops")
	}

	// After the clear delay the boss is gone and the wave advances once.
	for i := 0; i < r.cfg.Ticks(r.cfg.BossClearWait)+r.cfg.Ticks(r.cfg.WaveBreak)+2; i++ {
		r.Tick()
	}
	if r.boss != nil {
		t.Fatalf("boss not cleared after cooldown")
	}
	if r.wave != 6 {
		t.Fatalf("wave = %d, want 6", r.wave)
	}
}

func TestBossWaveEntryScenario(t *testing.T) {
	r := testRoom(t, 1)
	p := r.players[1]
	p.Ammo = 17

	r.startWave(5)

	if r.state != bossIncoming {
		t.Fatalf("wave 5 should enter boss-incoming")
	}
	if p.Ammo != AmmoUnlimited {
		t.Fatalf("ammo = %d, want unlimited sentinel", p.Ammo)
	}
	if p.SavedAmmo == nil || *p.SavedAmmo != 17 {
		t.Fatalf("saved ammo not captured")
	}

	// Entry telegraph passes, the boss spawns dropping in from off-screen.
	for i := 0; i < r.cfg.Ticks(r.cfg.BossEntry)+1; i++ {
		r.Tick()
	}
	if r.boss == nil {
		t.Fatalf("boss not spawned after entry delay")
	}
	if r.boss.Kind != BossTriangle {
		t.Fatalf("wave 5 boss = %s, want triangle (first in cycle)", r.boss.Kind)
	}
	if !r.boss.Dropping {
		t.Fatalf("boss should still be dropping")
	}

	for i := 0; i < 200 && r.boss.Dropping; i++ {
		r.Tick()
	}
	if r.boss.Dropping {
		t.Fatalf("boss never reached resting depth")
	}
	if r.boss.Y != bossRestY {
		t.Fatalf("boss rest y = %v, want %v", r.boss.Y, bossRestY)
	}
	if r.boss.VX == 0 && r.boss.VY == 0 {
		t.Fatalf("wall-bounce physics should engage after the drop")
	}
}

func TestBossBouncesInsidePaddedBounds(t *testing.T) {
	r := testRoom(t, 1)
	b := spawnTestBoss(r, BossOctagon)
	b.VX, b.VY = 10, 0

	for i := 0; i < 300; i++ {
		r.updateBoss()
		min := r.cfg.WallMargin + b.Pad
		if b.X < min || b.X > r.cfg.ArenaW-min {
			t.Fatalf("boss escaped padded bounds: x=%v", b.X)
		}
	}
}
