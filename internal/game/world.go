package game

import "math"

const (
	MaxPlayers = 4

	PlayerRadius = 14.0
	PlayerSpeed  = 3.2
	PlayerMaxHP  = 100

	BulletRadius = 4.0

	MeleeDamage   = 50
	MeleeRange    = 40.0
	MeleeArc      = 0.6 * math.Pi // full arc, centered on facing
	MeleeCooldown = 12            // ticks

	// AmmoUnlimited is the sentinel for infinite ammo (boss waves).
	AmmoUnlimited = -1
)

var slotColors = [MaxPlayers]string{"#4f9dff", "#ff6b6b", "#6bff95", "#ffd36b"}

type Player struct {
	Slot  int
	X, Y  float64
	Angle float64
	Color string

	HP, MaxHP int
	Ammo      int // -1 = unlimited
	Points    int
	Weapon    string

	Alive     bool
	Connected bool

	// Intent set by the session layer, realized at the next tick.
	MoveAngle *float64
	Firing    bool
	Meleeing  bool

	FireCD  int
	MeleeCD int
	HitCD   int

	SavedAmmo *int // pre-boss-wave ammo, restored on boss clear
}

type ZombieKind string

const (
	ZombieRegular ZombieKind = "regular"
	ZombieRunner  ZombieKind = "runner"
	ZombieTank    ZombieKind = "tank"
	ZombieBomber  ZombieKind = "bomber"
)

type Zombie struct {
	Kind      ZombieKind
	X, Y      float64
	HP, MaxHP int
	Speed     float64
	Size      float64
	Points    int
	AttackCD  int
}

const (
	BomberBlastRadius = 80.0
	BomberBlastDamage = 40
	ZombieBiteDamage  = 10
	ZombieBiteEvery   = 20 // ticks between bites while touching
)

func newZombie(kind ZombieKind, x, y float64) *Zombie {
	z := &Zombie{Kind: kind, X: x, Y: y}
	switch kind {
	case ZombieRunner:
		z.MaxHP, z.Speed, z.Size, z.Points = 40, 2.4, 20, 75
	case ZombieTank:
		z.MaxHP, z.Speed, z.Size, z.Points = 240, 0.8, 36, 150
	case ZombieBomber:
		z.MaxHP, z.Speed, z.Size, z.Points = 60, 1.6, 24, 100
	default:
		z.MaxHP, z.Speed, z.Size, z.Points = 80, 1.2, 26, 50
	}
	z.HP = z.MaxHP
	return z
}

type Bullet struct {
	X, Y   float64
	VX, VY float64
	Damage int
	Color  string
}

type PickupKind string

const (
	PickupAmmo   PickupKind = "ammo"
	PickupHealth PickupKind = "health"
)

const HealthPackHeal = 25

type Pickup struct {
	Kind PickupKind
	X, Y float64
}

func dist(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// wrapAngle reduces a to the shortest signed difference in [-π, π]. Constant
// time for any magnitude; non-finite input yields NaN, callers validate first.
func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// clampToArena keeps a point inside the walls, inset by margin plus the
// entity's own pad. Reapplied every tick after movement.
func (r *Room) clampToArena(x, y, pad float64) (float64, float64) {
	min := r.cfg.WallMargin + pad
	maxX := r.cfg.ArenaW - r.cfg.WallMargin - pad
	maxY := r.cfg.ArenaH - r.cfg.WallMargin - pad
	if x < min {
		x = min
	} else if x > maxX {
		x = maxX
	}
	if y < min {
		y = min
	} else if y > maxY {
		y = maxY
	}
	return x, y
}

func (r *Room) inBounds(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= r.cfg.ArenaW && y <= r.cfg.ArenaH
}
