package game

import "math/rand"

type Weapon struct {
	Name     string
	Damage   int
	Capacity int
	Cooldown int // ticks between shots
	Speed    float64
}

const StartingWeapon = "pistol"

var weapons = map[string]Weapon{
	"pistol":  {Name: "pistol", Damage: 25, Capacity: 24, Cooldown: 9, Speed: 9},
	"smg":     {Name: "smg", Damage: 15, Capacity: 60, Cooldown: 4, Speed: 10},
	"shotgun": {Name: "shotgun", Damage: 60, Capacity: 12, Cooldown: 15, Speed: 8},
	"rifle":   {Name: "rifle", Damage: 50, Capacity: 30, Cooldown: 7, Speed: 12},
	"minigun": {Name: "minigun", Damage: 12, Capacity: 200, Cooldown: 2, Speed: 10},
	"laser":   {Name: "laser", Damage: 40, Capacity: 80, Cooldown: 3, Speed: 14},
	"railgun": {Name: "railgun", Damage: 150, Capacity: 10, Cooldown: 18, Speed: 16},
}

// WeaponFor returns the weapon table entry, falling back to the starting
// weapon for unknown keys so a bad snapshot round-trip can't zero a player out.
func WeaponFor(name string) Weapon {
	if w, ok := weapons[name]; ok {
		return w
	}
	return weapons[StartingWeapon]
}

var (
	commonWeapons    = []string{"pistol", "smg", "shotgun"}
	rareWeapons      = []string{"rifle", "minigun"}
	legendaryWeapons = []string{"laser", "railgun"}
)

// rollWeapon draws from the mystery box rarity bands:
// 10% legendary, 30% rare, 60% common.
func rollWeapon(rng *rand.Rand) string {
	roll := rng.Float64()
	switch {
	case roll < 0.10:
		return legendaryWeapons[rng.Intn(len(legendaryWeapons))]
	case roll < 0.40:
		return rareWeapons[rng.Intn(len(rareWeapons))]
	default:
		return commonWeapons[rng.Intn(len(commonWeapons))]
	}
}
