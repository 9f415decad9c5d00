package game

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds the knobs that were worth arguing about during playtests.
// Everything has a compiled default; a YAML file can override any subset.
type Tuning struct {
	TickRate       int     `yaml:"tickRate"`       // logic ticks per second
	BroadcastEvery int     `yaml:"broadcastEvery"` // snapshot every Nth tick
	ArenaW         float64 `yaml:"arenaW"`
	ArenaH         float64 `yaml:"arenaH"`
	WallMargin     float64 `yaml:"wallMargin"`

	GracePeriod time.Duration `yaml:"gracePeriod"` // slot reservation after disconnect

	SpawnStagger  time.Duration `yaml:"spawnStagger"`  // delay between scheduled spawns
	WaveBreak     time.Duration `yaml:"waveBreak"`     // pause before the next wave spawns
	BossEntry     time.Duration `yaml:"bossEntry"`     // telegraph before the boss drops
	BossClearWait time.Duration `yaml:"bossClearWait"` // corpse linger before wave advance

	BaseQuota     int `yaml:"baseQuota"`     // zombies per player on wave 1
	QuotaPerWave  int `yaml:"quotaPerWave"`  // extra zombies per player per wave
	MaxChainDepth int `yaml:"maxChainDepth"` // bomber detonation recursion bound

	BoxCost         int           `yaml:"boxCost"`
	BoxRange        float64       `yaml:"boxRange"`
	BoxRelocate     time.Duration `yaml:"boxRelocate"`
	VendingBaseCost int           `yaml:"vendingBaseCost"`
	VendingCostStep int           `yaml:"vendingCostStep"`
	VendingHeal     int           `yaml:"vendingHeal"`
	VendingRange    float64       `yaml:"vendingRange"`

	PickupRadius float64       `yaml:"pickupRadius"`
	ReviveRadius float64       `yaml:"reviveRadius"`
	ReviveTime   time.Duration `yaml:"reviveTime"`
	ReviveHPFrac float64       `yaml:"reviveHpFrac"`

	AmmoDropChance   float64 `yaml:"ammoDropChance"`
	HealthDropChance float64 `yaml:"healthDropChance"`

	BossBonusPoints int `yaml:"bossBonusPoints"`
}

func DefaultTuning() Tuning {
	return Tuning{
		TickRate:       30,
		BroadcastEvery: 2,
		ArenaW:         800,
		ArenaH:         600,
		WallMargin:     20,

		GracePeriod: 30 * time.Second,

		SpawnStagger:  400 * time.Millisecond,
		WaveBreak:     3 * time.Second,
		BossEntry:     3 * time.Second,
		BossClearWait: 2 * time.Second,

		BaseQuota:     6,
		QuotaPerWave:  2,
		MaxChainDepth: 3,

		BoxCost:         150,
		BoxRange:        60,
		BoxRelocate:     time.Second,
		VendingBaseCost: 100,
		VendingCostStep: 50,
		VendingHeal:     50,
		VendingRange:    60,

		PickupRadius: 24,
		ReviveRadius: 50,
		ReviveTime:   3 * time.Second,
		ReviveHPFrac: 0.5,

		AmmoDropChance:   0.3,
		HealthDropChance: 0.1,

		BossBonusPoints: 500,
	}
}

// LoadTuning reads overrides from path on top of the defaults. A missing file
// is not an error; the defaults are the shipped balance.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, err
	}
	return t, nil
}

// TickDuration is the wall-clock length of one logic tick.
func (t Tuning) TickDuration() time.Duration {
	return time.Second / time.Duration(t.TickRate)
}

// Ticks converts a duration into whole ticks, rounding up so short delays
// never collapse to zero.
func (t Tuning) Ticks(d time.Duration) int {
	n := int(d / t.TickDuration())
	if n < 1 {
		n = 1
	}
	return n
}
