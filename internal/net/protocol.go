package net

// Client → Server messages

type HelloMessage struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Token string `json:"token,omitempty"` // previous session token, for reconnect
}

type InputMessage struct {
	Type  string   `json:"type"`
	Angle *float64 `json:"angle"` // movement direction in radians, null = not moving
	Fire  bool     `json:"fire"`
	Melee bool     `json:"melee"`
}

type BuyBoxMessage struct {
	Type string `json:"type"`
}

type UseVendingMessage struct {
	Type string `json:"type"`
}

type RestartVoteMessage struct {
	Type string `json:"type"`
}

// Server → Client messages

type WelcomeMessage struct {
	Type     string `json:"type"`
	Slot     int    `json:"slot"`
	Token    string `json:"token"`
	RoomCode string `json:"roomCode"`
}

type JoinRejectedMessage struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

type PlayerState struct {
	Slot          int     `json:"slot"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	Angle         float64 `json:"angle"`
	Color         string  `json:"color"`
	HP            int     `json:"hp"`
	MaxHP         int     `json:"maxHp"`
	Ammo          int     `json:"ammo"` // -1 = unlimited
	Points        int     `json:"points"`
	Weapon        string  `json:"weapon"`
	Alive         bool    `json:"alive"`
	Connected     bool    `json:"connected"`
	CanUseBox     bool    `json:"canUseBox"`
	CanUseVending bool    `json:"canUseVending"`
	VendingCost   int     `json:"vendingCost"`
}

type ZombieState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Kind  string  `json:"kind"`
	HP    int     `json:"hp"`
	MaxHP int     `json:"maxHp"`
	Size  float64 `json:"size"`
}

type BulletState struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
}

type PickupState struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind string  `json:"kind"` // "ammo" or "health"
}

type BossPartState struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HP    int     `json:"hp"`
	MaxHP int     `json:"maxHp"`
	Size  float64 `json:"size"`
}

type BossShotState struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BossState struct {
	Kind     string          `json:"kind"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Rotation float64         `json:"rotation"`
	Flash    bool            `json:"flash"`
	Dropping bool            `json:"dropping"`
	Dead     bool            `json:"dead"`
	Parts    []BossPartState `json:"parts"`
	Shots    []BossShotState `json:"shots"`
}

type ReviveState struct {
	Reviver  int     `json:"reviver"`
	Target   int     `json:"target"`
	Progress float64 `json:"progress"` // 0..1
}

type ExplosionEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type SnapshotMessage struct {
	Type       string           `json:"type"`
	Tick       uint64           `json:"tick"`
	Wave       int              `json:"wave"`
	GameOver   bool             `json:"gameOver"`
	Players    []PlayerState    `json:"players"`
	Zombies    []ZombieState    `json:"zombies"`
	Bullets    []BulletState    `json:"bullets"`
	Pickups    []PickupState    `json:"pickups"`
	BoxX       float64          `json:"boxX"`
	BoxY       float64          `json:"boxY"`
	VendingX   float64          `json:"vendingX"`
	VendingY   float64          `json:"vendingY"`
	VendingOn  bool             `json:"vendingOn"`
	Boss       *BossState       `json:"boss,omitempty"`
	Revives    []ReviveState    `json:"revives"`
	Explosions []ExplosionEvent `json:"explosions,omitempty"`
}

type WaveChangedMessage struct {
	Type string `json:"type"`
	Wave int    `json:"wave"`
	Boss bool   `json:"boss"`
}

type BossSpawnedMessage struct {
	Type string `json:"type"`
	Kind string `json:"kind"`
	Wave int    `json:"wave"`
}

type GameOverMessage struct {
	Type string `json:"type"`
	Wave int    `json:"wave"`
}
