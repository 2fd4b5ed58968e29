package types

// Candies are persisted per size. They have no spend path yet.
type Candies struct {
	S  int `json:"S"`
	M  int `json:"M"`
	L  int `json:"L"`
	XL int `json:"XL"`
}

// DaycareSlot is a Pokémon left at the daycare, hatching once enough
// team damage has been dealt.
type DaycareSlot struct {
	Slug           string `json:"slug"`
	NameFr         string `json:"nameFr"`
	NameEn         string `json:"nameEn"`
	Stars          int    `json:"stars"`
	Rarity         Rarity `json:"rarity"`
	DamageDealt    int64  `json:"damageDealt"`
	DamageRequired int64  `json:"damageRequired"`
}

func (s DaycareSlot) Ready() bool { return s.DamageDealt >= s.DamageRequired }

// Player is the persisted progression of one account.
type Player struct {
	Gold              int64          `json:"gold"`
	Gems              int64          `json:"gems"`
	XP                int64          `json:"xp"`
	Level             int            `json:"level"`
	CurrentGeneration int            `json:"currentGeneration"`
	CurrentZone       int            `json:"currentZone"`
	CurrentStage      int            `json:"currentStage"`
	StageKills        int            `json:"stageKills"`
	ClickDamage       int64          `json:"clickDamage"`
	ClickDamageBonus  int64          `json:"clickDamageBonus"`
	TeamDpsBonus      int64          `json:"teamDpsBonus"`
	Badges            int            `json:"badges"`
	Candies           Candies        `json:"candies"`
	Daycare           []DaycareSlot  `json:"daycare"`
	Items             map[string]int `json:"items"`
}

func NewPlayer() Player {
	return Player{
		Level:             1,
		CurrentGeneration: 1,
		CurrentZone:       1,
		CurrentStage:      1,
		ClickDamage:       1,
		Daycare:           []DaycareSlot{},
		Items:             map[string]int{},
	}
}

// EnsureInitialized fills nil collections and clamps zero values left by
// older rows.
func (p *Player) EnsureInitialized() {
	if p.Daycare == nil {
		p.Daycare = []DaycareSlot{}
	}
	if p.Items == nil {
		p.Items = map[string]int{}
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.CurrentGeneration < 1 {
		p.CurrentGeneration = 1
	}
	if p.CurrentZone < 1 {
		p.CurrentZone = 1
	}
	if p.CurrentStage < 1 {
		p.CurrentStage = 1
	}
	if p.ClickDamage < 1 {
		p.ClickDamage = 1
	}
}

var generationNames = map[int]string{
	1: "Kanto",
	2: "Johto",
	3: "Hoenn",
	4: "Sinnoh",
	5: "Unova",
	6: "Kalos",
	7: "Alola",
	8: "Galar",
	9: "Paldea",
}

func GenerationName(gen int) string {
	if n, ok := generationNames[gen]; ok {
		return n
	}
	return "Unknown"
}
