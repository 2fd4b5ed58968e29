package types

import "strings"

type Rarity int

const (
	RarityCommon Rarity = iota
	RarityRare
	RarityEpic
	RarityLegendary
)

// Rarities lists every tier in roll order.
var Rarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

func (r Rarity) String() string {
	switch r {
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "common"
	}
}

// ParseRarity maps a tier name to a Rarity. Unknown names are common.
func ParseRarity(s string) Rarity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rare":
		return RarityRare
	case "epic":
		return RarityEpic
	case "legendary":
		return RarityLegendary
	default:
		return RarityCommon
	}
}

// ValidRarity reports whether s names a known tier.
func ValidRarity(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common", "rare", "epic", "legendary":
		return true
	}
	return false
}

func (r Rarity) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Rarity) UnmarshalText(b []byte) error {
	*r = ParseRarity(string(b))
	return nil
}
