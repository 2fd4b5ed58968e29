package types

import "strings"

// PokemonType is one of the 18 elemental types, lowercase English.
type PokemonType string

const (
	TypeNormal   PokemonType = "normal"
	TypeFire     PokemonType = "fire"
	TypeWater    PokemonType = "water"
	TypeElectric PokemonType = "electric"
	TypeGrass    PokemonType = "grass"
	TypeIce      PokemonType = "ice"
	TypeFighting PokemonType = "fighting"
	TypePoison   PokemonType = "poison"
	TypeGround   PokemonType = "ground"
	TypeFlying   PokemonType = "flying"
	TypePsychic  PokemonType = "psychic"
	TypeBug      PokemonType = "bug"
	TypeRock     PokemonType = "rock"
	TypeGhost    PokemonType = "ghost"
	TypeDragon   PokemonType = "dragon"
	TypeDark     PokemonType = "dark"
	TypeSteel    PokemonType = "steel"
	TypeFairy    PokemonType = "fairy"
)

var AllTypes = []PokemonType{
	TypeNormal, TypeFire, TypeWater, TypeElectric, TypeGrass, TypeIce,
	TypeFighting, TypePoison, TypeGround, TypeFlying, TypePsychic, TypeBug,
	TypeRock, TypeGhost, TypeDragon, TypeDark, TypeSteel, TypeFairy,
}

func (t PokemonType) Valid() bool {
	for _, k := range AllTypes {
		if k == t {
			return true
		}
	}
	return false
}

func NormalizeType(s string) PokemonType {
	return PokemonType(strings.ToLower(strings.TrimSpace(s)))
}

// OwnedPokemon is one entry of a player's collection.
type OwnedPokemon struct {
	ID        string `json:"id"`
	SpeciesID int64  `json:"speciesId"`
	Slug      string `json:"slug"`
	NameFr    string `json:"nameFr"`
	NameEn    string `json:"nameEn"`
	Level     int    `json:"level"`
	XP        int64  `json:"xp"`
	Stars     int    `json:"stars"`
	IsShiny   bool   `json:"isShiny"`
	Rarity    Rarity `json:"rarity"`
	TeamSlot  *int   `json:"teamSlot"`
}

func (p *OwnedPokemon) InTeam() bool { return p.TeamSlot != nil }

// Slot returns the team slot or 0 when benched.
func (p *OwnedPokemon) Slot() int {
	if p.TeamSlot == nil {
		return 0
	}
	return *p.TeamSlot
}

func SlotPtr(n int) *int { return &n }
