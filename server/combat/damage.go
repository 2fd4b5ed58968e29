package combat

import (
	"math"

	"pokeidle/server/balance"
	"pokeidle/shared/game/types"
)

// DPS is the damage breakdown of one team member.
type DPS struct {
	Base       int     `json:"base"`
	EvoMult    float64 `json:"evoMult"`
	RarityMult float64 `json:"rarityMult"`
	ShinyMult  float64 `json:"shinyMult"`
	StarMult   float64 `json:"starMult"`
	TypeMult   float64 `json:"typeMult"`
	Permanent  int64   `json:"permanentDps"`
	Effective  int64   `json:"effectiveDps"`
}

// PokeDPS computes a Pokémon's damage per tick against enemyType. An empty
// enemyType skips the type matchup.
func PokeDPS(dex Dex, pk *types.OwnedPokemon, enemyType types.PokemonType) DPS {
	d := DPS{
		Base:       pk.Level,
		EvoMult:    dex.StageMult(pk.Slug),
		RarityMult: dex.RarityMult(pk.Slug),
		ShinyMult:  1,
		StarMult:   dex.StarMult(pk.Stars, pk.IsShiny),
		TypeMult:   1,
	}
	if pk.IsShiny {
		d.ShinyMult = balance.ShinyDpsMult
	}
	if enemyType != "" {
		d.TypeMult = dex.Effectiveness(dex.TypeOf(pk.Slug), enemyType)
	}
	d.Permanent = int64(math.Floor(float64(d.Base) * d.EvoMult * d.RarityMult * d.ShinyMult * d.StarMult))
	d.Effective = int64(math.Round(float64(d.Permanent) * d.TypeMult))
	return d
}

// TeamDPS sums effective DPS and adds the flat bonus when anyone is fighting.
func TeamDPS(dex Dex, team []*types.OwnedPokemon, enemyType types.PokemonType, bonus int64) int64 {
	if len(team) == 0 {
		return 0
	}
	var total int64
	for _, pk := range team {
		total += PokeDPS(dex, pk, enemyType).Effective
	}
	return total + bonus
}
