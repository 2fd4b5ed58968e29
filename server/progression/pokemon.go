package progression

import (
	"math"

	"pokeidle/server/balance"
	"pokeidle/shared/game/types"
)

// PokemonXPForLevel is the cumulative XP a Pokémon needs to reach level.
func PokemonXPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(math.Floor(20 * math.Pow(float64(level), 1.6)))
}

// AddPokemonXP credits XP and levels the Pokémon up to the level cap.
// XP keeps accumulating at the cap.
func AddPokemonXP(pk *types.OwnedPokemon, amount int64) int {
	if amount <= 0 {
		return 0
	}
	if pk.Level < 1 {
		pk.Level = 1
	}
	pk.XP += amount
	ups := 0
	for pk.Level < balance.MaxPokemonLevel && pk.XP >= PokemonXPForLevel(pk.Level+1) {
		pk.Level++
		ups++
	}
	return ups
}
