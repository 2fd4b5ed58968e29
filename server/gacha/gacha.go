package gacha

import (
	"pokeidle/server/gamedata"
	"pokeidle/shared/game/types"
)

// Result is one pull before it reaches a collection.
type Result struct {
	Entry   gamedata.PoolEntry
	Rarity  types.Rarity
	IsShiny bool
}

// Pull rolls a rarity tier by weight, then picks uniformly inside it.
func Pull(b *gamedata.Banner, d *gamedata.Data, rng RandomSource) Result {
	byRarity := map[types.Rarity][]gamedata.PoolEntry{}
	for _, e := range b.Pool {
		byRarity[e.Rarity()] = append(byRarity[e.Rarity()], e)
	}

	var total float64
	for _, r := range types.Rarities {
		total += d.RarityWeight(r)
	}
	roll := rng.Float64() * total
	selected := types.RarityCommon
	for _, r := range types.Rarities {
		roll -= d.RarityWeight(r)
		if roll <= 0 {
			selected = r
			break
		}
	}

	candidates := byRarity[selected]
	if len(candidates) == 0 {
		candidates = byRarity[types.RarityCommon]
	}
	if len(candidates) == 0 {
		candidates = b.Pool
	}
	e := candidates[IntN(rng, len(candidates))]
	return Result{
		Entry:   e,
		Rarity:  e.Rarity(),
		IsShiny: Chance(rng, d.Gacha.ShinyOdds),
	}
}

// PullMany performs n independent pulls. There is no pity.
func PullMany(b *gamedata.Banner, d *gamedata.Data, n int, rng RandomSource) []Result {
	out := make([]Result, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Pull(b, d, rng))
	}
	return out
}

// Cost returns the price of count pulls in the chosen currency.
func Cost(b *gamedata.Banner, count int, gems bool) int64 {
	if gems {
		return int64(count) * b.CostGems
	}
	return int64(count) * b.CostGold
}
