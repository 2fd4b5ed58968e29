package daycare

import (
	"errors"

	"pokeidle/server/balance"
	"pokeidle/server/currency"
	"pokeidle/server/gacha"
	"pokeidle/shared/game/types"
)

var (
	ErrFull      = errors.New("daycare is full")
	ErrDuplicate = errors.New("this pokemon is already at the daycare")
)

// Deposit pays the daycare fee and starts breeding a copy of pk. The
// Pokémon itself stays in the collection.
func Deposit(p *types.Player, pk *types.OwnedPokemon) error {
	if len(p.Daycare) >= balance.MaxDaycareSlots {
		return ErrFull
	}
	for _, s := range p.Daycare {
		if s.Slug == pk.Slug {
			return ErrDuplicate
		}
	}
	if err := currency.Spend(p, currency.Gold, balance.DaycareCost); err != nil {
		return err
	}
	p.Daycare = append(p.Daycare, types.DaycareSlot{
		Slug:           pk.Slug,
		NameFr:         pk.NameFr,
		NameEn:         pk.NameEn,
		Stars:          pk.Stars,
		Rarity:         pk.Rarity,
		DamageRequired: RequiredDamage(pk.Stars),
	})
	return nil
}

// RequiredDamage falls back to the 5-star amount for unknown star counts.
func RequiredDamage(stars int) int64 {
	if d, ok := balance.HatchDamage[stars]; ok {
		return d
	}
	return balance.HatchDamage[balance.MaxStars]
}

// Remove drops a slot without refund. Out of range is a no-op.
func Remove(p *types.Player, index int) bool {
	if index < 0 || index >= len(p.Daycare) {
		return false
	}
	p.Daycare = append(p.Daycare[:index], p.Daycare[index+1:]...)
	return true
}

// AddDamage credits every slot with the damage the team just dealt.
func AddDamage(p *types.Player, amount int64) {
	if amount <= 0 {
		return
	}
	for i := range p.Daycare {
		p.Daycare[i].DamageDealt += amount
	}
}

type Hatched struct {
	Slot    types.DaycareSlot
	IsShiny bool
}

// CollectHatched removes and returns the ready slots. A 5-star parent
// hatches shiny one time in FiveStarShinyOdds.
func CollectHatched(p *types.Player, rng gacha.RandomSource) []Hatched {
	var out []Hatched
	remaining := p.Daycare[:0]
	for _, s := range p.Daycare {
		if !s.Ready() {
			remaining = append(remaining, s)
			continue
		}
		shiny := s.Stars >= balance.MaxStars && gacha.Chance(rng, balance.FiveStarShinyOdds)
		out = append(out, Hatched{Slot: s, IsShiny: shiny})
	}
	p.Daycare = remaining
	return out
}
