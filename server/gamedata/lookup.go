package gamedata

import (
	"strings"

	"pokeidle/shared/game/types"
)

func (d *Data) Banner(id string) (*Banner, bool) {
	for i := range d.Gacha.Banners {
		if d.Gacha.Banners[i].ID == id {
			return &d.Gacha.Banners[i], true
		}
	}
	return nil, false
}

func (d *Data) Generation(gen int) (*Generation, bool) {
	for i := range d.Zones.Generations {
		if d.Zones.Generations[i].ID == gen {
			return &d.Zones.Generations[i], true
		}
	}
	return nil, false
}

func (d *Data) Zone(gen, zone int) (*Zone, bool) {
	g, ok := d.Generation(gen)
	if !ok {
		return nil, false
	}
	for i := range g.Zones {
		if g.Zones[i].ID == zone {
			return &g.Zones[i], true
		}
	}
	return nil, false
}

func (d *Data) Item(id string) (*Item, bool) {
	it, ok := d.items[id]
	return it, ok
}

// RarityOf returns the banner rarity of a slug, common when it is in no pool.
// A slug listed by several banners takes the rarity of the last one.
func (d *Data) RarityOf(slug string) types.Rarity {
	if r, ok := d.rarity[slug]; ok {
		return r
	}
	return types.RarityCommon
}

// RarityDpsMult returns the damage multiplier of a tier, 1 when unset.
func (d *Data) RarityDpsMult(r types.Rarity) float64 {
	if m, ok := d.Gacha.RarityDpsMult[r.String()]; ok {
		return m
	}
	return 1
}

// StarDpsMult indexes the star table by min(stars, 5).
func (d *Data) StarDpsMult(stars int, shiny bool) float64 {
	table := d.Gacha.StarDpsMult
	if shiny {
		table = d.Gacha.StarDpsMultShiny
	}
	stars = max(0, min(stars, 5))
	if stars >= len(table) {
		return 1
	}
	return table[stars]
}

// RarityWeight returns the pull weight of a tier.
func (d *Data) RarityWeight(r types.Rarity) float64 {
	return d.Gacha.RarityWeights[r.String()]
}

// Effectiveness is the attacker -> defender multiplier, 1 for unknown types.
func (d *Data) Effectiveness(att, def types.PokemonType) float64 {
	if row, ok := d.eff[att]; ok {
		if m, ok := row[def]; ok {
			return m
		}
	}
	return 1
}

// TypeFromName resolves a French or English type name.
func (d *Data) TypeFromName(name string) (types.PokemonType, bool) {
	name = strings.TrimSpace(name)
	if t, ok := d.Types.Aliases[name]; ok {
		return types.PokemonType(t), true
	}
	if t := types.NormalizeType(name); t.Valid() {
		return t, true
	}
	return "", false
}

// TypeOf returns the primary type from the fallback species map. Mega forms
// resolve through their base slug and anything unknown is normal.
func (d *Data) TypeOf(slug string) types.PokemonType {
	slug = strings.ToLower(slug)
	if t, ok := d.Types.Species[slug]; ok {
		return types.PokemonType(t)
	}
	if i := strings.Index(slug, "-mega"); i > 0 {
		if t, ok := d.Types.Species[slug[:i]]; ok {
			return types.PokemonType(t)
		}
	}
	return types.TypeNormal
}
