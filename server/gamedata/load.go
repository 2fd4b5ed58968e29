package gamedata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"pokeidle/shared/game/types"
)

//go:embed data/*.yaml
var embedded embed.FS

// Files lists the data files an override directory may replace.
var Files = []string{"gacha.yaml", "zones.yaml", "evolutions.yaml", "types.yaml"}

// Data is one consistent snapshot of all game data files.
type Data struct {
	Gacha      Gacha
	Zones      Zones
	Evolutions Evolutions
	Types      TypeChart

	rarity map[string]types.Rarity
	eff    map[types.PokemonType]map[types.PokemonType]float64
	items  map[string]*Item
}

// Load reads the embedded defaults, replacing whole files with the ones
// present in overrideDir.
func Load(overrideDir string) (*Data, error) {
	d := &Data{}
	targets := map[string]any{
		"gacha.yaml":      &d.Gacha,
		"zones.yaml":      &d.Zones,
		"evolutions.yaml": &d.Evolutions,
		"types.yaml":      &d.Types,
	}
	for _, name := range Files {
		b, err := readFile(overrideDir, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(b, targets[name]); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	d.index()
	return d, nil
}

func readFile(overrideDir, name string) ([]byte, error) {
	if overrideDir != "" {
		b, err := os.ReadFile(filepath.Join(overrideDir, name))
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return embedded.ReadFile("data/" + name)
}

// ValidationError lists every problem found in a snapshot.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "gamedata validation failed: " + strings.Join(e.Problems, "; ")
}

// Validate checks semantic constraints and reports all failures at once.
func Validate(d *Data) error {
	var errs []string
	add := func(format string, args ...any) { errs = append(errs, fmt.Sprintf(format, args...)) }

	var total float64
	for name, w := range d.Gacha.RarityWeights {
		if !types.ValidRarity(name) {
			add("rarity_weights.%s is not a rarity", name)
		}
		if w < 0 {
			add("rarity_weights.%s must be >= 0", name)
		}
		total += w
	}
	if total <= 0 {
		add("rarity_weights must sum to a positive value")
	}
	if d.Gacha.ShinyOdds <= 0 {
		add("shiny_odds must be >= 1")
	}
	if len(d.Gacha.StarDpsMult) <= 5 || len(d.Gacha.StarDpsMultShiny) <= 5 {
		add("star_dps_mult tables need entries for 0..5 stars")
	}
	seenBanner := map[string]bool{}
	for i, b := range d.Gacha.Banners {
		if b.ID == "" {
			add("banners[%d].id is required", i)
		}
		if seenBanner[b.ID] {
			add("banners[%d].id %q is duplicated", i, b.ID)
		}
		seenBanner[b.ID] = true
		if len(b.Pool) == 0 {
			add("banner %s has an empty pool", b.ID)
		}
		if b.CostGold <= 0 && b.CostGems <= 0 {
			add("banner %s has no cost", b.ID)
		}
		for j, e := range b.Pool {
			if e.Slug == "" {
				add("banner %s pool[%d].slug is required", b.ID, j)
			}
			if !types.ValidRarity(e.RarityTag) {
				add("banner %s pool[%d] has invalid rarity %q", b.ID, j, e.RarityTag)
			}
		}
	}

	for _, g := range d.Zones.Generations {
		for _, z := range g.Zones {
			if len(z.Wild) == 0 {
				add("zone %d-%d has no wild pokemon", g.ID, z.ID)
			}
			for _, w := range z.Wild {
				if w.BaseHP <= 0 {
					add("zone %d-%d wild %s needs base_hp > 0", g.ID, z.ID, w.Slug)
				}
			}
			if len(z.Boss.Team) == 0 {
				add("zone %d-%d boss has no team", g.ID, z.ID)
			}
			if z.Boss.TimerSeconds <= 0 {
				add("zone %d-%d boss timer must be > 0", g.ID, z.ID)
			}
		}
	}

	if len(d.Evolutions.StageMult) < 3 {
		add("stage_mult needs 3 entries")
	}
	items := map[string]bool{}
	for _, it := range d.Evolutions.Items {
		items[it.ID] = true
		if it.CostGems <= 0 {
			add("item %s needs cost_gems > 0", it.ID)
		}
	}
	for i, e := range d.Evolutions.Evolutions {
		switch e.Method {
		case MethodLevel:
			if e.Level <= 0 {
				add("evolutions[%d] %s->%s needs a level", i, e.From, e.To)
			}
		case MethodStone, MethodTrade, MethodHappiness:
			if e.Item == "" {
				add("evolutions[%d] %s->%s needs an item", i, e.From, e.To)
			} else if !items[e.Item] {
				add("evolutions[%d] %s->%s uses unknown item %s", i, e.From, e.To, e.Item)
			}
		default:
			add("evolutions[%d] %s->%s has unknown method %q", i, e.From, e.To, e.Method)
		}
	}

	if d.Types.Multipliers.Super <= 0 || d.Types.Multipliers.Resisted <= 0 {
		add("type multipliers super and resisted must be > 0")
	}
	for att, m := range d.Types.Chart {
		if !types.PokemonType(att).Valid() {
			add("chart has unknown type %s", att)
		}
		for _, list := range [][]string{m.Super, m.Resisted, m.Immune} {
			for _, def := range list {
				if !types.PokemonType(def).Valid() {
					add("chart.%s references unknown type %s", att, def)
				}
			}
		}
	}
	for alias, t := range d.Types.Aliases {
		if !types.PokemonType(t).Valid() {
			add("alias %s maps to unknown type %s", alias, t)
		}
	}
	for slug, t := range d.Types.Species {
		if !types.PokemonType(t).Valid() {
			add("species %s has unknown type %s", slug, t)
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

func (d *Data) index() {
	d.rarity = map[string]types.Rarity{}
	for _, b := range d.Gacha.Banners {
		for _, e := range b.Pool {
			d.rarity[e.Slug] = e.Rarity()
		}
	}
	d.eff = map[types.PokemonType]map[types.PokemonType]float64{}
	m := d.Types.Multipliers
	for att, mu := range d.Types.Chart {
		row := map[types.PokemonType]float64{}
		for _, def := range mu.Super {
			row[types.PokemonType(def)] = m.Super
		}
		for _, def := range mu.Resisted {
			row[types.PokemonType(def)] = m.Resisted
		}
		for _, def := range mu.Immune {
			row[types.PokemonType(def)] = m.Immune
		}
		d.eff[types.PokemonType(att)] = row
	}
	d.items = map[string]*Item{}
	for i := range d.Evolutions.Items {
		d.items[d.Evolutions.Items[i].ID] = &d.Evolutions.Items[i]
	}
}
