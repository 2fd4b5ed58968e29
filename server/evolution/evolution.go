package evolution

import (
	"sync"

	"pokeidle/server/gamedata"
	"pokeidle/shared/game/types"
)

// Rules answers evolution questions for one game data snapshot.
type Rules struct {
	data   *gamedata.Data
	bySlug map[string][]gamedata.Evolution
	parent map[string]string

	mu     sync.Mutex
	stages map[string]int
}

func NewRules(d *gamedata.Data) *Rules {
	r := &Rules{
		data:   d,
		bySlug: map[string][]gamedata.Evolution{},
		parent: map[string]string{},
		stages: map[string]int{},
	}
	for _, e := range d.Evolutions.Evolutions {
		r.bySlug[e.From] = append(r.bySlug[e.From], e)
		if _, ok := r.parent[e.To]; !ok {
			r.parent[e.To] = e.From
		}
	}
	return r
}

func (r *Rules) EvolutionsFor(slug string) []gamedata.Evolution {
	return r.bySlug[slug]
}

// CanEvolveByLevel returns the first level evolution the Pokémon qualifies for.
func (r *Rules) CanEvolveByLevel(slug string, level int) (gamedata.Evolution, bool) {
	for _, e := range r.bySlug[slug] {
		if e.Method == gamedata.MethodLevel && e.Level > 0 && level >= e.Level {
			return e, true
		}
	}
	return gamedata.Evolution{}, false
}

// CanEvolveByItem returns the first stone, trade or happiness evolution
// triggered by item.
func (r *Rules) CanEvolveByItem(slug, item string) (gamedata.Evolution, bool) {
	for _, e := range r.bySlug[slug] {
		if e.Method == gamedata.MethodLevel {
			continue
		}
		if e.Item == item {
			return e, true
		}
	}
	return gamedata.Evolution{}, false
}

// Stage is 0 for a base form, 1 for a first evolution and 2 beyond.
func (r *Rules) Stage(slug string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stages[slug]; ok {
		return s
	}
	stage := 0
	seen := map[string]bool{slug: true}
	for cur := slug; ; {
		p, ok := r.parent[cur]
		if !ok || seen[p] {
			break
		}
		seen[p] = true
		stage++
		cur = p
	}
	r.stages[slug] = stage
	return stage
}

func (r *Rules) StageMult(slug string) float64 {
	table := r.data.Evolutions.StageMult
	if len(table) == 0 {
		return 1
	}
	s := min(r.Stage(slug), 2, len(table)-1)
	return table[s]
}

// ItemApplicable reports whether item can be used on slug at all.
func (r *Rules) ItemApplicable(item, slug string) bool {
	it, ok := r.data.Item(item)
	if !ok {
		return false
	}
	for _, s := range it.ApplicableTo {
		if s == slug {
			return true
		}
	}
	return false
}

// Apply turns pk into the evolved species. Level, XP, stars, shininess and
// team slot carry over; the species id is cleared for the caller to resolve.
func Apply(pk *types.OwnedPokemon, e gamedata.Evolution) {
	pk.Slug = e.To
	pk.NameFr = e.ToNameFr
	pk.NameEn = e.ToNameEn
	pk.SpeciesID = 0
}
