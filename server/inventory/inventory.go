package inventory

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"

	"pokeidle/server/balance"
	"pokeidle/shared/game/types"
)

var (
	ErrNotFound    = errors.New("pokemon not found")
	ErrInvalidSlot = errors.New("team slot must be between 1 and 6")
)

// Collection is the Pokémon a player owns.
type Collection struct {
	Pokemons []types.OwnedPokemon
}

func New(pokemons []types.OwnedPokemon) *Collection {
	if pokemons == nil {
		pokemons = []types.OwnedPokemon{}
	}
	return &Collection{Pokemons: pokemons}
}

// Species describes what is being added to the collection.
type Species struct {
	SpeciesID int64
	Slug      string
	NameFr    string
	NameEn    string
	Rarity    types.Rarity
	IsShiny   bool
}

// Add stores a new Pokémon, or upgrades the existing copy with the same slug
// and shininess by one star.
func (c *Collection) Add(s Species) (pk *types.OwnedPokemon, isNew bool) {
	for i := range c.Pokemons {
		p := &c.Pokemons[i]
		if p.Slug == s.Slug && p.IsShiny == s.IsShiny {
			p.Stars = min(p.Stars+1, balance.MaxStars)
			return p, false
		}
	}
	slot := c.freeSlot()
	c.Pokemons = append(c.Pokemons, types.OwnedPokemon{
		ID:        uuid.NewString(),
		SpeciesID: s.SpeciesID,
		Slug:      s.Slug,
		NameFr:    s.NameFr,
		NameEn:    s.NameEn,
		Level:     1,
		Stars:     1,
		IsShiny:   s.IsShiny,
		Rarity:    s.Rarity,
		TeamSlot:  slot,
	})
	return &c.Pokemons[len(c.Pokemons)-1], true
}

// freeSlot returns the lowest unused team slot, nil when the team is full.
func (c *Collection) freeSlot() *int {
	used := map[int]bool{}
	for _, p := range c.Pokemons {
		if p.TeamSlot != nil {
			used[*p.TeamSlot] = true
		}
	}
	for s := 1; s <= balance.MaxTeamSize; s++ {
		if !used[s] {
			return types.SlotPtr(s)
		}
	}
	return nil
}

func (c *Collection) Find(id string) (*types.OwnedPokemon, error) {
	for i := range c.Pokemons {
		if c.Pokemons[i].ID == id {
			return &c.Pokemons[i], nil
		}
	}
	return nil, ErrNotFound
}

// Team returns pointers to the members with a slot, ordered by slot.
func (c *Collection) Team() []*types.OwnedPokemon {
	team := make([]*types.OwnedPokemon, 0, balance.MaxTeamSize)
	for i := range c.Pokemons {
		if c.Pokemons[i].TeamSlot != nil {
			team = append(team, &c.Pokemons[i])
		}
	}
	sort.SliceStable(team, func(a, b int) bool { return team[a].Slot() < team[b].Slot() })
	return team
}

// TeamCopy returns the team as values, safe to hand to other goroutines.
func (c *Collection) TeamCopy() []types.OwnedPokemon {
	team := c.Team()
	out := make([]types.OwnedPokemon, len(team))
	for i, p := range team {
		out[i] = *p
		if p.TeamSlot != nil {
			out[i].TeamSlot = types.SlotPtr(*p.TeamSlot)
		}
	}
	return out
}

// SetTeamSlot puts a Pokémon in slot, swapping whoever held it into the
// Pokémon's previous slot. A nil slot benches it.
func (c *Collection) SetTeamSlot(id string, slot *int) error {
	if slot != nil && (*slot < 1 || *slot > balance.MaxTeamSize) {
		return ErrInvalidSlot
	}
	pk, err := c.Find(id)
	if err != nil {
		return err
	}
	if slot != nil {
		for i := range c.Pokemons {
			o := &c.Pokemons[i]
			if o.ID != pk.ID && o.TeamSlot != nil && *o.TeamSlot == *slot {
				o.TeamSlot = pk.TeamSlot
				break
			}
		}
		pk.TeamSlot = types.SlotPtr(*slot)
		return nil
	}
	pk.TeamSlot = nil
	return nil
}

func (c *Collection) RemoveFromTeam(id string) error {
	pk, err := c.Find(id)
	if err != nil {
		return err
	}
	pk.TeamSlot = nil
	return nil
}

// TeamDPS is the rough team damage used for offline rewards:
// floor(level * (1 + stars*0.25)) per member.
func (c *Collection) TeamDPS() int64 {
	var sum int64
	for _, p := range c.Team() {
		sum += int64(math.Floor(float64(p.Level) * (1 + float64(p.Stars)*0.25)))
	}
	return sum
}

// UniqueSlugs is the set of species owned, shiny or not.
func (c *Collection) UniqueSlugs() map[string]struct{} {
	out := make(map[string]struct{}, len(c.Pokemons))
	for _, p := range c.Pokemons {
		out[p.Slug] = struct{}{}
	}
	return out
}

func (c *Collection) Len() int { return len(c.Pokemons) }
