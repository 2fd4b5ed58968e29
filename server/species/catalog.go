package species

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"pokeidle/server/gamedata"
	"pokeidle/server/store"
	"pokeidle/shared/game/types"
)

// Catalog caches the species table by slug and id. Lookups never hit the
// database; Refresh reloads the cache.
type Catalog struct {
	store store.Store
	reg   *gamedata.Registry
	log   *zap.Logger

	mu     sync.RWMutex
	bySlug map[string]*store.Species
	byID   map[int64]*store.Species
	list   []store.Species
}

func NewCatalog(st store.Store, reg *gamedata.Registry, log *zap.Logger) *Catalog {
	return &Catalog{
		store:  st,
		reg:    reg,
		log:    log.Named("species"),
		bySlug: map[string]*store.Species{},
		byID:   map[int64]*store.Species{},
	}
}

func (c *Catalog) Refresh(ctx context.Context) error {
	list, err := c.store.ListSpecies(ctx)
	if err != nil {
		return err
	}
	bySlug := make(map[string]*store.Species, len(list))
	byID := make(map[int64]*store.Species, len(list))
	for i := range list {
		sp := &list[i]
		bySlug[sp.Slug] = sp
		byID[sp.ID] = sp
	}
	c.mu.Lock()
	c.list, c.bySlug, c.byID = list, bySlug, byID
	c.mu.Unlock()
	c.log.Info("catalog loaded", zap.Int("species", len(list)))
	return nil
}

// Pokedex returns every species ordered by tyradex id.
func (c *Catalog) Pokedex(ctx context.Context) ([]store.Species, error) {
	c.mu.RLock()
	n := len(c.list)
	c.mu.RUnlock()
	if n == 0 {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]store.Species(nil), c.list...), nil
}

func (c *Catalog) Lookup(slug string) (*store.Species, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sp, ok := c.bySlug[slug]
	return sp, ok
}

// ByID resolves a species id, falling back to the store for rows seeded
// after the last Refresh.
func (c *Catalog) ByID(ctx context.Context, id int64) (*store.Species, error) {
	c.mu.RLock()
	sp, ok := c.byID[id]
	c.mu.RUnlock()
	if ok {
		return sp, nil
	}
	sp, err := c.store.SpeciesByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.byID[sp.ID] = sp
	c.bySlug[sp.Slug] = sp
	c.mu.Unlock()
	return sp, nil
}

// SpeciesID returns the catalog id of slug, or 0 when unknown.
func (c *Catalog) SpeciesID(slug string) int64 {
	if sp, ok := c.Lookup(slug); ok {
		return sp.ID
	}
	return 0
}

// FillIDs sets the species id of every Pokémon the catalog knows but whose
// id is still unresolved, typically after an evolution or hatch.
func (c *Catalog) FillIDs(pks []types.OwnedPokemon) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range pks {
		if pks[i].SpeciesID != 0 {
			continue
		}
		if sp, ok := c.bySlug[pks[i].Slug]; ok {
			pks[i].SpeciesID = sp.ID
		}
	}
}

// TypeOf resolves the primary type from the catalog, then from game data.
func (c *Catalog) TypeOf(slug string) types.PokemonType {
	d := c.reg.Current()
	if sp, ok := c.Lookup(slug); ok {
		if t, ok := d.TypeFromName(sp.Type1); ok {
			return t
		}
	}
	return d.TypeOf(slug)
}

// IsMissing reports whether err means the species does not exist.
func IsMissing(err error) bool { return errors.Is(err, store.ErrNotFound) }
