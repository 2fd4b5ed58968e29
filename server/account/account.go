package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"pokeidle/server/inventory"
	"pokeidle/server/store"
	"pokeidle/shared/game/types"
)

// Sections guarded by ValidateUpdateTime.
const (
	SectionPlayer   = "player"
	SectionPokemons = "pokemons"
)

// SectionUpdateTimes tracks the last server-side write per section, in unix ms.
type SectionUpdateTimes struct {
	Player   int64
	Pokemons int64
}

// State is the live view of one account.
type State struct {
	User         *store.User
	Collection   *inventory.Collection
	SectionTimes SectionUpdateTimes

	pokemonsDirty bool
}

func (s *State) Player() *types.Player { return &s.User.Player }

// TouchPokemons marks the collection for persistence and bumps its section time.
func (s *State) TouchPokemons() {
	s.pokemonsDirty = true
	s.UpdateTimestamps(SectionPokemons)
}

// UpdateTimestamps records a server-side write to section.
func (s *State) UpdateTimestamps(section string) {
	now := time.Now().UnixMilli()
	switch section {
	case SectionPlayer:
		s.SectionTimes.Player = now
	case SectionPokemons:
		s.SectionTimes.Pokemons = now
	}
}

// ValidateUpdateTime rejects a client snapshot taken before the last
// server-side write of the same section. A zero clientTime is accepted.
func (s *State) ValidateUpdateTime(section string, clientTime int64) bool {
	var last int64
	switch section {
	case SectionPlayer:
		last = s.SectionTimes.Player
	case SectionPokemons:
		last = s.SectionTimes.Pokemons
	default:
		last = max(s.SectionTimes.Player, s.SectionTimes.Pokemons)
	}
	return clientTime <= 0 || clientTime >= last
}

type entry struct {
	mu      sync.Mutex
	state   *State
	pins    int
	dirty   bool
	evicted bool
}

// Accounts is a write-through cache of player state with one lock per
// account. Pinned accounts, those with a live combat session, are written
// on Flush and Release instead of on every Update.
type Accounts struct {
	store store.Store
	log   *zap.Logger

	mu      sync.Mutex
	entries map[int64]*entry
}

func New(st store.Store, log *zap.Logger) *Accounts {
	return &Accounts{store: st, log: log.Named("account"), entries: make(map[int64]*entry)}
}

// lock returns the locked entry for id, loading it on first use.
func (a *Accounts) lock(ctx context.Context, id int64) (*entry, error) {
	for {
		a.mu.Lock()
		e, ok := a.entries[id]
		if !ok {
			e = &entry{}
			a.entries[id] = e
		}
		a.mu.Unlock()

		e.mu.Lock()
		if e.evicted {
			e.mu.Unlock()
			continue
		}
		if e.state == nil {
			st, err := a.load(ctx, id)
			if err != nil {
				e.mu.Unlock()
				a.drop(id, e)
				return nil, err
			}
			e.state = st
		}
		return e, nil
	}
}

func (a *Accounts) drop(id int64, e *entry) {
	a.mu.Lock()
	if a.entries[id] == e {
		e.mu.Lock()
		if e.state == nil && e.pins == 0 {
			e.evicted = true
			delete(a.entries, id)
		}
		e.mu.Unlock()
	}
	a.mu.Unlock()
}

func (a *Accounts) load(ctx context.Context, id int64) (*State, error) {
	u, err := a.store.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	pokemons, err := a.store.ListPokemons(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load pokemons %d: %w", id, err)
	}
	u.Player.EnsureInitialized()
	return &State{User: u, Collection: inventory.New(pokemons)}, nil
}

func (a *Accounts) persist(ctx context.Context, st *State) error {
	if err := a.store.UpdateUser(ctx, st.User); err != nil {
		return fmt.Errorf("save user %d: %w", st.User.ID, err)
	}
	if st.pokemonsDirty {
		if err := a.store.ReplacePokemons(ctx, st.User.ID, st.Collection.Pokemons); err != nil {
			return fmt.Errorf("save pokemons %d: %w", st.User.ID, err)
		}
		st.pokemonsDirty = false
	}
	return nil
}

// Update runs fn under the account lock. Unpinned accounts are persisted
// right away; a failing fn discards the cached state so the next call
// reloads it from the store.
func (a *Accounts) Update(ctx context.Context, id int64, fn func(*State) error) error {
	e, err := a.lock(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	if err := fn(e.state); err != nil {
		if e.pins == 0 {
			e.state = nil
		}
		return err
	}
	if e.pins > 0 {
		e.dirty = true
		return nil
	}
	if err := a.persist(ctx, e.state); err != nil {
		e.state = nil
		return err
	}
	return nil
}

// View runs fn under the account lock without persisting.
func (a *Accounts) View(ctx context.Context, id int64, fn func(*State)) error {
	e, err := a.lock(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	fn(e.state)
	return nil
}

// Acquire pins an account for a live session.
func (a *Accounts) Acquire(ctx context.Context, id int64) error {
	e, err := a.lock(ctx, id)
	if err != nil {
		return err
	}
	e.pins++
	e.mu.Unlock()
	return nil
}

// Release unpins an account and writes it when the last pin goes away.
func (a *Accounts) Release(ctx context.Context, id int64) error {
	a.mu.Lock()
	e, ok := a.entries[id]
	a.mu.Unlock()
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pins > 0 {
		e.pins--
	}
	if e.pins > 0 || !e.dirty || e.state == nil {
		return nil
	}
	if err := a.persist(ctx, e.state); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

// Flush writes every dirty account and evicts the unpinned ones.
func (a *Accounts) Flush(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error
	for id, e := range a.entries {
		e.mu.Lock()
		if e.dirty && e.state != nil {
			if err := a.persist(ctx, e.state); err != nil {
				errs = append(errs, err)
				e.mu.Unlock()
				continue
			}
			e.dirty = false
		}
		if e.pins == 0 {
			e.evicted = true
			delete(a.entries, id)
		}
		e.mu.Unlock()
	}
	if len(errs) > 0 {
		a.log.Warn("flush failed", zap.Int("accounts", len(errs)), zap.Error(errors.Join(errs...)))
	}
	return errors.Join(errs...)
}

// Cached reports how many accounts are held in memory.
func (a *Accounts) Cached() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
