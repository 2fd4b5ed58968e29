package combat

import (
	"sync"

	"pokeidle/server/evolution"
	"pokeidle/server/gamedata"
	"pokeidle/server/species"
	"pokeidle/shared/game/types"
)

// Dex answers every data question combat needs.
type Dex interface {
	TypeOf(slug string) types.PokemonType
	Effectiveness(att, def types.PokemonType) float64
	StageMult(slug string) float64
	RarityMult(slug string) float64
	StarMult(stars int, shiny bool) float64
	Zone(gen, zone int) (*gamedata.Zone, bool)
	LevelEvolution(slug string, level int) (gamedata.Evolution, bool)
	SpriteURL(slug string) string
	TrainerSpriteURL(slug string) string
}

// TypeResolver resolves a species' primary type, usually from the catalog.
type TypeResolver interface {
	TypeOf(slug string) types.PokemonType
}

// GameDex is the Dex backed by one game data snapshot.
type GameDex struct {
	Data  *gamedata.Data
	Rules *evolution.Rules
	Types TypeResolver
}

func NewGameDex(d *gamedata.Data, tr TypeResolver) *GameDex {
	return &GameDex{Data: d, Rules: evolution.NewRules(d), Types: tr}
}

func (g *GameDex) TypeOf(slug string) types.PokemonType {
	if g.Types != nil {
		return g.Types.TypeOf(slug)
	}
	return g.Data.TypeOf(slug)
}

func (g *GameDex) Effectiveness(att, def types.PokemonType) float64 {
	return g.Data.Effectiveness(att, def)
}

func (g *GameDex) StageMult(slug string) float64 { return g.Rules.StageMult(slug) }

func (g *GameDex) RarityMult(slug string) float64 {
	return g.Data.RarityDpsMult(g.Data.RarityOf(slug))
}

func (g *GameDex) StarMult(stars int, shiny bool) float64 { return g.Data.StarDpsMult(stars, shiny) }

func (g *GameDex) Zone(gen, zone int) (*gamedata.Zone, bool) { return g.Data.Zone(gen, zone) }

func (g *GameDex) LevelEvolution(slug string, level int) (gamedata.Evolution, bool) {
	return g.Rules.CanEvolveByLevel(slug, level)
}

func (g *GameDex) SpriteURL(slug string) string { return species.SpriteURL(slug) }

func (g *GameDex) TrainerSpriteURL(slug string) string { return species.TrainerSpriteURL(slug) }

// DexSource hands out a GameDex for the registry's current snapshot and
// rebuilds it only when the snapshot changes.
type DexSource struct {
	reg   *gamedata.Registry
	types TypeResolver

	mu   sync.Mutex
	data *gamedata.Data
	dex  *GameDex
}

func NewDexSource(reg *gamedata.Registry, tr TypeResolver) *DexSource {
	return &DexSource{reg: reg, types: tr}
}

func (s *DexSource) Dex() Dex {
	cur := s.reg.Current()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dex == nil || s.data != cur {
		s.data = cur
		s.dex = NewGameDex(cur, s.types)
	}
	return s.dex
}

// Rules exposes the evolution rules of the current snapshot.
func (s *DexSource) Rules() *evolution.Rules {
	s.Dex()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dex.Rules
}
