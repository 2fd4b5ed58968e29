package combat

import (
	"pokeidle/server/gamedata"
	"pokeidle/shared/game/types"
)

// mockDex is a fully scripted Dex.
type mockDex struct {
	types      map[string]types.PokemonType
	eff        map[[2]types.PokemonType]float64
	stage      map[string]float64
	rarity     map[string]float64
	zones      map[[2]int]*gamedata.Zone
	levelEvos  map[string]gamedata.Evolution
	typeOfCall []string
}

func newMockDex() *mockDex {
	return &mockDex{
		types:     map[string]types.PokemonType{},
		eff:       map[[2]types.PokemonType]float64{},
		stage:     map[string]float64{},
		rarity:    map[string]float64{},
		zones:     map[[2]int]*gamedata.Zone{},
		levelEvos: map[string]gamedata.Evolution{},
	}
}

func (m *mockDex) TypeOf(slug string) types.PokemonType {
	m.typeOfCall = append(m.typeOfCall, slug)
	if t, ok := m.types[slug]; ok {
		return t
	}
	return types.TypeNormal
}

func (m *mockDex) Effectiveness(att, def types.PokemonType) float64 {
	if v, ok := m.eff[[2]types.PokemonType{att, def}]; ok {
		return v
	}
	return 1
}

func (m *mockDex) StageMult(slug string) float64 {
	if v, ok := m.stage[slug]; ok {
		return v
	}
	return 1
}

func (m *mockDex) RarityMult(slug string) float64 {
	if v, ok := m.rarity[slug]; ok {
		return v
	}
	return 1
}

func (m *mockDex) StarMult(stars int, shiny bool) float64 {
	normal := []float64{1, 1, 1.1, 1.2, 1.3, 1.5}
	sh := []float64{1, 1, 1.5, 2, 3, 5}
	stars = min(stars, 5)
	if shiny {
		return sh[stars]
	}
	return normal[stars]
}

func (m *mockDex) Zone(gen, zone int) (*gamedata.Zone, bool) {
	z, ok := m.zones[[2]int{gen, zone}]
	return z, ok
}

func (m *mockDex) LevelEvolution(slug string, level int) (gamedata.Evolution, bool) {
	e, ok := m.levelEvos[slug]
	if !ok || level < e.Level {
		return gamedata.Evolution{}, false
	}
	return e, true
}

func (m *mockDex) SpriteURL(slug string) string        { return "sprite/" + slug }
func (m *mockDex) TrainerSpriteURL(slug string) string { return "trainer/" + slug }

// fixedRNG always returns the same value.
type fixedRNG float64

func (f fixedRNG) Float64() float64 { return float64(f) }

func testZone() *gamedata.Zone {
	return &gamedata.Zone{
		ID: 1,
		Wild: []gamedata.WildPokemon{
			{Slug: "pidgey", NameFr: "Roucool", NameEn: "Pidgey", BaseHP: 40},
			{Slug: "caterpie", NameFr: "Chenipan", NameEn: "Caterpie", BaseHP: 25},
		},
		Boss: gamedata.Boss{
			Slug: "brock", NameFr: "Pierre", NameEn: "Brock", TimerSeconds: 30,
			Team: []gamedata.BossPokemon{{Slug: "geodude", Level: 12}, {Slug: "onix", Level: 14}},
		},
	}
}
