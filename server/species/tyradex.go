package species

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"pokeidle/server/store"
)

const DefaultTyradexURL = "https://tyradex.vercel.app/api/v1"

// MaxGeneration is the last generation the API serves.
const MaxGeneration = 9

type Tyradex struct {
	BaseURL string
	HTTP    *http.Client
}

func NewTyradex(baseURL string) *Tyradex {
	if baseURL == "" {
		baseURL = DefaultTyradexURL
	}
	return &Tyradex{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{Timeout: 30 * time.Second}}
}

// FetchGeneration downloads one generation and maps it to catalog rows.
func (t *Tyradex) FetchGeneration(ctx context.Context, gen int) ([]store.Species, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/gen/%d", t.BaseURL, gen), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := t.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tyradex gen %d: %w", gen, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tyradex gen %d: HTTP %d", gen, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tyradex gen %d: %w", gen, err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("tyradex gen %d: invalid json", gen)
	}
	return ParseGeneration(body, gen), nil
}

// ParseGeneration maps a Tyradex generation payload. Entries without a
// pokedex id are skipped.
func ParseGeneration(body []byte, gen int) []store.Species {
	var out []store.Species
	gjson.ParseBytes(body).ForEach(func(_, p gjson.Result) bool {
		id := p.Get("pokedex_id").Int()
		if id == 0 {
			return true
		}
		sp := store.Species{
			TyradexID:  int(id),
			NameFr:     p.Get("name.fr").String(),
			NameEn:     p.Get("name.en").String(),
			Type1:      "Normal",
			Generation: gen,
			BaseStats: store.BaseStats{
				HP:     int(p.Get("stats.hp").Int()),
				Atk:    int(p.Get("stats.atk").Int()),
				Def:    int(p.Get("stats.def").Int()),
				SpeAtk: int(p.Get("stats.spe_atk").Int()),
				SpeDef: int(p.Get("stats.spe_def").Int()),
				Speed:  int(p.Get("stats.vit").Int()),
			},
			SpriteRegular: p.Get("sprites.regular").String(),
			SpriteShiny:   p.Get("sprites.shiny").String(),
		}
		if g := p.Get("generation"); g.Exists() && g.Int() > 0 {
			sp.Generation = int(g.Int())
		}
		if t := p.Get("types.0.name"); t.Exists() && t.String() != "" {
			sp.Type1 = t.String()
		}
		sp.Type2 = p.Get("types.1.name").String()
		if fam := p.Get("evolution"); fam.Exists() && fam.Type != gjson.Null {
			sp.EvolutionFamily = fam.Raw
		}
		sp.Slug = ToShowdownSlug(sp.NameEn)
		out = append(out, sp)
		return true
	})
	return out
}

// Seeder writes Tyradex generations into the store.
type Seeder struct {
	API   *Tyradex
	Store store.Store
	Log   *zap.Logger
}

// Seed upserts one generation and returns how many species were written.
// Generations outside 1..9 are skipped with a warning.
func (s *Seeder) Seed(ctx context.Context, gen int) (int, error) {
	if gen < 1 || gen > MaxGeneration {
		s.Log.Warn("invalid generation, skipping", zap.Int("generation", gen))
		return 0, nil
	}
	s.Log.Info("fetching generation", zap.Int("generation", gen))
	list, err := s.API.FetchGeneration(ctx, gen)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range list {
		if err := s.Store.UpsertSpecies(ctx, &list[i]); err != nil {
			return n, fmt.Errorf("upsert %s: %w", list[i].Slug, err)
		}
		n++
	}
	s.Log.Info("generation seeded", zap.Int("generation", gen), zap.Int("species", n))
	return n, nil
}
