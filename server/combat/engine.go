package combat

import (
	"pokeidle/server/currency"
	"pokeidle/server/daycare"
	"pokeidle/server/evolution"
	"pokeidle/server/gacha"
	"pokeidle/server/gamedata"
	"pokeidle/server/inventory"
	"pokeidle/server/metrics"
	"pokeidle/server/progression"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

// Engine applies the combat rules to a player's live state. It holds no
// player state itself; callers serialise access per account.
type Engine struct {
	dex func() Dex
	rng gacha.RandomSource
}

func NewEngine(dex func() Dex, rng gacha.RandomSource) *Engine {
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	return &Engine{dex: dex, rng: rng}
}

func (e *Engine) Dex() Dex { return e.dex() }

func (e *Engine) Spawn(p *types.Player) *Enemy { return Spawn(e.dex(), p, e.rng) }

// Outcome describes everything a kill changed.
type Outcome struct {
	Gold           int64
	XP             int64
	WasBoss        bool
	PlayerLevelUps int
	PokemonLevels  map[string]int
	Evolutions     []protocol.EvolutionEvent
	StageAdvanced  bool
	BadgeEarned    bool
}

// TickResult is the effect of one team damage tick.
type TickResult struct {
	Damage  int64
	Hatched []protocol.HatchEvent
	Kill    *Outcome
}

// TeamDPS is the team's effective damage against the current enemy.
func (e *Engine) TeamDPS(p *types.Player, col *inventory.Collection, b *Battle) int64 {
	var enemyType types.PokemonType
	if b.Enemy != nil {
		enemyType = b.Enemy.Type
	}
	return TeamDPS(e.dex(), col.Team(), enemyType, p.TeamDpsBonus)
}

// Click hits the enemy with the player's click damage and resolves a kill.
func (e *Engine) Click(p *types.Player, col *inventory.Collection, b *Battle) (int64, *Outcome) {
	dealt := b.Click(p.ClickDamage)
	if dealt == 0 || !b.IsEnemyDead() {
		return dealt, nil
	}
	return dealt, e.Resolve(p, col, b)
}

// Tick deals one second of team damage, feeds the daycare and hatches
// whatever is ready.
func (e *Engine) Tick(p *types.Player, col *inventory.Collection, b *Battle) TickResult {
	var res TickResult
	dps := e.TeamDPS(p, col, b)
	if dps <= 0 {
		return res
	}
	res.Damage = b.AutoTick(dps)
	if res.Damage == 0 {
		return res
	}
	// the daycare counts the full team output, overkill included
	daycare.AddDamage(p, dps)
	res.Hatched = e.Hatch(p, col)
	if b.IsEnemyDead() {
		res.Kill = e.Resolve(p, col, b)
	}
	return res
}

// Hatch moves ready daycare eggs into the collection.
func (e *Engine) Hatch(p *types.Player, col *inventory.Collection) []protocol.HatchEvent {
	var out []protocol.HatchEvent
	for _, h := range daycare.CollectHatched(p, e.rng) {
		pk, isNew := col.Add(inventory.Species{
			Slug:    h.Slot.Slug,
			NameFr:  h.Slot.NameFr,
			NameEn:  h.Slot.NameEn,
			Rarity:  h.Slot.Rarity,
			IsShiny: h.IsShiny,
		})
		if h.IsShiny {
			metrics.ShinyPulls.Inc()
		}
		out = append(out, protocol.HatchEvent{Pokemon: *pk, IsShiny: h.IsShiny, IsNew: isNew})
	}
	return out
}

// Resolve grants the rewards of a dead enemy, levels the team, and moves
// the player along the stages.
func (e *Engine) Resolve(p *types.Player, col *inventory.Collection, b *Battle) *Outcome {
	if !b.IsEnemyDead() {
		return nil
	}
	enemy := b.Enemy
	dex := e.dex()
	out := &Outcome{
		Gold:          enemy.GoldReward,
		XP:            enemy.XPReward,
		WasBoss:       enemy.IsBoss,
		PokemonLevels: map[string]int{},
	}
	if enemy.GoldReward > 0 {
		_ = currency.Grant(p, currency.Gold, enemy.GoldReward)
	}
	out.PlayerLevelUps = progression.AddXP(p, enemy.XPReward)

	if team := col.Team(); len(team) > 0 {
		share := max(1, enemy.XPReward/int64(len(team)))
		for _, pk := range team {
			ups := progression.AddPokemonXP(pk, share)
			if ups == 0 {
				continue
			}
			out.PokemonLevels[pk.ID] = pk.Level
			out.Evolutions = append(out.Evolutions, evolveByLevel(dex, pk)...)
		}
	}

	b.Kill()
	kind := "wild"
	zoneBefore := p.CurrentZone
	if enemy.IsBoss {
		kind = "boss"
		out.BadgeEarned = progression.AdvanceStage(p)
		out.StageAdvanced = true
	} else {
		out.StageAdvanced = progression.AddStageKill(p)
		out.BadgeEarned = p.CurrentZone != zoneBefore
	}
	if out.BadgeEarned {
		progression.RecomputeClickDamage(p)
	}
	metrics.EnemiesDefeated.WithLabelValues(kind).Inc()
	return out
}

// evolveByLevel applies every level evolution the Pokémon now qualifies
// for, so a big level jump can walk a whole chain.
func evolveByLevel(dex Dex, pk *types.OwnedPokemon) []protocol.EvolutionEvent {
	var events []protocol.EvolutionEvent
	for i := 0; i < 3; i++ {
		evo, ok := dex.LevelEvolution(pk.Slug, pk.Level)
		if !ok {
			break
		}
		from := pk.Slug
		evolution.Apply(pk, evo)
		metrics.Evolutions.WithLabelValues(gamedata.MethodLevel).Inc()
		events = append(events, protocol.EvolutionEvent{PokemonID: pk.ID, From: from, To: evo.To, Method: evo.Method})
	}
	return events
}
