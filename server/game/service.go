package game

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"pokeidle/server/account"
	"pokeidle/server/afk"
	"pokeidle/server/combat"
	"pokeidle/server/currency"
	"pokeidle/server/daycare"
	"pokeidle/server/evolution"
	"pokeidle/server/gacha"
	"pokeidle/server/gamedata"
	"pokeidle/server/httpx"
	"pokeidle/server/inventory"
	"pokeidle/server/metrics"
	"pokeidle/server/shop"
	"pokeidle/server/species"
	"pokeidle/server/store"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

const MaxPullsPerRequest = 10

type Deps struct {
	Accounts *account.Accounts
	Store    store.Store
	Catalog  *species.Catalog
	Registry *gamedata.Registry
	Dex      *combat.DexSource
	Ledger   *currency.Ledger
	RNG      gacha.RandomSource
	Log      *zap.Logger
}

// Service runs every server-authoritative REST action against the account
// cache.
type Service struct {
	accounts *account.Accounts
	store    store.Store
	catalog  *species.Catalog
	reg      *gamedata.Registry
	dex      *combat.DexSource
	shop     *shop.Service
	ledger   *currency.Ledger
	rng      gacha.RandomSource
	log      *zap.Logger
	now      func() time.Time
}

func New(d Deps) *Service {
	rng := d.RNG
	if rng == nil {
		rng = gacha.DefaultRNG()
	}
	ledger := d.Ledger
	if ledger == nil {
		ledger = currency.NewLedger(10 * time.Minute)
	}
	return &Service{
		accounts: d.Accounts,
		store:    d.Store,
		catalog:  d.Catalog,
		reg:      d.Registry,
		dex:      d.Dex,
		shop:     shop.NewService(d.Registry),
		ledger:   ledger,
		rng:      rng,
		log:      d.Log.Named("game"),
		now:      time.Now,
	}
}

func (s *Service) Ledger() *currency.Ledger { return s.ledger }

func (s *Service) rules() *evolution.Rules { return s.dex.Rules() }

// Load returns the player's state and grants the offline reward due since
// the last load or save.
func (s *Service) Load(ctx context.Context, userID int64) (protocol.LoadStateResponse, error) {
	var resp protocol.LoadStateResponse
	now := s.now()
	err := s.accounts.Update(ctx, userID, func(st *account.State) error {
		p := st.Player()
		reward := afk.Compute(now, st.User.LastLoginAt, st.Collection.TeamDPS(), p.Level)
		if reward != nil && reward.GoldEarned > 0 {
			if err := currency.Grant(p, currency.Gold, reward.GoldEarned); err != nil {
				return err
			}
			metrics.AfkGold.Add(float64(reward.GoldEarned))
			s.log.Info("afk reward granted",
				zap.Int64("user_id", userID),
				zap.Int64("gold", reward.GoldEarned),
				zap.Float64("hours", reward.HoursAway))
		}
		t := now.UTC()
		st.User.LastLoginAt = &t
		st.UpdateTimestamps(account.SectionPlayer)

		resp = protocol.LoadStateResponse{
			Player:    st.View(),
			Pokemons:  st.PokemonsCopy(),
			AfkReward: reward,
		}
		return nil
	})
	return resp, err
}

// Save overwrites the player's progression with a client snapshot.
func (s *Service) Save(ctx context.Context, userID int64, req protocol.SaveStateRequest) error {
	if err := validateSave(&req); err != nil {
		return err
	}
	now := s.now().UTC()
	return s.accounts.Update(ctx, userID, func(st *account.State) error {
		if !st.ValidateUpdateTime(account.SectionPlayer, req.ClientTime) {
			s.log.Warn("stale save rejected", zap.Int64("user_id", userID), zap.Int64("client_time", req.ClientTime))
			return ErrStaleSave
		}
		p := st.Player()
		p.Gold = req.Gold
		p.Gems = req.Gems
		p.XP = req.XP
		p.Level = req.Level
		p.CurrentGeneration = req.CurrentGeneration
		p.CurrentZone = req.CurrentZone
		if p.CurrentStage != req.CurrentStage {
			p.StageKills = 0
		}
		p.CurrentStage = req.CurrentStage
		p.ClickDamage = req.ClickDamage
		p.Badges = req.Badges
		if req.Candies != nil {
			p.Candies = *req.Candies
		}
		if req.Daycare != nil {
			p.Daycare = append([]types.DaycareSlot{}, (*req.Daycare)...)
		}
		st.User.LastLoginAt = &now
		st.UpdateTimestamps(account.SectionPlayer)
		return nil
	})
}

// SavePokemons replaces the whole collection with a client snapshot.
func (s *Service) SavePokemons(ctx context.Context, userID int64, req protocol.SavePokemonsRequest) error {
	list, err := s.buildCollection(ctx, req.Pokemons)
	if err != nil {
		return err
	}
	return s.accounts.Update(ctx, userID, func(st *account.State) error {
		st.Collection.Pokemons = list
		st.TouchPokemons()
		return nil
	})
}

// Pull spends the banner price and adds the rolled Pokémon to the collection.
// A nonce makes the request idempotent.
func (s *Service) Pull(ctx context.Context, userID int64, req protocol.PullRequest) (protocol.PullResponse, error) {
	var resp protocol.PullResponse
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 1 || req.Count > MaxPullsPerRequest {
		return resp, httpx.Invalid("count", "must be between 1 and %d", MaxPullsPerRequest)
	}
	kind, err := currency.ParseKind(req.Currency)
	if err != nil {
		return resp, err
	}
	d := s.reg.Current()
	banner, ok := d.Banner(req.BannerID)
	if !ok {
		return resp, ErrBannerNotFound
	}
	if err := s.ledger.Claim(userID, req.Nonce); err != nil {
		return resp, err
	}

	err = s.accounts.Update(ctx, userID, func(st *account.State) error {
		p := st.Player()
		if err := currency.Spend(p, kind, gacha.Cost(banner, req.Count, kind == currency.Gems)); err != nil {
			return err
		}
		for _, r := range gacha.PullMany(banner, d, req.Count, s.rng) {
			pk, isNew := st.Collection.Add(inventory.Species{
				SpeciesID: s.catalog.SpeciesID(r.Entry.Slug),
				Slug:      r.Entry.Slug,
				NameFr:    r.Entry.NameFr,
				NameEn:    r.Entry.NameEn,
				Rarity:    r.Rarity,
				IsShiny:   r.IsShiny,
			})
			metrics.GachaPulls.WithLabelValues(banner.ID, r.Rarity.String()).Inc()
			if r.IsShiny {
				metrics.ShinyPulls.Inc()
			}
			resp.Results = append(resp.Results, protocol.PulledPokemon{Pokemon: clonePokemon(*pk), IsNew: isNew, IsShiny: r.IsShiny})
		}
		st.TouchPokemons()
		st.UpdateTimestamps(account.SectionPlayer)
		resp.Gold, resp.Gems = p.Gold, p.Gems
		return nil
	})
	if err != nil {
		s.ledger.Release(userID, req.Nonce)
		return protocol.PullResponse{}, err
	}
	return resp, nil
}

// Evolve applies a level evolution, or an item evolution when ItemID is set.
func (s *Service) Evolve(ctx context.Context, userID int64, req protocol.EvolveRequest) (protocol.EvolveResponse, error) {
	var resp protocol.EvolveResponse
	rules := s.rules()
	err := s.accounts.Update(ctx, userID, func(st *account.State) error {
		pk, err := st.Collection.Find(req.PokemonID)
		if err != nil {
			return ErrPokemonNotFound
		}
		p := st.Player()
		var evo gamedata.Evolution
		if req.ItemID != "" {
			e, ok := rules.CanEvolveByItem(pk.Slug, req.ItemID)
			if !ok || !rules.ItemApplicable(req.ItemID, pk.Slug) {
				return ErrCannotEvolve
			}
			if p.Items[req.ItemID] <= 0 {
				return ErrItemMissing
			}
			p.Items[req.ItemID]--
			if p.Items[req.ItemID] == 0 {
				delete(p.Items, req.ItemID)
			}
			evo = e
		} else {
			e, ok := rules.CanEvolveByLevel(pk.Slug, pk.Level)
			if !ok {
				return ErrCannotEvolve
			}
			evo = e
		}
		from := pk.Slug
		evolution.Apply(pk, evo)
		pk.SpeciesID = s.catalog.SpeciesID(pk.Slug)
		metrics.Evolutions.WithLabelValues(evo.Method).Inc()
		st.TouchPokemons()
		st.UpdateTimestamps(account.SectionPlayer)

		resp = protocol.EvolveResponse{
			Evolution: protocol.EvolutionEvent{PokemonID: pk.ID, From: from, To: evo.To, Method: evo.Method},
			Pokemon:   clonePokemon(*pk),
		}
		return nil
	})
	return resp, err
}

func teamErr(err error) error {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return ErrPokemonNotFound
	case errors.Is(err, inventory.ErrInvalidSlot):
		return httpx.Invalid("slot", "%s", err.Error())
	}
	return err
}

func (s *Service) SetTeamSlot(ctx context.Context, userID int64, req protocol.TeamSlotRequest) (protocol.TeamResponse, error) {
	var resp protocol.TeamResponse
	err := s.accounts.Update(ctx, userID, func(st *account.State) error {
		if err := st.Collection.SetTeamSlot(req.PokemonID, req.Slot); err != nil {
			return teamErr(err)
		}
		st.TouchPokemons()
		resp.Team = st.Collection.TeamCopy()
		return nil
	})
	return resp, err
}

func (s *Service) RemoveFromTeam(ctx context.Context, userID int64, pokemonID string) (protocol.TeamResponse, error) {
	var resp protocol.TeamResponse
	err := s.accounts.Update(ctx, userID, func(st *account.State) error {
		if err := st.Collection.RemoveFromTeam(pokemonID); err != nil {
			return teamErr(err)
		}
		st.TouchPokemons()
		resp.Team = st.Collection.TeamCopy()
		return nil
	})
	return resp, err
}

func daycareResponse(p *types.Player) protocol.DaycareResponse {
	return protocol.DaycareResponse{Slots: append([]types.DaycareSlot{}, p.Daycare...), Gold: p.Gold}
}

func (s *Service) DaycareDeposit(ctx context.Context, userID int64, pokemonID string) (protocol.DaycareResponse, error) {
	var resp protocol.DaycareResponse
	err := s.accounts.Update(ctx, userID, func(st *account.State) error {
		pk, err := st.Collection.Find(pokemonID)
		if err != nil {
			return ErrPokemonNotFound
		}
		p := st.Player()
		switch err := daycare.Deposit(p, pk); {
		case errors.Is(err, daycare.ErrFull):
			return ErrDaycareFull
		case errors.Is(err, daycare.ErrDuplicate):
			return ErrDaycareDuplicate
		case err != nil:
			return err
		}
		st.UpdateTimestamps(account.SectionPlayer)
		resp = daycareResponse(p)
		return nil
	})
	return resp, err
}

// DaycareRemove drops a slot; an out of range index leaves the daycare as is.
func (s *Service) DaycareRemove(ctx context.Context, userID int64, index int) (protocol.DaycareResponse, error) {
	var resp protocol.DaycareResponse
	err := s.accounts.Update(ctx, userID, func(st *account.State) error {
		p := st.Player()
		if daycare.Remove(p, index) {
			st.UpdateTimestamps(account.SectionPlayer)
		}
		resp = daycareResponse(p)
		return nil
	})
	return resp, err
}

func (s *Service) Shop(ctx context.Context, userID int64) (protocol.ShopResponse, error) {
	var resp protocol.ShopResponse
	err := s.accounts.View(ctx, userID, func(st *account.State) {
		resp = s.shop.View(st.Player())
	})
	return resp, err
}

func (s *Service) BuyItem(ctx context.Context, userID int64, req protocol.BuyItemRequest) (protocol.ShopResponse, error) {
	var resp protocol.ShopResponse
	if req.Qty == 0 {
		req.Qty = 1
	}
	err := s.accounts.Update(ctx, userID, func(st *account.State) error {
		if err := s.shop.BuyItem(st.Player(), req.ItemID, req.Qty); err != nil {
			return err
		}
		st.UpdateTimestamps(account.SectionPlayer)
		resp = s.shop.View(st.Player())
		return nil
	})
	return resp, err
}

func (s *Service) BuyUpgrade(ctx context.Context, userID int64, req protocol.BuyUpgradeRequest) (protocol.ShopResponse, error) {
	var resp protocol.ShopResponse
	err := s.accounts.Update(ctx, userID, func(st *account.State) error {
		if err := shop.BuyUpgrade(st.Player(), req.Kind); err != nil {
			return err
		}
		st.UpdateTimestamps(account.SectionPlayer)
		resp = s.shop.View(st.Player())
		return nil
	})
	return resp, err
}

func (s *Service) Banners() []gamedata.Banner {
	return s.reg.Current().Gacha.Banners
}

func (s *Service) Zones(gen int) (*gamedata.Generation, error) {
	g, ok := s.reg.Current().Generation(gen)
	if !ok {
		return nil, ErrGenerationNotFound
	}
	return g, nil
}

func (s *Service) Trainers(ctx context.Context, gen int) ([]store.Trainer, error) {
	return s.store.ListTrainers(ctx, gen)
}

func (s *Service) Pokedex(ctx context.Context) ([]store.Species, error) {
	return s.catalog.Pokedex(ctx)
}

func clonePokemon(pk types.OwnedPokemon) types.OwnedPokemon {
	if pk.TeamSlot != nil {
		pk.TeamSlot = types.SlotPtr(*pk.TeamSlot)
	}
	return pk
}
