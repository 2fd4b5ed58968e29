package game

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pokeidle/server/account"
	"pokeidle/server/auth"
	"pokeidle/server/combat"
	"pokeidle/server/currency"
	"pokeidle/server/gacha"
	"pokeidle/server/gamedata"
	"pokeidle/server/httpx"
	"pokeidle/server/inventory"
	"pokeidle/server/species"
	"pokeidle/server/store"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

type harness struct {
	e        *echo.Echo
	svc      *Service
	accounts *account.Accounts
	store    *store.SQLStore
	userID   int64
	token    string
}

func newHarness(t *testing.T, setup func(p *types.Player)) *harness {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	log := zap.NewNop()

	st, err := store.Open(ctx, store.DriverSQLite, filepath.Join(dir, "game.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	p := types.NewPlayer()
	if setup != nil {
		setup(&p)
	}
	u := &store.User{Username: "misty", Email: "misty@cerulean.gym", PasswordHash: "x", Player: p}
	require.NoError(t, st.CreateUser(ctx, u))

	d, err := gamedata.Load("")
	require.NoError(t, err)
	reg := gamedata.Static(d)
	accounts := account.New(st, log)
	catalog := species.NewCatalog(st, reg, log)

	authSvc, err := auth.New(auth.Options{Store: st, Accounts: accounts, DataDir: dir, TTL: time.Hour, Log: log})
	require.NoError(t, err)
	tok, err := authSvc.IssueToken(u.ID)
	require.NoError(t, err)

	svc := New(Deps{
		Accounts: accounts,
		Store:    st,
		Catalog:  catalog,
		Registry: reg,
		Dex:      combat.NewDexSource(reg, catalog),
		RNG:      gacha.NewSeededRNG(7),
		Log:      log,
	})
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	svc.Routes(e, authSvc.Middleware())

	return &harness{e: e, svc: svc, accounts: accounts, store: st, userID: u.ID, token: tok}
}

func (h *harness) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+h.token)
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// give adds a Pokémon straight into the cached collection.
func (h *harness) give(t *testing.T, slug string, level int) string {
	t.Helper()
	var id string
	err := h.accounts.Update(context.Background(), h.userID, func(st *account.State) error {
		pk, _ := st.Collection.Add(inventory.Species{Slug: slug, NameFr: slug, NameEn: slug, Rarity: types.RarityCommon})
		pk.Level = level
		st.TouchPokemons()
		id = pk.ID
		return nil
	})
	require.NoError(t, err)
	return id
}

func TestRequiresToken(t *testing.T) {
	h := newHarness(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/game/load", nil)
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestIndex(t *testing.T) {
	h := newHarness(t, nil)
	rec := h.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","name":"Poke-Idle Legacy API"}`, rec.Body.String())
}

func TestLoadAndSave(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(t, http.MethodGet, "/game/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	loaded := decode[protocol.LoadStateResponse](t, rec)
	assert.Equal(t, 1, loaded.Player.Level)
	assert.Empty(t, loaded.Pokemons)
	assert.Nil(t, loaded.AfkReward)

	rec = h.do(t, http.MethodPost, "/game/save", protocol.SaveStateRequest{
		Gold: 500, Gems: 3, Level: 4, XP: 700,
		CurrentGeneration: 1, CurrentZone: 2, CurrentStage: 5, ClickDamage: 6, Badges: 1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Game state saved", decode[protocol.MessageResponse](t, rec).Message)

	u, err := h.store.UserByID(context.Background(), h.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), u.Player.Gold)
	assert.Equal(t, 2, u.Player.CurrentZone)
	assert.Equal(t, 5, u.Player.CurrentStage)
	assert.NotNil(t, u.LastLoginAt)
}

func TestLoadGrantsAfkReward(t *testing.T) {
	cases := []struct {
		name    string
		away    time.Duration
		hours   float64
		enemies int64
		gold    int64
	}{
		// team dps floor(10*1.25)=12 -> 864 enemies per hour, 5 gold each at level 1
		{"two hours", 2 * time.Hour, 2, 1_728, 8_640},
		{"capped at a day", 30 * time.Hour, 24, 20_736, 103_680},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, func(p *types.Player) { p.Gold = 100 })
			now := time.Unix(1_700_000_000, 0).UTC()
			h.svc.now = func() time.Time { return now }
			h.give(t, "pikachu", 10)
			require.NoError(t, h.accounts.Update(context.Background(), h.userID, func(st *account.State) error {
				last := now.Add(-tc.away)
				st.User.LastLoginAt = &last
				return nil
			}))

			rec := h.do(t, http.MethodGet, "/game/load", nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			loaded := decode[protocol.LoadStateResponse](t, rec)
			require.NotNil(t, loaded.AfkReward)
			assert.InDelta(t, tc.hours, loaded.AfkReward.HoursAway, 1e-9)
			assert.Equal(t, tc.enemies, loaded.AfkReward.EnemiesDefeated)
			assert.Equal(t, tc.gold, loaded.AfkReward.GoldEarned)
			assert.Equal(t, 100+tc.gold, loaded.Player.Gold)

			u, err := h.store.UserByID(context.Background(), h.userID)
			require.NoError(t, err)
			assert.Equal(t, 100+tc.gold, u.Player.Gold)
			require.NotNil(t, u.LastLoginAt)
			assert.True(t, now.Equal(*u.LastLoginAt))

			// the clock restarted, so an immediate reload pays nothing
			rec = h.do(t, http.MethodGet, "/game/load", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Nil(t, decode[protocol.LoadStateResponse](t, rec).AfkReward)
		})
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(t, http.MethodPost, "/game/save", protocol.SaveStateRequest{Gold: -1, Level: 1, CurrentGeneration: 1, CurrentZone: 1, CurrentStage: 1, ClickDamage: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	h.do(t, http.MethodGet, "/game/load", nil)
	rec = h.do(t, http.MethodPost, "/game/save", protocol.SaveStateRequest{
		Level: 1, CurrentGeneration: 1, CurrentZone: 1, CurrentStage: 1, ClickDamage: 1, ClientTime: 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPull(t *testing.T) {
	h := newHarness(t, func(p *types.Player) { p.Gold = 1000 })

	rec := h.do(t, http.MethodPost, "/game/gacha/pull", protocol.PullRequest{BannerID: "kanto", Count: 2, Nonce: "n-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[protocol.PullResponse](t, rec)
	assert.Len(t, resp.Results, 2)
	assert.Equal(t, int64(800), resp.Gold)
	for _, r := range resp.Results {
		assert.NotEmpty(t, r.Pokemon.ID)
		assert.NotEmpty(t, r.Pokemon.Slug)
	}

	rec = h.do(t, http.MethodPost, "/game/gacha/pull", protocol.PullRequest{BannerID: "kanto", Count: 2, Nonce: "n-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodPost, "/game/gacha/pull", protocol.PullRequest{BannerID: "nowhere"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPost, "/game/gacha/pull", protocol.PullRequest{BannerID: "kanto", Count: 11})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/game/gacha/pull", protocol.PullRequest{BannerID: "kanto", Count: 10, Nonce: "n-2"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	// The failed spend released its nonce.
	require.NoError(t, h.accounts.Update(context.Background(), h.userID, func(st *account.State) error {
		st.Player().Gold = 5000
		return nil
	}))
	rec = h.do(t, http.MethodPost, "/game/gacha/pull", protocol.PullRequest{BannerID: "kanto", Count: 10, Nonce: "n-2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	list, err := h.store.ListPokemons(context.Background(), h.userID)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}

func TestEvolveByItemAndLevel(t *testing.T) {
	h := newHarness(t, func(p *types.Player) { p.Items["thunder-stone"] = 1 })
	pika := h.give(t, "pikachu", 5)
	charm := h.give(t, "charmander", 15)

	rec := h.do(t, http.MethodPost, "/game/evolve", protocol.EvolveRequest{PokemonID: pika, ItemID: "thunder-stone"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	evo := decode[protocol.EvolveResponse](t, rec)
	assert.Equal(t, "pikachu", evo.Evolution.From)
	assert.Equal(t, "raichu", evo.Pokemon.Slug)

	rec = h.do(t, http.MethodPost, "/game/evolve", protocol.EvolveRequest{PokemonID: charm})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/game/evolve", protocol.EvolveRequest{PokemonID: "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var items map[string]int
	require.NoError(t, h.accounts.View(context.Background(), h.userID, func(st *account.State) {
		items = st.Player().Items
	}))
	assert.NotContains(t, items, "thunder-stone")
}

func TestTeamRoutes(t *testing.T) {
	h := newHarness(t, nil)
	a := h.give(t, "bulbasaur", 5)
	b := h.give(t, "squirtle", 5)

	rec := h.do(t, http.MethodDelete, "/game/team/"+a, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	team := decode[protocol.TeamResponse](t, rec).Team
	require.Len(t, team, 1)
	assert.Equal(t, b, team[0].ID)

	rec = h.do(t, http.MethodPost, "/game/team", protocol.TeamSlotRequest{PokemonID: a, Slot: types.SlotPtr(3)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[protocol.TeamResponse](t, rec).Team, 2)

	rec = h.do(t, http.MethodPost, "/game/team", protocol.TeamSlotRequest{PokemonID: a, Slot: types.SlotPtr(9)})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodDelete, "/game/team/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDaycareRoutes(t *testing.T) {
	h := newHarness(t, func(p *types.Player) { p.Gold = 600 })
	id := h.give(t, "eevee", 10)

	rec := h.do(t, http.MethodPost, "/game/daycare", protocol.DaycareDepositRequest{PokemonID: id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dc := decode[protocol.DaycareResponse](t, rec)
	require.Len(t, dc.Slots, 1)
	assert.Equal(t, "eevee", dc.Slots[0].Slug)
	assert.Equal(t, int64(100), dc.Gold)

	rec = h.do(t, http.MethodPost, "/game/daycare", protocol.DaycareDepositRequest{PokemonID: id})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(t, http.MethodDelete, "/game/daycare/4", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[protocol.DaycareResponse](t, rec).Slots, 1)

	rec = h.do(t, http.MethodDelete, "/game/daycare/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[protocol.DaycareResponse](t, rec).Slots)

	rec = h.do(t, http.MethodDelete, "/game/daycare/x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShopRoutes(t *testing.T) {
	h := newHarness(t, func(p *types.Player) {
		p.Gems = 10
		p.Gold = 50
	})

	rec := h.do(t, http.MethodGet, "/game/shop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[protocol.ShopResponse](t, rec).Items)

	rec = h.do(t, http.MethodPost, "/game/shop/item", protocol.BuyItemRequest{ItemID: "thunder-stone", Qty: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	shopResp := decode[protocol.ShopResponse](t, rec)
	assert.Equal(t, int64(0), shopResp.Gems)
	assert.Equal(t, 2, shopResp.Owned["thunder-stone"])

	rec = h.do(t, http.MethodPost, "/game/shop/item", protocol.BuyItemRequest{ItemID: "thunder-stone"})
	assert.Equal(t, http.StatusPaymentRequired, rec.Code)

	rec = h.do(t, http.MethodPost, "/game/shop/item", protocol.BuyItemRequest{ItemID: "master-ball"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPost, "/game/shop/upgrade", protocol.BuyUpgradeRequest{Kind: types.UpgradeClick})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	shopResp = decode[protocol.ShopResponse](t, rec)
	assert.Equal(t, int64(0), shopResp.Gold)

	var p types.Player
	require.NoError(t, h.accounts.View(context.Background(), h.userID, func(st *account.State) { p = *st.Player() }))
	assert.Equal(t, int64(1), p.ClickDamageBonus)
}

func TestCatalogRoutes(t *testing.T) {
	h := newHarness(t, nil)

	rec := h.do(t, http.MethodGet, "/game/banners", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]gamedata.Banner](t, rec))

	rec = h.do(t, http.MethodGet, "/game/zones/1", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(t, http.MethodGet, "/game/zones/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = h.do(t, http.MethodGet, "/game/zones/kanto", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.NoError(t, h.store.UpsertTrainer(context.Background(), &store.Trainer{
		Name: "Brock", Slug: "brock", Generation: 1, Zone: 1, StageNumber: 10, IsBoss: true,
	}))
	rec = h.do(t, http.MethodGet, "/trainers?generation=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	trainers := decode[[]store.Trainer](t, rec)
	require.Len(t, trainers, 1)
	assert.Equal(t, "brock", trainers[0].Slug)

	rec = h.do(t, http.MethodGet, "/trainers?generation=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodGet, "/pokedex", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{httpx.Invalid("gold", "bad"), http.StatusBadRequest},
		{&currency.Error{Code: currency.CodeInsufficientFunds, Message: "Not enough gold"}, http.StatusPaymentRequired},
		{&currency.Error{Code: currency.CodeDuplicateNonce, Message: "Request already processed"}, http.StatusConflict},
		{&currency.Error{Code: currency.CodeInvalidCurrency, Message: "unknown currency"}, http.StatusBadRequest},
		{auth.ErrUnauthorized, http.StatusUnauthorized},
		{auth.ErrRateLimited, http.StatusTooManyRequests},
		{fmt.Errorf("load: %w", store.ErrNotFound), http.StatusNotFound},
		{ErrStaleSave, http.StatusConflict},
		{ErrItemMissing, http.StatusBadRequest},
		{echo.NewHTTPError(http.StatusTeapot, "short and stout"), http.StatusTeapot},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, body := Status(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.NotEmpty(t, body.Message)
	}
}
