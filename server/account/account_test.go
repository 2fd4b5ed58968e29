package account

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pokeidle/server/inventory"
	"pokeidle/server/store"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

func setup(t *testing.T) (*Accounts, *store.SQLStore, int64) {
	t.Helper()
	st, err := store.Open(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "acc.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	u := &store.User{Username: "red", Email: "red@example.com", PasswordHash: "x", Player: types.NewPlayer()}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return New(st, zap.NewNop()), st, u.ID
}

func TestUpdateWritesThrough(t *testing.T) {
	ctx := context.Background()
	acc, st, id := setup(t)

	err := acc.Update(ctx, id, func(s *State) error {
		s.Player().Gold = 1234
		s.Collection.Add(inventory.Species{Slug: "bulbasaur", NameFr: "Bulbizarre", NameEn: "Bulbasaur"})
		s.TouchPokemons()
		return nil
	})
	require.NoError(t, err)

	u, err := st.UserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), u.Player.Gold)

	list, err := st.ListPokemons(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bulbasaur", list[0].Slug)
	assert.Equal(t, 1, list[0].Slot())
}

func TestFailedUpdateReloads(t *testing.T) {
	ctx := context.Background()
	acc, _, id := setup(t)

	boom := errors.New("boom")
	err := acc.Update(ctx, id, func(s *State) error {
		s.Player().Gold = 99
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, acc.View(ctx, id, func(s *State) {
		assert.Equal(t, int64(0), s.Player().Gold)
	}))
}

func TestPinnedAccountsWaitForFlush(t *testing.T) {
	ctx := context.Background()
	acc, st, id := setup(t)

	require.NoError(t, acc.Acquire(ctx, id))
	require.NoError(t, acc.Update(ctx, id, func(s *State) error {
		s.Player().Gems = 7
		return nil
	}))

	u, err := st.UserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), u.Player.Gems, "pinned writes are deferred")

	require.NoError(t, acc.Flush(ctx))
	u, err = st.UserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.Player.Gems)
	assert.Equal(t, 1, acc.Cached(), "pinned accounts stay cached")

	require.NoError(t, acc.Update(ctx, id, func(s *State) error {
		s.Player().Gems = 8
		return nil
	}))
	require.NoError(t, acc.Release(ctx, id))
	u, err = st.UserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(8), u.Player.Gems)

	require.NoError(t, acc.Flush(ctx))
	assert.Zero(t, acc.Cached())
}

func TestUnknownUser(t *testing.T) {
	acc, _, _ := setup(t)
	err := acc.Update(context.Background(), 404, func(*State) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Zero(t, acc.Cached())
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	acc, st, id := setup(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = acc.Update(ctx, id, func(s *State) error {
				s.Player().Gold += 10
				return nil
			})
		}()
	}
	wg.Wait()

	u, err := st.UserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(200), u.Player.Gold)
}

func TestValidateUpdateTime(t *testing.T) {
	s := &State{}
	assert.True(t, s.ValidateUpdateTime(SectionPlayer, 0))
	s.UpdateTimestamps(SectionPlayer)
	last := s.SectionTimes.Player
	assert.False(t, s.ValidateUpdateTime(SectionPlayer, last-1))
	assert.True(t, s.ValidateUpdateTime(SectionPlayer, last))
	assert.True(t, s.ValidateUpdateTime(SectionPokemons, last-1))
	assert.False(t, s.ValidateUpdateTime("other", last-1))
}

func TestViewIsDetached(t *testing.T) {
	ctx := context.Background()
	acc, _, id := setup(t)

	var view protocol.PlayerView
	require.NoError(t, acc.View(ctx, id, func(s *State) {
		s.Player().Items["moon-stone"] = 1
		s.Player().CurrentStage = 10
		view = s.View()
		s.Player().Items["moon-stone"] = 5
	}))
	assert.Equal(t, 1, view.Items["moon-stone"])
	assert.Equal(t, "red", view.Username)
	assert.True(t, view.IsBossStage)
	assert.Equal(t, "Kanto - Zone 1 - Stage 10/10", view.StageLabel)
}

func TestViewReportsProgress(t *testing.T) {
	ctx := context.Background()
	acc, _, id := setup(t)

	var view protocol.PlayerView
	require.NoError(t, acc.View(ctx, id, func(s *State) {
		s.Player().StageKills = 4
		s.Collection.Add(inventory.Species{Slug: "pikachu"})
		s.Collection.Add(inventory.Species{Slug: "pikachu", IsShiny: true})
		s.Collection.Add(inventory.Species{Slug: "eevee"})
		view = s.View()
	}))
	assert.InDelta(t, 40.0, view.StageProgress, 1e-9)
	assert.Equal(t, 2, view.DexCaught)
}
