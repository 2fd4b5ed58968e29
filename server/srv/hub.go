package srv

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pokeidle/server/account"
	"pokeidle/server/auth"
	"pokeidle/server/combat"
	"pokeidle/server/metrics"
	"pokeidle/server/species"
	"pokeidle/shared/protocol"
)

const (
	DefaultTickInterval  = time.Second
	DefaultFlushInterval = 30 * time.Second
)

// Authenticator resolves a session token to its claims.
type Authenticator interface {
	Authenticate(ctx context.Context, tok string) (auth.Claims, error)
}

type Options struct {
	Accounts      *account.Accounts
	Catalog       *species.Catalog
	Engine        *combat.Engine
	Auth          Authenticator
	TickInterval  time.Duration
	FlushInterval time.Duration
	// AllowedOrigin is matched against the Origin header; empty accepts all.
	AllowedOrigin string
	Log           *zap.Logger
}

// Hub owns every live combat connection. Run drives their clocks; each
// connection's reader drives its clicks.
type Hub struct {
	accounts *account.Accounts
	catalog  *species.Catalog
	engine   *combat.Engine
	authn    Authenticator
	tick     time.Duration
	flush    time.Duration
	upgrader websocket.Upgrader
	log      *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	clients map[*client]struct{}
	byUser  map[int64]*client
}

func NewHub(o Options) *Hub {
	h := &Hub{
		accounts: o.Accounts,
		catalog:  o.Catalog,
		engine:   o.Engine,
		authn:    o.Auth,
		tick:     o.TickInterval,
		flush:    o.FlushInterval,
		log:      o.Log.Named("hub"),
		now:      time.Now,
		clients:  make(map[*client]struct{}),
		byUser:   make(map[int64]*client),
	}
	if h.tick <= 0 {
		h.tick = DefaultTickInterval
	}
	if h.flush <= 0 {
		h.flush = DefaultFlushInterval
	}
	origin := o.AllowedOrigin
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin: func(r *http.Request) bool {
			got := r.Header.Get("Origin")
			return origin == "" || got == "" || got == origin
		},
	}
	return h
}

// Sessions reports the number of live connections.
func (h *Hub) Sessions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handler upgrades GET /ws?token= for an authenticated player.
func (h *Hub) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := h.authn.Authenticate(c.Request().Context(), auth.TokenFrom(c))
		if err != nil {
			return err
		}
		conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			h.log.Warn("upgrade failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
			return nil
		}
		h.serve(context.WithoutCancel(c.Request().Context()), conn, claims.UserID)
		return nil
	}
}

// serve runs one connection until the peer goes away.
func (h *Hub) serve(ctx context.Context, conn *websocket.Conn, userID int64) {
	log := h.log.With(zap.Int64("user_id", userID))
	if err := h.accounts.Acquire(ctx, userID); err != nil {
		log.Warn("acquire account", zap.Error(err))
		_ = conn.Close()
		return
	}
	c := newClient(conn, userID, combat.NewSession(h.engine))

	err := h.accounts.Update(ctx, userID, func(st *account.State) error {
		now := h.now()
		evs := c.session.Start(now, st.Player())
		c.sendJSON(protocol.MsgHello, protocol.Hello{
			SessionID: c.id,
			Player:    st.View(),
			Team:      st.Collection.TeamCopy(),
			Enemy:     c.session.EnemyView(),
			State:     c.session.State(),
		})
		h.dispatch(c, st, evs)
		return nil
	})
	if err != nil {
		log.Error("start session", zap.Error(err))
		_ = conn.Close()
		h.release(ctx, userID)
		return
	}

	// one live session per account; the newest connection wins
	h.mu.Lock()
	prev := h.byUser[userID]
	h.byUser[userID] = c
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if prev != nil {
		log.Info("session replaced", zap.Int64("session_id", prev.id))
		prev.kick(closeReplaced, "session opened elsewhere")
	}
	metrics.WSSessions.Inc()
	log.Info("session started", zap.Int64("session_id", c.id))

	go c.writer()
	c.reader(ctx, h)

	h.mu.Lock()
	delete(h.clients, c)
	if h.byUser[userID] == c {
		delete(h.byUser, userID)
	}
	h.mu.Unlock()
	metrics.WSSessions.Dec()
	c.close()
	h.release(ctx, userID)
	log.Info("session ended", zap.Int64("session_id", c.id))
}

func (h *Hub) release(ctx context.Context, userID int64) {
	if err := h.accounts.Release(ctx, userID); err != nil {
		h.log.Error("release account", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// dispatch sends a batch of session events and folds their side effects
// back into the account state. Called under the account lock.
func (h *Hub) dispatch(c *client, st *account.State, evs []combat.Event) {
	changed := false
	for _, ev := range evs {
		switch ev.Type {
		case protocol.MsgEnemyDefeated, protocol.MsgHatched:
			changed = true
		case protocol.MsgBossTimeout:
			st.UpdateTimestamps(account.SectionPlayer)
		}
		c.sendJSON(ev.Type, ev.Payload)
	}
	if !changed {
		return
	}
	h.catalog.FillIDs(st.Collection.Pokemons)
	st.TouchPokemons()
	st.UpdateTimestamps(account.SectionPlayer)
	c.sendJSON(protocol.MsgPlayerSynced, protocol.PlayerSynced{Player: st.View()})
}

// handle applies one client message.
func (h *Hub) handle(ctx context.Context, c *client, env protocol.MsgEnvelope) error {
	if c.closed() {
		return nil
	}
	now := h.now()
	switch env.Type {
	case protocol.MsgClick:
		if !c.bucket.allow(now, clickRate, clickBurst) {
			metrics.ClicksDropped.Inc()
			return nil
		}
		return h.accounts.Update(ctx, c.userID, func(st *account.State) error {
			h.dispatch(c, st, c.session.Click(now, st.Player(), st.Collection))
			return nil
		})
	case protocol.MsgPause:
		return h.accounts.Update(ctx, c.userID, func(st *account.State) error {
			h.dispatch(c, st, c.session.Pause(now))
			return nil
		})
	case protocol.MsgResume:
		return h.accounts.Update(ctx, c.userID, func(st *account.State) error {
			h.dispatch(c, st, c.session.Resume(now, st.Player()))
			return nil
		})
	case protocol.MsgSync:
		return h.accounts.View(ctx, c.userID, func(st *account.State) {
			c.sendJSON(protocol.MsgPlayerSynced, protocol.PlayerSynced{Player: st.View()})
		})
	}
	c.sendJSON(protocol.MsgError, protocol.ErrorMsg{Message: "unknown message type " + env.Type, Code: "UNKNOWN_TYPE"})
	return nil
}

func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// Tick advances every live session once.
func (h *Hub) Tick(ctx context.Context) {
	now := h.now()
	for _, c := range h.snapshot() {
		if c.closed() {
			continue
		}
		err := h.accounts.Update(ctx, c.userID, func(st *account.State) error {
			h.dispatch(c, st, c.session.Advance(now, st.Player(), st.Collection))
			return nil
		})
		if err != nil {
			h.log.Error("tick", zap.Int64("user_id", c.userID), zap.Error(err))
		}
	}
}

// Run ticks sessions and flushes accounts until ctx is cancelled. Live
// connections are closed on the way out.
func (h *Hub) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.tick)
	defer ticker.Stop()
	flusher := time.NewTicker(h.flush)
	defer flusher.Stop()

	for {
		select {
		case <-ctx.Done():
			for _, c := range h.snapshot() {
				_ = c.conn.Close()
			}
			return nil
		case <-ticker.C:
			h.Tick(ctx)
		case <-flusher.C:
			if err := h.accounts.Flush(ctx); err != nil {
				h.log.Error("flush accounts", zap.Error(err))
			}
		}
	}
}
