package combat

import (
	"context"
	"time"

	"github.com/looplab/fsm"

	"pokeidle/server/balance"
	"pokeidle/server/inventory"
	"pokeidle/server/progression"
	"pokeidle/shared/game/types"
	"pokeidle/shared/protocol"
)

// Lifecycle events.
const (
	evStart   = "start"
	evKill    = "kill"
	evRetreat = "retreat"
	evRespawn = "respawn"
	evPause   = "pause"
	evResume  = "resume"
)

// Event is one message for the client, typed by protocol.Msg*.
type Event struct {
	Type    string
	Payload any
}

// Session is the live fight of one connected player:
//
//	idle -> fighting -> respawning -> fighting ...
//	fighting|respawning -> paused -> fighting
//
// It is not safe for concurrent use; the hub drives it under the account lock.
type Session struct {
	engine  *Engine
	battle  Battle
	machine *fsm.FSM

	bossDeadline time.Time
	bossLeft     time.Duration
	respawnAt    time.Time

	pending []Event
}

func NewSession(engine *Engine) *Session {
	s := &Session{engine: engine}
	s.machine = fsm.NewFSM(protocol.StateIdle,
		fsm.Events{
			{Name: evStart, Src: []string{protocol.StateIdle}, Dst: protocol.StateFighting},
			{Name: evKill, Src: []string{protocol.StateFighting}, Dst: protocol.StateRespawning},
			{Name: evRetreat, Src: []string{protocol.StateFighting}, Dst: protocol.StateRespawning},
			{Name: evRespawn, Src: []string{protocol.StateRespawning}, Dst: protocol.StateFighting},
			{Name: evPause, Src: []string{protocol.StateFighting, protocol.StateRespawning}, Dst: protocol.StatePaused},
			{Name: evResume, Src: []string{protocol.StatePaused}, Dst: protocol.StateFighting},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.emit(protocol.MsgStateChanged, protocol.StateChanged{State: e.Dst})
			},
		},
	)
	return s
}

func (s *Session) State() string { return s.machine.Current() }

func (s *Session) Battle() *Battle { return &s.battle }

// EnemyView returns the current enemy as sent to clients, nil between fights.
func (s *Session) EnemyView() *protocol.EnemyView {
	if s.battle.Enemy == nil {
		return nil
	}
	v := s.battle.Enemy.View()
	if v.IsBoss && !s.bossDeadline.IsZero() {
		v.BossDeadlineMs = s.bossDeadline.UnixMilli()
	}
	return &v
}

func (s *Session) emit(typ string, payload any) {
	s.pending = append(s.pending, Event{Type: typ, Payload: payload})
}

func (s *Session) flush() []Event {
	out := s.pending
	s.pending = nil
	return out
}

func (s *Session) fire(ev string) bool {
	if !s.machine.Can(ev) {
		return false
	}
	return s.machine.Event(context.Background(), ev) == nil
}

// Start spawns the first enemy.
func (s *Session) Start(now time.Time, p *types.Player) []Event {
	if s.fire(evStart) {
		s.spawn(now, p)
	}
	return s.flush()
}

func (s *Session) spawn(now time.Time, p *types.Player) {
	e := s.engine.Spawn(p)
	s.battle.SetEnemy(e)
	s.bossDeadline = time.Time{}
	if e.IsBoss && e.BossTimerSeconds > 0 {
		s.bossDeadline = now.Add(time.Duration(e.BossTimerSeconds) * time.Second)
	}
	s.emit(protocol.MsgEnemySpawned, protocol.EnemySpawned{Enemy: *s.EnemyView()})
}

// Click applies one click while fighting.
func (s *Session) Click(now time.Time, p *types.Player, col *inventory.Collection) []Event {
	if s.State() != protocol.StateFighting {
		return nil
	}
	dealt, out := s.engine.Click(p, col, &s.battle)
	if dealt == 0 {
		return nil
	}
	s.emitHP(dealt, protocol.SourceClick)
	if out != nil {
		s.defeated(now, out)
	}
	return s.flush()
}

// Advance moves the clock to now: it runs a team tick, enforces the boss
// timer and respawns once the delay has passed.
func (s *Session) Advance(now time.Time, p *types.Player, col *inventory.Collection) []Event {
	switch s.State() {
	case protocol.StateFighting:
		if s.bossExpired(now) {
			s.retreat(now, p)
			break
		}
		res := s.engine.Tick(p, col, &s.battle)
		if res.Damage > 0 {
			s.emitHP(res.Damage, protocol.SourceTeam)
		}
		if len(res.Hatched) > 0 {
			s.emit(protocol.MsgHatched, protocol.Hatched{Pokemon: res.Hatched})
		}
		if res.Kill != nil {
			s.defeated(now, res.Kill)
		}
	case protocol.StateRespawning:
		if !now.Before(s.respawnAt) && s.fire(evRespawn) {
			s.spawn(now, p)
		}
	}
	return s.flush()
}

func (s *Session) bossExpired(now time.Time) bool {
	e := s.battle.Enemy
	return e != nil && e.IsBoss && e.CurrentHP > 0 &&
		!s.bossDeadline.IsZero() && !now.Before(s.bossDeadline)
}

func (s *Session) retreat(now time.Time, p *types.Player) {
	progression.RetreatStage(p)
	s.battle.Enemy = nil
	s.bossDeadline = time.Time{}
	s.emit(protocol.MsgBossTimeout, protocol.BossTimeout{Stage: p.CurrentStage})
	s.respawnAt = now.Add(balance.BossRetreatDelay)
	s.fire(evRetreat)
}

func (s *Session) defeated(now time.Time, o *Outcome) {
	s.bossDeadline = time.Time{}
	s.emit(protocol.MsgEnemyDefeated, o.Message(s.battle.TotalKills))
	s.respawnAt = now.Add(balance.RespawnDelay)
	s.fire(evKill)
}

func (s *Session) emitHP(dealt int64, source string) {
	hp := protocol.EnemyHP{Damage: dealt, Source: source}
	if e := s.battle.Enemy; e != nil {
		hp.CurrentHP = e.CurrentHP
		hp.MaxHP = e.MaxHP
		hp.Percent = s.battle.HPPercent()
	}
	s.emit(protocol.MsgEnemyHP, hp)
}

// Pause freezes the fight while the client is hidden. The boss timer stops
// with it.
func (s *Session) Pause(now time.Time) []Event {
	if !s.fire(evPause) {
		return nil
	}
	if !s.bossDeadline.IsZero() {
		s.bossLeft = max(0, s.bossDeadline.Sub(now))
	}
	return s.flush()
}

// Resume restarts the fight, spawning a new enemy if the old one is gone.
func (s *Session) Resume(now time.Time, p *types.Player) []Event {
	if !s.fire(evResume) {
		return nil
	}
	if s.battle.Enemy == nil || s.battle.Enemy.CurrentHP <= 0 {
		s.battle.Enemy = nil
		s.spawn(now, p)
	} else {
		if s.battle.Enemy.IsBoss && !s.bossDeadline.IsZero() {
			s.bossDeadline = now.Add(s.bossLeft)
		}
		s.emit(protocol.MsgEnemySpawned, protocol.EnemySpawned{Enemy: *s.EnemyView()})
	}
	s.bossLeft = 0
	return s.flush()
}

// Message converts the outcome for the wire.
func (o *Outcome) Message(totalKills int) protocol.EnemyDefeated {
	return protocol.EnemyDefeated{
		Gold:          o.Gold,
		XP:            o.XP,
		WasBoss:       o.WasBoss,
		PlayerLevelUp: o.PlayerLevelUps,
		PokemonLevels: o.PokemonLevels,
		Evolutions:    o.Evolutions,
		StageAdvanced: o.StageAdvanced,
		BadgeEarned:   o.BadgeEarned,
		TotalKills:    totalKills,
	}
}
