package gamedata

import (
	"sync/atomic"

	"go.uber.org/zap"

	"pokeidle/server/metrics"
)

// Registry serves the current game data snapshot. Readers never block on a
// reload; a failed reload keeps the previous snapshot.
type Registry struct {
	dir string
	log *zap.Logger
	cur atomic.Pointer[Data]
}

func NewRegistry(overrideDir string, log *zap.Logger) (*Registry, error) {
	d, err := Load(overrideDir)
	if err != nil {
		return nil, err
	}
	r := &Registry{dir: overrideDir, log: log.Named("gamedata")}
	r.cur.Store(d)
	return r, nil
}

// Static wraps an already loaded snapshot. Used by tools and tests.
func Static(d *Data) *Registry {
	r := &Registry{log: zap.NewNop()}
	r.cur.Store(d)
	return r
}

func (r *Registry) Current() *Data { return r.cur.Load() }

func (r *Registry) Dir() string { return r.dir }

func (r *Registry) Reload() error {
	d, err := Load(r.dir)
	if err != nil {
		metrics.GamedataReloads.WithLabelValues("error").Inc()
		r.log.Error("reload failed, keeping previous data", zap.Error(err))
		return err
	}
	r.cur.Store(d)
	metrics.GamedataReloads.WithLabelValues("ok").Inc()
	r.log.Info("game data reloaded",
		zap.Int("banners", len(d.Gacha.Banners)),
		zap.Int("generations", len(d.Zones.Generations)),
		zap.Int("evolutions", len(d.Evolutions.Evolutions)))
	return nil
}
