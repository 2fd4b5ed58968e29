package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	GachaPulls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeidle_gacha_pulls_total",
		Help: "Gacha pulls by banner and rolled rarity.",
	}, []string{"banner", "rarity"})

	ShinyPulls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeidle_shiny_pulls_total",
		Help: "Shiny Pokémon obtained from pulls and hatches.",
	})

	EnemiesDefeated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeidle_enemies_defeated_total",
		Help: "Enemies defeated in live combat.",
	}, []string{"kind"})

	Evolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeidle_evolutions_total",
		Help: "Evolutions applied, by method.",
	}, []string{"method"})

	AfkGold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeidle_afk_gold_total",
		Help: "Gold granted as offline rewards.",
	})

	ClicksDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pokeidle_clicks_dropped_total",
		Help: "Clicks rejected by the per-connection rate limiter.",
	})

	WSSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pokeidle_ws_sessions",
		Help: "Live websocket combat sessions.",
	})

	GamedataReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeidle_gamedata_reloads_total",
		Help: "Game data reloads by result.",
	}, []string{"result"})

	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeidle_login_attempts_total",
		Help: "Login attempts by result.",
	}, []string{"result"})
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }
