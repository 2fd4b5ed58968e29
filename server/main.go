package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pokeidle/server/account"
	"pokeidle/server/auth"
	"pokeidle/server/combat"
	"pokeidle/server/config"
	"pokeidle/server/game"
	"pokeidle/server/gamedata"
	"pokeidle/server/httpx"
	"pokeidle/server/logging"
	"pokeidle/server/metrics"
	"pokeidle/server/species"
	"pokeidle/server/srv"
	"pokeidle/server/store"
)

const (
	shutdownTimeout = 10 * time.Second
	housekeeping    = 10 * time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pokeidle:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		return err
	}
	defer st.Close()

	reg, err := gamedata.NewRegistry(cfg.GamedataDir, log)
	if err != nil {
		return err
	}
	accounts := account.New(st, log)
	catalog := species.NewCatalog(st, reg, log)
	if err := catalog.Refresh(ctx); err != nil {
		log.Warn("species catalog not loaded", zap.Error(err))
	}
	dex := combat.NewDexSource(reg, catalog)

	authSvc, err := auth.New(auth.Options{
		Store:     st,
		Accounts:  accounts,
		DataDir:   cfg.DataDir,
		TTL:       cfg.JWTTTL,
		ClientURL: cfg.ClientURL,
		Google: auth.GoogleConfig{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			CallbackURL:  cfg.Google.CallbackURL,
		},
		Log: log,
	})
	if err != nil {
		return err
	}
	gameSvc := game.New(game.Deps{
		Accounts: accounts,
		Store:    st,
		Catalog:  catalog,
		Registry: reg,
		Dex:      dex,
		Log:      log,
	})
	hub := srv.NewHub(srv.Options{
		Accounts:      accounts,
		Catalog:       catalog,
		Engine:        combat.NewEngine(dex.Dex, nil),
		Auth:          authSvc,
		TickInterval:  cfg.TickInterval,
		FlushInterval: cfg.FlushInterval,
		AllowedOrigin: cfg.ClientURL,
		Log:           log,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = game.ErrorHandler(log)
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowCredentials: true,
	}))
	e.Use(httpx.RequestID())
	e.Use(httpx.RequestLogger(log))

	authSvc.Routes(e.Group("/auth"))
	gameSvc.Routes(e, authSvc.Middleware())
	e.GET("/ws", hub.Handler())
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", zap.String("addr", cfg.HTTPAddr))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	})
	g.Go(func() error { return hub.Run(gctx) })
	if cfg.GamedataWatch && cfg.GamedataDir != "" {
		g.Go(func() error { return gamedata.NewWatcher(reg, 0).Run(gctx) })
	}
	g.Go(func() error {
		t := time.NewTicker(housekeeping)
		defer t.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-t.C:
				if err := authSvc.PurgeRevoked(gctx); err != nil {
					log.Warn("purge revoked tokens", zap.Error(err))
				}
				if n := gameSvc.Ledger().Sweep(); n > 0 {
					log.Debug("swept spend nonces", zap.Int("count", n))
				}
			}
		}
	})

	err = g.Wait()

	fctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if ferr := accounts.Flush(fctx); ferr != nil {
		log.Error("final flush", zap.Error(ferr))
	}
	return err
}
