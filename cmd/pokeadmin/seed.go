package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pokeidle/server/balance"
	"pokeidle/server/gamedata"
	"pokeidle/server/species"
	"pokeidle/server/store"
)

const seedParallelism = 3

var tyradexURL string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data into the database",
}

var seedPokedexCmd = &cobra.Command{
	Use:   "pokedex [gen...]",
	Short: "Fetch species from the Tyradex API (default: generation 1)",
	RunE: func(cmd *cobra.Command, args []string) error {
		gens, err := parseGenerations(args)
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		seeder := &species.Seeder{API: species.NewTyradex(tyradexURL), Store: st, Log: logger}
		total, err := seedPokedex(cmd.Context(), seeder, gens)
		if err != nil {
			return err
		}
		logger.Info("pokedex seeded", zap.Int("species", total), zap.Ints("generations", gens))
		return nil
	},
}

var seedTrainersCmd = &cobra.Command{
	Use:   "trainers",
	Short: "Write the boss of every zone into the trainers table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := gamedata.Load(cfg.GamedataDir)
		if err != nil {
			return err
		}
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		n, err := seedTrainers(cmd.Context(), st, d)
		if err != nil {
			return err
		}
		logger.Info("trainers seeded", zap.Int("count", n))
		return nil
	},
}

func init() {
	seedPokedexCmd.Flags().StringVar(&tyradexURL, "api", species.DefaultTyradexURL, "Tyradex base URL")
	seedCmd.AddCommand(seedPokedexCmd)
	seedCmd.AddCommand(seedTrainersCmd)
}

func parseGenerations(args []string) ([]int, error) {
	if len(args) == 0 {
		return []int{1}, nil
	}
	gens := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("generation %q: %w", a, err)
		}
		gens = append(gens, n)
	}
	return gens, nil
}

// seedPokedex fetches generations concurrently and returns the number of
// species written.
func seedPokedex(ctx context.Context, s *species.Seeder, gens []int) (int, error) {
	counts := make([]int, len(gens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(seedParallelism)
	for i, gen := range gens {
		g.Go(func() error {
			n, err := s.Seed(gctx, gen)
			if err != nil {
				return fmt.Errorf("generation %d: %w", gen, err)
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// seedTrainers upserts the gym boss found on the last stage of each zone.
func seedTrainers(ctx context.Context, st store.Store, d *gamedata.Data) (int, error) {
	n := 0
	for _, gen := range d.Zones.Generations {
		for _, z := range gen.Zones {
			b := z.Boss
			if b.Slug == "" {
				continue
			}
			t := &store.Trainer{
				Name:        b.NameEn,
				Slug:        b.Slug,
				Generation:  gen.ID,
				Zone:        z.ID,
				StageNumber: balance.StagesPerZone,
				IsBoss:      true,
			}
			if b.TimerSeconds > 0 {
				timer := b.TimerSeconds
				t.BossTimerSeconds = &timer
			}
			for _, m := range b.Team {
				t.Team = append(t.Team, store.TrainerMember{Slug: m.Slug, NameFr: m.NameFr, NameEn: m.NameEn, Level: m.Level})
			}
			if err := st.UpsertTrainer(ctx, t); err != nil {
				return n, fmt.Errorf("trainer %s: %w", b.Slug, err)
			}
			n++
		}
	}
	return n, nil
}
