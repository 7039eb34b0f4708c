// Command kadisim plays AI-only Niko Kadi games and reports the results.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/nikokadi/kadi/engine"
	"github.com/nikokadi/kadi/service/internal/config"
	"github.com/nikokadi/kadi/service/internal/sim"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	envFile string
	asJSON  bool
)

var rootCmd = &cobra.Command{
	Use:          "kadisim",
	Short:        "Simulate AI-only Niko Kadi games",
	Long:         "kadisim plays KADI_GAMES independent AI-only games in parallel and prints win statistics.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}

		log := logrus.New()
		log.SetLevel(cfg.Level())
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.WithFields(logrus.Fields{
			"games":   cfg.Games,
			"players": cfg.Players,
			"workers": cfg.Workers,
			"style":   cfg.PlayStyle,
			"level":   cfg.Difficulty,
		}).Info("starting simulation")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		sum, err := sim.Run(ctx, sim.Options{
			Games:    cfg.Games,
			Players:  cfg.Players,
			Workers:  cfg.Workers,
			Seed:     cfg.Seed,
			MaxTurns: cfg.MaxTurns,
			AI:       engine.AIConfig{Difficulty: cfg.Difficulty, PlayStyle: cfg.PlayStyle, Aggression: 0.5},
			Logger:   log,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		}
		fmt.Fprintf(out, "seed %d: %d/%d games finished, %.1f turns on average\n", sum.Seed, sum.Finished, sum.Games, sum.AvgTurns)
		for seat, wins := range sum.WinsBySeat {
			fmt.Fprintf(out, "  seat %d: %d wins\n", seat, wins)
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&envFile, "env", ".env", "dotenv file with KADI_* settings")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print the full summary as JSON")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.WithError(err).Error("simulation failed")
		os.Exit(1)
	}
}
