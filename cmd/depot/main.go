package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/TheBitDrifter/depot"
	"github.com/TheBitDrifter/depot/internal/demo"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	var configPath string
	rootCmd := &cobra.Command{
		Use:           "depot",
		Short:         "Run and inspect a depot engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML or YAML config file")

	rootCmd.AddCommand(
		NewRunCmd(&configPath),
		NewConfigCmd(&configPath),
	)
	return rootCmd
}

func loadConfig(path string) (depot.Config, error) {
	if path == "" {
		return depot.DefaultConfig(), nil
	}
	return depot.LoadConfig(path)
}

func NewRunCmd(configPath *string) *cobra.Command {
	var (
		ticks int
		order string
	)
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the Int/Float demo world for a number of ticks",
		Example: "depot run --ticks 2 --order mul-first",
		Args:    cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger, err := depot.NewLogger(cfg.Logging)
			if err != nil {
				return errors.Wrap(err, "build logger")
			}
			defer logger.Sync() //nolint:errcheck

			return runDemo(cmd, cfg, logger, ticks, demo.Order(order))
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "t", 2, "number of ticks to run")
	cmd.Flags().StringVar(&order, "order", string(demo.IncFirst), "system order: inc-first, mul-first or full")
	return cmd
}

func runDemo(cmd *cobra.Command, cfg depot.Config, logger *zap.Logger, ticks int, order demo.Order) error {
	engine, err := depot.NewEngine(cfg, depot.WithLogger(logger))
	if err != nil {
		return err
	}
	setup, err := demo.Register(engine)
	if err != nil {
		return err
	}
	schedule, err := setup.Schedule(order)
	if err != nil {
		return err
	}
	engine.LogRegistry(zapcore.InfoLevel)

	en, err := engine.CreateEntity()
	if err != nil {
		return err
	}
	if err := depot.AddComponent(engine, en, demo.Int{I: 1}); err != nil {
		return err
	}
	if err := depot.AddComponent(engine, en, demo.Float{F: 2}); err != nil {
		return err
	}

	for tick := 0; tick < ticks; tick++ {
		if err := demo.Tick(schedule); err != nil {
			return errors.Wrapf(err, "tick %d", tick)
		}
		logger.Debug("tick complete", zap.Int("tick", tick))
	}

	i, err := depot.GetComponent[demo.Int](engine, en)
	if err != nil {
		return err
	}
	f, err := depot.GetComponent[demo.Float](engine, en)
	if err != nil {
		return err
	}
	logger.Info("demo finished",
		zap.String("order", string(order)),
		zap.Int("ticks", ticks),
	)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "i=%d f=%g\n", i.I, f.F)
	return err
}

func NewConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return errors.Wrap(err, "encode config")
			}
			return enc.Close()
		},
	}
}
