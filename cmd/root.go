package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campuscal/deptsched/app"
	"github.com/campuscal/deptsched/config"
	"github.com/campuscal/deptsched/core/model"
	"github.com/campuscal/deptsched/infra/logger"
)

var (
	cfgPath    string
	rosterPath string
)

var rootCmd = &cobra.Command{
	Use:   "deptsched",
	Short: "Departmental scheduling and availability service",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&rosterPath, "roster", "r", "", "roster JSON file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	if rosterPath != "" {
		records, err := loadRoster(rosterPath)
		if err != nil {
			return err
		}
		svc.Seed(records)
	}
	return svc.Run(ctx)
}

func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		return config.Default(), nil
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func loadRoster(path string) ([]model.RawCommitment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var records []model.RawCommitment
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	return records, nil
}
