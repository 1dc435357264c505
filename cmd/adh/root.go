package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/homelab/adh/internal/config"
	"github.com/jbweber/homelab/adh/internal/datastore"
)

// Version information, set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "adh",
		Short:         "Campus network administration backend",
		Long:          `Manages members, rooms, switches, ports and the wired and wireless devices registered on the network.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to the YAML configuration file")

	loadConfig := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newMemberCmd(loadConfig),
		newRoomCmd(loadConfig),
	)
	return root
}

type configLoader func() (*config.Config, error)

// openDatastore loads the configuration and opens the migrated database.
func openDatastore(ctx context.Context, load configLoader) (*config.Config, *datastore.Datastore, error) {
	cfg, err := load()
	if err != nil {
		return nil, nil, err
	}
	ds, err := cfg.InitializeDatabase(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, ds, nil
}
