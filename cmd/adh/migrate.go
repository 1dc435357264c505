package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring the database schema up to date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			out := newPrinter(cmd.OutOrStdout())

			ds, err := cfg.OpenDatabase()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer ds.Close()

			ctx := cmd.Context()
			if down {
				if err := ds.Rollback(ctx); err != nil {
					return err
				}
			} else if err := ds.Migrate(ctx); err != nil {
				return err
			}

			schema, err := ds.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			out.Success("schema at version %d", schema)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "Revert the most recent migration instead")
	return cmd
}
