package bootstrap

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clubtrack-dev/clubtrack/platform/go/persistence"
)

// Command groups schema bootstrap helpers.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Bootstrap database resources",
		Long:  "Bootstrap database resources such as the core schema (idempotent DDL).",
	}

	cmd.AddCommand(schemaCommand())
	return cmd
}

func schemaCommand() *cobra.Command {
	var databaseURL string

	c := &cobra.Command{
		Use:   "schema",
		Short: "Apply the embedded core schema DDL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pool, err := persistence.NewPool(ctx, persistence.PoolConfig{ConnString: databaseURL})
			if err != nil {
				return fmt.Errorf("init pool: %w", err)
			}
			defer persistence.ClosePool(pool)

			if err := persistence.Bootstrap(ctx, pool); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}

			cmd.Println("core schema applied")
			return nil
		},
	}

	c.Flags().StringVar(&databaseURL, "database-url", "", "postgres connection string")
	_ = c.MarkFlagRequired("database-url")

	return c
}
