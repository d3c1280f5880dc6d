package admin

import (
	"github.com/cloo-solutions/techwiki/internal/database"
	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
		Long:  "Apply or roll back the migrations embedded in the binary",
	}

	cmd.AddCommand(migrateDirectionCmd(database.Up, "Apply all pending migrations"))
	cmd.AddCommand(migrateDirectionCmd(database.Down, "Roll back the most recent migration"))

	return cmd
}

func migrateDirectionCmd(direction database.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(direction),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(true)
			if err != nil {
				return err
			}
			return database.Migrate(cfg.DatabaseURL, direction)
		},
	}
}
