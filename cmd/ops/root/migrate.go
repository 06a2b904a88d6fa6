package root

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fastygo/hunter/internal/config"
	pgInfra "github.com/fastygo/hunter/internal/infrastructure/postgres"
	"github.com/fastygo/hunter/repository/sqlite"
)

func newMigrateCmd() *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or with --down, revert) the schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := env.cfg
			switch cfg.Store.Driver {
			case config.DriverPostgres:
				dir := pgInfra.Up
				if down {
					dir = pgInfra.Down
				}
				return pgInfra.Migrate(cfg.Database, cfg.Migrations.Path, dir, env.logger)
			case config.DriverSQLite:
				if down {
					return errors.New("sqlite schema cannot be migrated down")
				}
				db, err := sqlite.Open(cmd.Context(), cfg.Store.SQLitePath)
				if err != nil {
					return err
				}
				defer db.Close()
				fmt.Fprintf(cmd.OutOrStdout(), "sqlite schema ready at %s\n", cfg.Store.SQLitePath)
				return nil
			default:
				return fmt.Errorf("store driver %q has no schema", cfg.Store.Driver)
			}
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "Revert every migration")
	return cmd
}
