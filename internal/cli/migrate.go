package cli

import (
	"fmt"

	"github.com/gouveiaesilva/dashmilo-api/internal/app"
	"github.com/gouveiaesilva/dashmilo-api/internal/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica as migrações pendentes no PostgreSQL",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Driver != config.StoreDriverPostgres {
			return fmt.Errorf("migrate exige STORE_DRIVER=%s", config.StoreDriverPostgres)
		}

		_, err := getApp(cmd, app.WithMigrations())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), "Migrações aplicadas")
		return err
	},
}
