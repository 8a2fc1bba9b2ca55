package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pet-care-manager/internal/config"
	"pet-care-manager/internal/platform/logger"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Long: `Crea las tablas (pets, agenda, despesas, registros_saude) si no existen.
Solo aplica a los drivers postgres y sqlite.

Example:
  STORAGE_DRIVER=sqlite DB_DSN=./data/petcare.db petcare migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver == config.StorageMemory {
				return fmt.Errorf("migrate: storage driver %q has no schema", cfg.Storage.Driver)
			}

			_, db, err := openStore(cmd.Context(), cfg.Storage)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer db.Close()

			newLogger(cfg).Info("schema ready", logger.Fields{"driver": cfg.Storage.Driver})
			return nil
		},
	}
}
