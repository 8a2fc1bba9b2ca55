// Package cli arma los comandos del binario petcare (serve, migrate, token).
package cli

import (
	"github.com/spf13/cobra"

	"pet-care-manager/internal/config"
	"pet-care-manager/internal/platform/logger"
)

// RootOptions son los flags globales.
type RootOptions struct {
	ConfigPath string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "petcare",
		Short: "Pet Care Manager API",
		Long: `Backend de Pet Care Manager: mascotas, agenda de cuidados, despesas,
registros de saúde y relatórios sobre una API HTTP/JSON.

La configuración sale de un YAML opcional (--config) y de variables de
entorno (PORT, DB_DSN, STORAGE_DRIVER, AUTH_MODE, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))

	return cmd
}

func (o *RootOptions) load() (config.Config, error) {
	return config.Load(o.ConfigPath)
}

func newLogger(cfg config.Config) *logger.StdLogger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
}
