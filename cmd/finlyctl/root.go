package main

import (
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/finly/backend/config"
)

// dbOpener opens the database named by the configuration and returns a close func.
type dbOpener func(cfg *config.Config) (*gorm.DB, func() error, error)

func newRootCmd(open dbOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "finlyctl",
		Short:         "Operator tasks for the Finly backend",
		Long:          `finlyctl runs deployment tasks such as schema migration and the default category seed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(migrateCmd(open))
	cmd.AddCommand(seedCategoriesCmd(open))

	return cmd
}

// withDB opens the database, runs fn and closes the connection.
func withDB(open dbOpener, fn func(*gorm.DB) error) error {
	gormDB, closeFn, err := open(config.Load())
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	return fn(gormDB)
}
