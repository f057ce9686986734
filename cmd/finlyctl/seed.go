package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/finly/backend/internal/application/usecase/category"
	"github.com/finly/backend/internal/infra/db"
	"github.com/finly/backend/internal/integration/persistence"
)

func seedCategoriesCmd(open dbOpener) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "seed-categories",
		Short: "Install the default categories",
		Long: `Insert every default category whose name is not yet present as a default.
Running it again is a no-op.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(open, func(gormDB *gorm.DB) error {
				if migrate {
					if err := db.Migrate(gormDB); err != nil {
						return err
					}
				}

				uc := category.NewSeedDefaultCategoriesUseCase(persistence.NewCategoryRepository(gormDB))
				out, err := uc.Execute(cmd.Context())
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				for _, name := range out.Created {
					fmt.Fprintf(w, "created  %s\n", name)
				}
				fmt.Fprintf(w, "%d created, %d already present\n", len(out.Created), len(out.Skipped))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "run migrations before seeding")
	return cmd
}
