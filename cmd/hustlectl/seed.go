package main

import (
	"fmt"

	"hustlehub/internal/auth"
	"hustlehub/internal/database"
	"hustlehub/internal/seed"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func newSeedCmd() *cobra.Command {
	var (
		fixture bool
		clean   bool
		opts    seed.Options
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the store with demo data",
		Long: `Populate the store with demo data.

With --fixture the embedded demo data set is loaded. Otherwise random users,
opportunities, applications and posts are generated. Every account uses the
password "password123".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			db, err := database.Connect(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer database.Close(db)

			s := seed.NewSeeder(db, auth.NewBcryptHasher(bcrypt.DefaultCost))
			if clean {
				if err := s.ClearAll(ctx); err != nil {
					return fmt.Errorf("cleanup failed: %w", err)
				}
			}

			var res seed.Result
			if fixture {
				fx, err := seed.DemoFixture()
				if err != nil {
					return err
				}
				res, err = s.SeedFixture(ctx, fx)
				if err != nil {
					return fmt.Errorf("fixture seeding failed: %w", err)
				}
			} else {
				res, err = s.SeedRandom(ctx, opts)
				if err != nil {
					return fmt.Errorf("random seeding failed: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&fixture, "fixture", false, "load the embedded demo fixture instead of random data")
	flags.BoolVar(&clean, "clean", false, "delete existing data first")
	flags.IntVar(&opts.Users, "users", 20, "number of random users")
	flags.IntVar(&opts.Opportunities, "opportunities", 15, "number of random opportunities")
	flags.IntVar(&opts.Posts, "posts", 40, "number of random posts")
	flags.IntVar(&opts.MaxApplications, "max-applications", 3, "maximum applications per opportunity")
	flags.Int64Var(&opts.Seed, "seed", 0, "random seed for reproducible data (0 picks one)")
	cmd.MarkFlagsMutuallyExclusive("fixture", "users")

	return cmd
}
