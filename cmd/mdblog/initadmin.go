package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"mdblog/internal/config"
	"mdblog/internal/db"
	"mdblog/internal/store"
)

// newInitAdminCmd seeds the administrator account. Idempotent: an existing
// account with the configured username is left untouched.
func newInitAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-admin",
		Short: "Create the administrator account if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Admin.Password == "" {
				return fmt.Errorf("MDBLOG_ADMIN_PASSWORD is required")
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			ctx := context.Background()
			users := store.NewUserStore(database)

			if _, err := users.GetByUsername(ctx, cfg.Admin.Username); err == nil {
				log.Printf("admin user %q already exists", cfg.Admin.Username)
				return nil
			} else if !errors.Is(err, store.ErrNotFound) {
				return err
			}

			u, err := users.Register(ctx, cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
			if err != nil {
				return err
			}
			if err := users.SetAdmin(ctx, u.ID, true); err != nil {
				return err
			}

			log.Printf("admin user %q created", u.Username)
			return nil
		},
	}
}
