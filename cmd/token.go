package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/ubigger/sales-report/config"
	"github.com/ubigger/sales-report/internal/auth/jwt"
	"github.com/ubigger/sales-report/internal/store"
	"github.com/ubigger/sales-report/log"
)

// token prints a signed token for the user record of a login id. The role
// and shop claims come from the user table, never from the caller.
func token(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("cannot load a config %v", err.Error())
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.New(ctx, cfg.DB, store.Exclusions{})
	if err != nil {
		return fmt.Errorf("couldn't connect to mysql: %w", err)
	}
	defer db.Close()

	u, err := db.Users().GetUserByLoginID(ctx, args[0])
	if err != nil {
		return err
	}

	ja, ttl, err := jwt.New(&cfg.Auth)
	if err != nil {
		return err
	}
	ts, err := jwt.NewUserToken(ja, ttl, u)
	if err != nil {
		return fmt.Errorf("can't sign token: %w", err)
	}

	log.New(os.Stderr, cfg.Logger).Info("token issued",
		slog.String("login_id", u.LoginID),
		slog.Int("role_code", u.RoleCode),
		slog.Duration("ttl", ttl),
	)
	fmt.Fprintln(cmd.OutOrStdout(), ts)
	return nil
}
