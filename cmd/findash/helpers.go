package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mujtaba19938/FINDASH/internal/analytics"
	"github.com/Mujtaba19938/FINDASH/internal/common"
	"github.com/Mujtaba19938/FINDASH/internal/config"
	"github.com/Mujtaba19938/FINDASH/internal/service"
	"github.com/Mujtaba19938/FINDASH/internal/storage"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var envReplacer = strings.NewReplacer(".", "_")

// initStorage opens the configured record store and applies migrations. The
// in-memory store is seeded with demo data.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	var (
		store service.Storage
		err   error
	)
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		store, err = storage.NewPostgresStorage(ctx, cfg.Database.DSN)
	case config.DriverMemory:
		mem := storage.NewMemoryStorage()
		if err := seedDemo(ctx, mem, demoUser, timeNow()); err != nil {
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
		return mem, nil
	default:
		store, err = storage.NewSQLiteStorage(cfg.Database.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// withStore opens storage for the resolved user and runs fn.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store service.Storage, userID string) error) error {
	ctx := cmd.Context()
	userID, err := resolveUser()
	if err != nil {
		return err
	}

	store, err := initStorage(ctx, appConfig)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(ctx, store, userID)
}

// withEngine opens storage, builds an engine and runs fn.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, engine *analytics.Engine, userID string) error) error {
	return withStore(cmd, func(ctx context.Context, store service.Storage, userID string) error {
		return fn(ctx, analytics.New(store, analytics.WithClock(timeNow)), userID)
	})
}

// resolveUser returns the --user flag or configured default user.
func resolveUser() (string, error) {
	userID := strings.TrimSpace(appConfig.DefaultUser)
	if userID == "" && appConfig.Database.Driver == config.DriverMemory {
		userID = demoUser
	}
	if userID == "" {
		return "", common.NewUserError("No user selected: pass --user or set default_user in the config file", analytics.ErrInvalidUserID)
	}
	return userID, nil
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatTable, formatJSON:
		return format, nil
	default:
		return "", common.NewUserError(fmt.Sprintf("Unknown output format %q (use table or json)", format), common.ErrValidation)
	}
}

// render writes v as indented JSON, or calls table for the human format.
func render(cmd *cobra.Command, v any, table func(w io.Writer) error) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return table(w)
}
