package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/nvidela/monedero/internal/common"
	"github.com/nvidela/monedero/internal/config"
	"github.com/nvidela/monedero/internal/engine"
	"github.com/nvidela/monedero/internal/notify"
	"github.com/nvidela/monedero/internal/storage"
)

// initStorage initializes the sqlite store with proper path expansion and
// runs migrations.
func initStorage(ctx context.Context) (*storage.SQLiteStore, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine wires the full stack: sqlite store, notification sink and a
// loaded reconciler. The caller is responsible for calling store.Close.
func initEngine(ctx context.Context) (*engine.Reconciler, *storage.SQLiteStore, config.Config, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, nil, config.Config{}, err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, config.Config{}, err
	}

	notifyStore := notify.NewStore(cfg.Notifications.Path)
	if err := notifyStore.Init(notify.SchemaVersion); err != nil {
		// Notifications are best-effort; a broken cache never blocks the
		// ledger itself.
		common.LogWarn("notification store unavailable", common.Fields{"path": cfg.Notifications.Path, "error": err})
	}

	eng := engine.NewWithConfig(store, notify.NewSink(notifyStore), engine.Config{
		UndoWindow:     cfg.Undo.Window,
		ChangeLogLimit: cfg.ChangeLog.Limit,
	})
	if err := eng.Load(ctx); err != nil {
		_ = store.Close()
		return nil, nil, config.Config{}, fmt.Errorf("failed to load ledger: %w", err)
	}

	return eng, store, cfg, nil
}

// parseIDList parses a comma-separated list of row identifiers.
func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no ids given")
	}
	return ids, nil
}

// warnUnknownCategory logs an advisory warning when the category is not in
// the known set. Categories are advisory; the write has already succeeded.
func warnUnknownCategory(ctx context.Context, store *storage.SQLiteStore, category string) {
	if category == "" {
		return
	}
	known, err := store.Categories(ctx)
	if err != nil {
		return
	}
	for _, name := range known {
		if strings.EqualFold(name, category) {
			return
		}
	}
	common.LogWarn("category is not in the known category list", common.Fields{"category": category})
}
