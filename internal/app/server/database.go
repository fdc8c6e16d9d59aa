package server

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/islamic-sources/internal/adapter/db"
	"github.com/eslsoft/islamic-sources/internal/config"
	"github.com/eslsoft/islamic-sources/internal/platform/logger"
)

// NewDatabase opens the catalog database and applies schema migrations.
func NewDatabase(cfg config.Config, log *logger.Logger) (*entsql.Driver, func(), error) {
	drv, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Migrate(ctx, drv); err != nil {
		_ = drv.Close()
		return nil, nil, err
	}
	log.Info("database ready", "dialect", drv.Dialect())

	return drv, func() { _ = drv.Close() }, nil
}
