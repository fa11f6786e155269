package main

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/catalog-api/internal/config"
	"github.com/rogerio-castellano/catalog-api/internal/db"
	"github.com/rogerio-castellano/catalog-api/internal/redissvc"
	"github.com/rogerio-castellano/catalog-api/internal/repo"
)

type stores struct {
	products repo.ProductRepository
	users    repo.UserRepository
	close    func()
}

// openStores connects the backend chosen by STORE_DRIVER.
func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverRedis:
		rdb, err := redissvc.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &stores{
			products: repo.NewRedisProductRepository(rdb, redissvc.KeyPrefix),
			users:    repo.NewRedisUserRepository(rdb, redissvc.KeyPrefix),
			close:    func() { _ = rdb.Close() },
		}, nil

	case config.DriverSQLite, config.DriverPostgres:
		database, err := db.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
		if err != nil {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
		return &stores{
			products: repo.NewSQLProductRepository(database),
			users:    repo.NewSQLUserRepository(database),
			close:    func() { _ = database.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
