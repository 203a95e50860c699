package server

import (
	"context"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"gorm.io/gorm"
)

// Storage bundles the repositories of one backend.
type Storage struct {
	Products   repositories.ProductRepository
	Categories repositories.CategoryRepository
	Users      repositories.UserRepository
	Sales      repositories.SaleRepository
	Tx         repositories.TxRunner
	Ping       func(ctx context.Context) error
}

// GORMStorage returns repositories backed by db.
func GORMStorage(db *gorm.DB) Storage {
	return Storage{
		Products:   repositories.NewGORMProductRepository(db),
		Categories: repositories.NewGORMCategoryRepository(db),
		Users:      repositories.NewGORMUserRepository(db),
		Sales:      repositories.NewGORMSaleRepository(db),
		Tx:         repositories.NewGORMTxRunner(db),
		Ping:       func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
}

// MemoryStorage returns repositories backed by store.
func MemoryStorage(store *repositories.MemoryStore) Storage {
	return Storage{
		Products:   store.Products(),
		Categories: store.Categories(),
		Users:      store.Users(),
		Sales:      store.Sales(),
		Tx:         store.TxRunner(),
	}
}

// NewDeps builds the services on top of storage. publisher may be nil.
func NewDeps(cfg *config.Config, s Storage, publisher services.EventPublisher) Deps {
	return Deps{
		Config:     cfg,
		Auth:       services.NewAuthService(s.Users, cfg.JWT.Secret, cfg.JWT.ExpiresIn),
		Categories: services.NewCategoryService(s.Categories),
		Products:   services.NewProductService(s.Products, s.Categories),
		Users:      services.NewUserService(s.Users),
		Sales:      services.NewSaleService(s.Tx, s.Sales, publisher),
		PingDB:     s.Ping,
	}
}
