package main

import (
	"context"
	"fmt"

	"github.com/iliyamo/hairfit-server/internal/config"
	"github.com/iliyamo/hairfit-server/internal/database"
	"github.com/iliyamo/hairfit-server/internal/repository"
	"github.com/iliyamo/hairfit-server/internal/repository/memstore"
)

// stores is the set of repositories the services run on.
type stores struct {
	users     repository.Users
	tokens    repository.RefreshTokens
	salons    repository.Salons
	members   repository.Members
	histories repository.SynthesisHistories
	tx        repository.Transactor
}

// openStore connects to MySQL and applies migrations, or builds the
// in-memory store when STORE=memory.  The returned func releases it.
func openStore(ctx context.Context, cfg config.Config) (stores, func(), error) {
	if cfg.Store == "memory" {
		m := memstore.New()
		return stores{
			users:     m.Users(),
			tokens:    m.Tokens(),
			salons:    m.Salons(),
			members:   m.Members(),
			histories: m.Histories(),
			tx:        m.Transactor(),
		}, func() {}, nil
	}

	db, err := database.Open(ctx, database.Options{
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		Name: cfg.DBName,
	})
	if err != nil {
		return stores{}, nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return stores{}, nil, fmt.Errorf("migrate: %w", err)
	}
	return stores{
		users:     repository.NewUserRepo(db),
		tokens:    repository.NewTokenRepo(db),
		salons:    repository.NewSalonRepo(db),
		members:   repository.NewMemberRepo(db),
		histories: repository.NewSynthesisRepo(db),
		tx:        database.NewTransactor(db),
	}, func() { _ = db.Close() }, nil
}
