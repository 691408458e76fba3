// Package directory opens the configured directory backend.
package directory

import (
	"context"
	"fmt"

	"hermes/internal/config"
	"hermes/internal/domain/employee"
	"hermes/internal/domain/organization"
	"hermes/internal/infrastructure/directory/keycloak"
	"hermes/internal/infrastructure/directory/memory"
	"hermes/internal/infrastructure/storage/postgres"
	"hermes/internal/infrastructure/storage/postgres/directory_repo"
	"hermes/pkg/logger"
)

// Pinger reports whether the backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend bundles the repositories of one directory.
type Backend struct {
	Name          string
	Organizations organization.Repository
	Employees     employee.Repository

	// Pinger is nil for backends that are always reachable
	Pinger Pinger

	close func()
}

// Close releases backend resources.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the backend selected by cfg. ctx must live as long as the
// backend: the Keycloak client refreshes its token with it.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		dir := memory.New()
		return &Backend{
			Name:          cfg.Backend,
			Organizations: dir.Organizations(),
			Employees:     dir.Employees(),
		}, nil

	case config.BackendKeycloak:
		client, err := keycloak.New(ctx, keycloak.Config{
			BaseURL:        cfg.Keycloak.URL,
			Realm:          cfg.Keycloak.Realm,
			ClientID:       cfg.Keycloak.ClientID,
			ClientSecret:   cfg.Keycloak.ClientSecret,
			Timeout:        cfg.Keycloak.Timeout,
			CacheResponses: cfg.Keycloak.Cache,
		})
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "keycloak directory configured",
			"url", cfg.Keycloak.URL,
			"realm", cfg.Keycloak.Realm,
			"cache", cfg.Keycloak.Cache,
		)
		return &Backend{
			Name:          cfg.Backend,
			Organizations: client.Organizations(),
			Employees:     client.Employees(),
			Pinger:        client,
		}, nil

	case config.BackendPostgres:
		poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
		poolCfg.MaxConns = cfg.Database.MaxConns
		poolCfg.MinConns = cfg.Database.MinConns

		pool, err := postgres.NewPool(ctx, poolCfg)
		if err != nil {
			return nil, err
		}
		txm := postgres.NewTxManager(pool)
		if err := postgres.EnsureSchema(ctx, txm); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Name:          cfg.Backend,
			Organizations: directory_repo.NewOrganizationRepo(txm),
			Employees:     directory_repo.NewEmployeeRepo(txm),
			Pinger:        txm,
			close:         pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown directory backend %q", cfg.Backend)
	}
}
