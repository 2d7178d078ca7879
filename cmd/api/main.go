package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"

	"storefront/internal/analytics"
	"storefront/internal/clock"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/auth"
	"storefront/internal/infra/db"
	logs "storefront/internal/infra/log"
	"storefront/internal/infra/memory"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/resolver"
	"storefront/internal/seed"
	"storefront/internal/server"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		injectInfra(),
		injectStorage(),
		injectUsecase(),
		injectHandler(),
		fx.Invoke(
			runSeed,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.Load,
		logs.New,
		func() clock.Clock { return clock.Real{} },
		func(cfg *config.Config) *rand.Rand { return seed.NewRand(cfg.Seed.RandSeed) },
		func(cfg *config.Config) usecase.PasswordHasher { return auth.NewBcryptHasher(cfg.Auth.BcryptCost) },
		func(cfg *config.Config, c clock.Clock) (usecase.AccessTokenIssuer, error) {
			return auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, c)
		},
	)
}

type storageOut struct {
	fx.Out

	Repos repo.Repos
	Tx    repo.TransactionManager
	Users repo.UserRepository
}

func injectStorage() fx.Option {
	return fx.Provide(newStorage)
}

// storage.driverでmemory / postgresを切り替える
func newStorage(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger, c clock.Clock) (storageOut, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		gormDB, err := db.Connect(cfg.Postgres, cfg.Env.Debug)
		if err != nil {
			return storageOut{}, err
		}
		if err := db.Migrate(gormDB, log); err != nil {
			return storageOut{}, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return storageOut{}, errors.Wrap(err, "get sql.DB")
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return sqlDB.Close() },
		})

		log.Info("storage: postgres", slog.String("host", cfg.Postgres.Host), slog.String("db", cfg.Postgres.DBName))
		repos := infraRepo.NewRepos(gormDB)
		return storageOut{Repos: repos, Tx: infraRepo.NewTxManagerGorm(gormDB), Users: repos.Users}, nil

	case config.StorageMemory:
		log.Info("storage: memory")
		store := memory.NewStore(c)
		repos := store.Repos()
		return storageOut{Repos: repos, Tx: store, Users: repos.Users}, nil
	}
	return storageOut{}, errors.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		resolver.New,
		func(r repo.Repos, res *resolver.Resolver, c clock.Clock) *analytics.Aggregator {
			return analytics.NewAggregator(r, res.Product, c)
		},
		usecase.NewAuditor,
		usecase.NewAuthUsecase,
		usecase.NewProductUsecase,
		usecase.NewReviewUsecase,
		usecase.NewCartUsecase,
		usecase.NewOrderUsecase,
		usecase.NewAdminUsecase,
	)
}

func injectHandler() fx.Option {
	return fx.Provide(
		handler.NewAuthHandler,
		handler.NewProductHandler,
		handler.NewCartHandler,
		handler.NewOrderHandler,
		handler.NewAdminProductHandler,
		handler.NewAdminUserHandler,
		handler.NewAdminOrderHandler,
		func(
			a *handler.AuthHandler,
			p *handler.ProductHandler,
			c *handler.CartHandler,
			o *handler.OrderHandler,
			ap *handler.AdminProductHandler,
			au *handler.AdminUserHandler,
			ao *handler.AdminOrderHandler,
		) server.Handlers {
			return server.Handlers{
				Auth:         a,
				Product:      p,
				Cart:         c,
				Order:        o,
				AdminProduct: ap,
				AdminUser:    au,
				AdminOrder:   ao,
			}
		},
		server.New,
	)
}

// 空のストアにだけデモデータを入れる
func runSeed(cfg *config.Config, repos repo.Repos, c clock.Clock, rng *rand.Rand, log *slog.Logger) error {
	if !cfg.Seed.Enabled {
		return nil
	}
	_, err := seed.New(repos, c, rng, log).Run(context.Background())
	return err
}

func startServer(lc fx.Lifecycle, srv *server.Server, log *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", slog.Any("error", err))
					os.Exit(1)
				}
			}()
			return nil
		},
		OnStop: srv.Shutdown,
	})
}
