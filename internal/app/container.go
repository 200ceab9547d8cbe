package app

import (
	"context"
	"log"
	"os"
	"time"

	"skill-barter/internal/config"
	"skill-barter/internal/database"
	"skill-barter/internal/database/migration"
	dbpostgres "skill-barter/internal/database/postgres"
	"skill-barter/internal/events"
	"skill-barter/internal/infrastructure/cache"
	"skill-barter/internal/infrastructure/directory"
	"skill-barter/internal/repository"
	"skill-barter/internal/search"
	"skill-barter/internal/usecase"

	"github.com/redis/go-redis/v9"
)

type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Redis *redis.Client

	SwipeUC usecase.SwipeUsecase
	MatchUC usecase.MatchUsecase
	SyncUC  usecase.SyncUsecase
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := (migration.Runner{Dir: "migrations"}).Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	rdb := cache.NewClient(cfg.Redis, logger)

	dir := directory.NewClient(cfg.Directory.BaseURL, cfg.Directory.Timeout, logger)

	index := search.NewRedisIndex(rdb, logger)
	searcher := search.NewSearcher(logger,
		search.IndexStrategy{Index: index},
		search.NewDirectoryScan(dir, cfg.Sync.PageSize),
	)

	swipeRepo := repository.NewPostgresSwipeRepository(db)
	matchRepo := repository.NewPostgresMatchRepository(db)
	publisher := events.NewRedisPublisher(rdb)

	syncUC := usecase.NewSyncUsecase(dir, index, cfg.Sync.PageSize, logger)
	swipeUC := usecase.NewSwipeUsecase(swipeRepo, matchRepo, publisher, dir, logger)
	matchUC := usecase.NewMatchUsecase(index, searcher, dir, swipeRepo, matchRepo, syncUC, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		DB:      db,
		Redis:   rdb,
		SwipeUC: swipeUC,
		MatchUC: matchUC,
		SyncUC:  syncUC,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
