package main // Entry point of the paralympics catalog app

import (
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/paralympics-iris/internal/config"
	"github.com/iliyamo/paralympics-iris/internal/database"
	"github.com/iliyamo/paralympics-iris/internal/logging"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/router"
	"github.com/iliyamo/paralympics-iris/internal/service"
	"github.com/iliyamo/paralympics-iris/internal/utils"
	"github.com/iliyamo/paralympics-iris/internal/web"
)

func main() {
	_ = godotenv.Load() // a missing .env is fine

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{Service: "paralympics", Env: cfg.Env, Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.OpenAndMigrate(cfg.DBDriver, cfg.DSN(database.AppParalympics), database.AppParalympics)
	if err != nil {
		return err
	}
	defer db.Close()

	renderer, err := web.NewRenderer(database.AppParalympics)
	if err != nil {
		return err
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	} else {
		logger.Info("redis disabled; API cache off, local rate limiter in use")
	}
	if cfg.AMQPURL == "" {
		logger.Info("AMQP_URL not set; catalog events disabled")
	}

	users := repository.NewUserRepo(db)
	e := router.New(logger, renderer)
	router.RegisterParalympics(e, router.ParalympicsDeps{
		Cfg:       cfg,
		DB:        db,
		Users:     users,
		Principal: users,
		Regions:   repository.NewRegionRepo(db),
		Events:    repository.NewEventRepo(db),
		Publisher: service.NewPublisher(cfg.AMQPURL),
		Issuer:    utils.NewTokenIssuer(cfg.SecretKey),
		Now:       time.Now,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
	})

	return router.Serve(e, ":"+cfg.Port, logger)
}
