package main // Entry point of the iris prediction app

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/iliyamo/paralympics-iris/internal/config"
	"github.com/iliyamo/paralympics-iris/internal/database"
	"github.com/iliyamo/paralympics-iris/internal/logging"
	"github.com/iliyamo/paralympics-iris/internal/predict"
	"github.com/iliyamo/paralympics-iris/internal/repository"
	"github.com/iliyamo/paralympics-iris/internal/router"
	"github.com/iliyamo/paralympics-iris/internal/session"
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
	logger := logging.New(logging.Config{Service: "iris", Env: cfg.Env, Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.OpenAndMigrate(cfg.DBDriver, cfg.DSN(database.AppIris), database.AppIris)
	if err != nil {
		return err
	}
	defer db.Close()

	model, err := predict.FromPath(cfg.IrisModelPath)
	if err != nil {
		return err
	}
	renderer, err := web.NewRenderer(database.AppIris)
	if err != nil {
		return err
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig())
	if rdb != nil {
		defer rdb.Close()
	}

	e := router.New(logger, renderer)
	router.RegisterIris(e, router.IrisDeps{
		Cfg:       cfg,
		DB:        db,
		Model:     model,
		Users:     repository.NewUserRepo(db),
		Iris:      repository.NewIrisRepo(db),
		Sessions:  session.NewManager(cfg.SecretKey, cfg.RememberDuration, cfg.Env == "prod"),
		RateLimit: config.LoadRateLimitConfig(),
		Redis:     rdb,
	})

	return router.Serve(e, ":"+cfg.Port, logger)
}
