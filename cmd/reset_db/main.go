package main

import (
	"context"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/storage"
	"taxiservice/storage/postgres"
	"taxiservice/storage/sqlite"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	var (
		stg storage.IStorage
		err error
	)
	if cfg.DBDriver == config.DriverSQLite {
		stg, err = sqlite.New(ctx, cfg, log)
	} else {
		stg, err = postgres.New(ctx, cfg, log)
	}
	if err != nil {
		panic(err)
	}
	defer stg.Close()

	resetter, ok := stg.(storage.Resetter)
	if !ok {
		log.Error("storage backend does not support reset", logger.String("driver", cfg.DBDriver))
		return
	}

	// Schema and migration history stay; only fleet data is removed.
	if err := resetter.Reset(ctx); err != nil {
		log.Error("failed to reset tables", logger.Error(err))
		return
	}
	log.Info("successfully emptied manufacturers, cars, drivers and their assignments")
}
