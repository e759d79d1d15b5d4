package main

import (
	"flag"
	"log"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/database"
	"github.com/Domenick1991/flightbooking/internal/logger"
)

func main() {
	down := flag.Int("down", 0, "roll back this many migrations instead of migrating up")
	flag.Parse()

	cfgPath, err := config.ConfigPath()
	if err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	migrateLog, closer, err := logger.Open(cfg.Log.Dir, "migrate", cfg.Log.Level)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer closer.Close()

	db, err := database.OpenSQL(cfg.Database.URL())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer db.Close()

	runner := database.NewRunner(db, migrateLog)
	if *down > 0 {
		err = runner.Down(*down)
	} else {
		err = runner.Up()
	}
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
}
