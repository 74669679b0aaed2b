package main

import (
	"fmt"

	"releasetracker/app/health"
	"releasetracker/app/release"
	"releasetracker/log"
	"releasetracker/notify"
	"releasetracker/server"
	"releasetracker/utilities/config"
	"releasetracker/utilities/db"
)

func main() {
	c := config.InitConfig(config.GetEnv())

	log.SetUpLogger(c.LogLevel)
	defer log.Sync()

	db := db.InitDB(c.DatabaseDriver, c.DSN)

	store := release.NewStore(db)
	releaseService := release.ReleaseService{
		Store:    store,
		Config:   c,
		Notifier: notify.NewNotifier(c.SlackWebhookURL),
	}
	healthService := health.HealthService{
		DB: store,
	}

	log.LogAppInfo("Starting release tracker", "addr", c.Addr(), "env", c.Env)
	if err := server.InitRoutes(c, releaseService, healthService).Run(c.Addr()); err != nil {
		panic(fmt.Sprintf("Failed to start server: %v\n", err))
	}
}
