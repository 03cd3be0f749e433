package main

import (
	"log/slog"
	"os"

	"github.com/alexandernizov/messageboard/internal/app"
	"github.com/alexandernizov/messageboard/internal/config"
	"github.com/alexandernizov/messageboard/internal/pkg/logger"
	"github.com/alexandernizov/messageboard/internal/pkg/logger/sl"
)

func main() {
	//Config
	cfg := config.MustLoad()

	//Logger
	log := logger.New(cfg.Env)
	log.Info("starting application",
		slog.String("env", cfg.Env),
		slog.String("addr", cfg.HTTP.Address),
	)

	//Application
	application, err := app.New(log, cfg)
	if err != nil {
		log.Error("can't start application", sl.Err(err))
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		log.Error("http server stopped", sl.Err(err))
		application.Close()
		os.Exit(1)
	}
}
