package main

import (
	"os"

	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/app"
	config "github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/internal/cfg"
	"github.com/Mahamat-Daoud-Aldjiday/ALDJIDAYGESTION/pkg/logger"
)

func main() {
	envErr := config.LoadEnv(".env")

	log := logger.NewSlogLogger()
	if envErr != nil {
		log.Warnf("failed to read .env: %v", envErr)
	}

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		os.Exit(1)
	}
}
