package main

import (
	"flag"
	"log"
	"os"

	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/di"
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s location=%q backend=%s", cfg.Environment, cfg.Location.Name, cfg.Backend.Type)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Printf("pipeline error: %v", err)
		os.Exit(1)
	}
}
