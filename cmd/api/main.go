package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/llmvitals/llmvitals/internal/config"
	"github.com/llmvitals/llmvitals/internal/httpapi"
	"github.com/llmvitals/llmvitals/internal/logging"
	"github.com/llmvitals/llmvitals/internal/repo"
	"github.com/llmvitals/llmvitals/internal/repo/memory"
	"github.com/llmvitals/llmvitals/internal/repo/postgres"
)

func main() {
	path := flag.String("config", configPath(), "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	var store repo.ResultStore
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(context.Background(), cfg.DatabaseURL, logger)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		store = pg
	} else {
		logger.Warn("no_database_url_using_memory_store")
		store = memory.New()
	}

	api := httpapi.NewServer(logger, store)

	logger.Info("api_listen", zap.String("addr", cfg.APIAddr))
	if err := http.ListenAndServe(cfg.APIAddr, api.Router()); err != nil {
		log.Fatal(err)
	}
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "llmvitals.yaml"
}
