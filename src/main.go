package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/Pavithiran2000/Start-Finish-Backend/logger"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/config"
	"github.com/Pavithiran2000/Start-Finish-Backend/src/server"
)

// @title Start-Finish Matching Service API
// @version 1.0
// @description Pairs waiting students with available tutors and drives the session lifecycle

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging()
	logger.Init()

	srv, err := server.NewServer(&cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
}

func setupLogging() {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(slogger)
}
