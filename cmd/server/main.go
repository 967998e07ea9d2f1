package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"territory-arena/internal/config"
	"territory-arena/internal/logger"
	"territory-arena/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	port := flag.String("port", "", "Server port (overrides config)")
	dbPath := flag.String("db", "", "Database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if *port != "" {
		cfg.Server.Addr = ":" + *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}

	logFile, err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	if logFile != nil {
		defer logFile.Close()
	}

	srv, err := server.New(server.Config{
		Addr:   cfg.Server.Addr,
		DBPath: cfg.Database.Path,
		Game:   cfg.Game,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create server")
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
			done <- syscall.SIGTERM
		}
	}()

	<-done
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("server stopped")
}
