// Package main provides the entry point for the mediadiet server application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/samber/do/v2"

	"github.com/mediadiet/mediadiet/internal/config"
	"github.com/mediadiet/mediadiet/internal/di"
	"github.com/mediadiet/mediadiet/internal/logger"
)

func main() {
	app := kingpin.New("mediadiet", "Media diary API server.")
	configPath := app.Flag("config", "Path to a YAML configuration file.").
		Envar("MEDIADIET_CONFIG").
		ExistingFile()
	printEnv := app.Flag("print-env", "Print the supported environment variables and exit.").Bool()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *printEnv {
		fmt.Println(config.Usage())
		return
	}

	// Create DI container
	injector := di.NewContainer(*configPath)

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// Handles implementing do.Shutdownable are closed in reverse dependency
	// order: HTTP server first, then search index, cache and database.
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}

	log.Info("Goodbye")
	_ = log.Close()
}
