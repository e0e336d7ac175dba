package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/indigo-web/hostd"
	"github.com/indigo-web/hostd/config"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "configuration", "directory of the .properties files, or a .json file")
	debug := flag.Bool("debug", false, "human-readable debug logging")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hostd: logger:", err)
		os.Exit(1)
	}

	if err = run(*configPath, logger); err != nil {
		logger.Error("hostd failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}

	_ = logger.Sync()
}

func run(configPath string, logger *zap.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := hostd.New(cfg, logger).
		NotifyOnStop(func() {
			logger.Info("stopped")
		})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		_ = app.Stop()
	}()

	return app.Serve()
}

func loadConfig(path string) (*config.Config, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return config.LoadJSON(path)
	}

	return config.Load(path)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}
