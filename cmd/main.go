package main

import (
	"context"
	"os"

	"github.com/desertthunder/ymport/internal/services"
	"github.com/desertthunder/ymport/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	youtube := services.NewYouTubeClient(config.Credentials.YouTube.ProxyURL, nil)
	if config.Credentials.YouTube.HeadersPath != "" {
		youtube.SetAuthFile(config.Credentials.YouTube.HeadersPath)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		YouTube: youtube,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "ymport",
		Usage:    "Import playlist export files into YouTube Music",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
