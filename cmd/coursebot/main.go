package main

import (
	"log"

	"github.com/itcenter/coursebot/core/cmd"
	"github.com/itcenter/coursebot/internal/app"
)

func loadConfig(path string) (cmd.ConfigCarrier, error) {
	cfg, err := app.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig:        loadConfig,
		Bootstrap:         app.Bootstrap,
	}); err != nil {
		log.Fatal(err)
	}
}
