package config

import (
	"fmt"
	"time"

	coreconfig "github.com/go-core-fx/config"
)

const defaultAPIBaseURL = "http://localhost:3000/api"

type Config struct {
	APIBaseURL string        `koanf:"api_base_url"`
	PrinterURL string        `koanf:"printer_url"`
	Timeout    time.Duration `koanf:"timeout"`
	LogFile    string        `koanf:"log_file"`
	Debug      bool          `koanf:"debug"`
}

func New() (Config, error) {
	cfg := Config{
		APIBaseURL: defaultAPIBaseURL,
		Timeout:    10 * time.Second,
		LogFile:    "./pos-terminal.log",
		Debug:      false,
	}

	if err := coreconfig.Load(&cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}

	return cfg, nil
}
