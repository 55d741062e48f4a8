// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Host    string `yaml:"host" json:"host"`
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	// Source is where the listing is loaded from at startup.
	Source struct {
		Location       string  `yaml:"location" json:"location"`
		TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		Retries        int     `yaml:"retries" json:"retries"`
		RequestsPerSec float64 `yaml:"requests_per_second" json:"requests_per_second"`
		KeyringAccount string  `yaml:"keyring_account" json:"keyring_account"`
	} `yaml:"source" json:"source"`

	Sessions struct {
		IdleMinutes  int `yaml:"idle_minutes" json:"idle_minutes"`
		SweepSeconds int `yaml:"sweep_seconds" json:"sweep_seconds"`
	} `yaml:"sessions" json:"sessions"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
	} `yaml:"rate_limit" json:"rate_limit"`

	Logging struct {
		Level string `yaml:"level" json:"level"`
		JSON  bool   `yaml:"json" json:"json"`
	} `yaml:"logging" json:"logging"`
}

func Default() Config {
	var cfg Config
	cfg.App.Host = "127.0.0.1"
	cfg.App.Port = 38471
	cfg.App.DataDir = "."
	cfg.Source.Location = "data/data.json"
	cfg.Source.TimeoutSeconds = 20
	cfg.Source.Retries = 2
	cfg.Source.RequestsPerSec = 1
	cfg.Sessions.IdleMinutes = 120
	cfg.Sessions.SweepSeconds = 60
	cfg.RateLimit.RequestsPerSecond = 20
	cfg.RateLimit.Burst = 40
	cfg.Logging.Level = "info"
	return cfg
}

// Load reads path on top of Default, so omitted keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
