package server

import (
	"github.com/caarlos0/env/v11"
)

// Config controls the delivery server. Values come from the
// environment so deployments retune without code changes; the serve
// command's flags override what it chooses to.
type Config struct {
	Addr        string   `env:"EQREPLAY_ADDR" envDefault:":8077"`
	Data        string   `env:"EQREPLAY_DATA" envDefault:"."`
	Assets      string   `env:"EQREPLAY_ASSETS" envDefault:""`
	CORSOrigins []string `env:"EQREPLAY_CORS_ORIGINS" envDefault:"*"`
}

// LoadConfigFromEnv loads server configuration, filling anything unset
// with the envDefault values.
func LoadConfigFromEnv() Config {
	var cfg Config
	_ = env.Parse(&cfg)
	if cfg.Addr == "" {
		cfg.Addr = ":8077"
	}
	if cfg.Data == "" {
		cfg.Data = "."
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	return cfg
}
