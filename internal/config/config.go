package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultData   = "."
	DefaultAssets = "/assets"
	DefaultSpeed  = 2
	DefaultAddr   = ":8077"
)

type Config struct {
	Data      string `yaml:"data"`
	Assets    string `yaml:"assets"`
	Speed     int    `yaml:"speed"`
	Cursor    int    `yaml:"cursor"`
	Autoplay  bool   `yaml:"autoplay"`
	Smoothing bool   `yaml:"smoothing"`
	Addr      string `yaml:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		Data:      DefaultData,
		Assets:    DefaultAssets,
		Speed:     DefaultSpeed,
		Smoothing: true,
		Addr:      DefaultAddr,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
