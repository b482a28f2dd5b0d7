package server

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/goliatone/go-framepanel/pkg/logging"
)

// Config holds the HTTP harness configuration. Values come from FRAMEPANEL_*
// environment variables.
type Config struct {
	Host        string `envconfig:"HOST" default:"0.0.0.0"`
	Port        int    `envconfig:"PORT" default:"8080"`
	Title       string `envconfig:"TITLE" default:"Controlled Frame Panel"`
	Renderer    string `envconfig:"RENDERER" default:"vanilla"`
	CollapseAll bool   `envconfig:"COLLAPSE_ALL" default:"false"`

	Log logging.Config
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("framepanel", &cfg); err != nil {
		return Config{}, fmt.Errorf("server: load config: %w", err)
	}
	return cfg, nil
}

// Addr formats the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
