package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the runtime settings read from the environment.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://blogicum.db"`
	GinMode     string `env:"GIN_MODE"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`
	AdminToken string `env:"X_ADMIN_TOKEN"`
	LoginURL   string `env:"LOGIN_URL" envDefault:"/auth/login"`

	MediaBaseURL string `env:"MEDIA_BASE_URL" envDefault:"/media/"`

	PostsPerPage   int     `env:"POSTS_PER_PAGE" envDefault:"10"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"0.33"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"3"`
}

// Load parses the environment into a Config and checks the values
// the server cannot start without.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PostsPerPage <= 0 {
		return Config{}, fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", cfg.PostsPerPage)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return Config{}, fmt.Errorf("rate limit must be positive, got rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return cfg, nil
}
