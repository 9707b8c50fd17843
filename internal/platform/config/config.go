package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"local"`

	// X API credentials. The bearer token covers the read side (stream,
	// lookups, rules); the OAuth 1.0a keypairs sign the write side (posting
	// replies).
	XBearerToken       string `env:"X_BEARER_TOKEN,required"`
	XAPIKey            string `env:"X_API_KEY,required"`
	XAPISecret         string `env:"X_API_SECRET,required"`
	XAccessToken       string `env:"X_ACCESS_TOKEN,required"`
	XAccessTokenSecret string `env:"X_ACCESS_TOKEN_SECRET,required"`

	BotUsername string `env:"BOT_USERNAME,required"`
	WebsiteURL  string `env:"WEBSITE_URL"`

	GrokAPIKey  string `env:"GROK_API_KEY"`
	GrokModel   string `env:"GROK_MODEL" envDefault:"grok-4-1-fast-reasoning"`
	GrokBaseURL string `env:"GROK_BASE_URL" envDefault:"https://api.x.ai/v1"`

	BotPlugin         string `env:"BOT_PLUGIN" envDefault:"prediction-market"`
	PluginSandboxMode bool   `env:"PLUGIN_SANDBOX_MODE" envDefault:"true"`

	XAPIBaseURL      string        `env:"X_API_BASE_URL" envDefault:"https://api.x.com/2"`
	StreamMaxRetries int           `env:"STREAM_MAX_RETRIES" envDefault:"20"`
	StreamBaseDelay  time.Duration `env:"STREAM_BASE_DELAY" envDefault:"1s"`
	StreamMaxDelay   time.Duration `env:"STREAM_MAX_DELAY" envDefault:"5m"`

	RateLimitRPS int `env:"RATE_LIMIT_RPS" envDefault:"1"`
	HealthPort   int `env:"HEALTH_PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
