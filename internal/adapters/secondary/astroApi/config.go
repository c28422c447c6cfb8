package astroApi

import "time"

// Config пустой BaseURL выключает расчёт карт
type Config struct {
	BaseURL    string        `envconfig:"BASE_URL"`
	ApiVersion string        `envconfig:"VERSION" default:"v1"`
	ApiKey     string        `envconfig:"API_KEY"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"30s"`
	SkipSSL    string        `envconfig:"SKIP_SSL"` // строкой, так удобнее задавать в окружении
}

func (c *Config) Enabled() bool {
	return c != nil && c.BaseURL != ""
}

func (c *Config) ShouldSkipSSL() bool {
	return c.SkipSSL == "true" || c.SkipSSL == "1" || c.SkipSSL == "True"
}
