package config

import "time"

// Redis configures the product read cache. An empty Addr disables caching.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"5m"`
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}
