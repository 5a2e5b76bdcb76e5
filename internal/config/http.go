package config

type HTTP struct {
	Port               uint32   `env:"HTTP_PORT" envDefault:"8000"`
	Swagger            bool     `env:"HTTP_SWAGGER" envDefault:"true"`
	MaxPageSize        int      `env:"HTTP_MAX_PAGE_SIZE" envDefault:"100"`
	CorsAllowedOrigins []string `env:"HTTP_CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}
