package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración de los procesos del sistema. Cada binario
// usa el subconjunto que le corresponde.
type Config struct {
	HTTPPort        string `env:"HTTP_PORT" envDefault:"8080"`
	GatewayBaseURL  string `env:"GATEWAY_BASE_URL" envDefault:"http://localhost:1337"`
	IdentityBaseURL string `env:"IDENTITY_BASE_URL"`
	RelayWSURL      string `env:"RELAY_WS_URL" envDefault:"ws://localhost:8080/ws"`
	DatabaseURL     string `env:"DATABASE_URL"`
	JWTSecret       string `env:"JWT_SECRET"`
	JWTTTLMinutes   int    `env:"JWT_TTL_MINUTES" envDefault:"1440"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	SendRateWindow  int    `env:"SEND_RATE_WINDOW_SECONDS" envDefault:"10"`
	SendRateMax     int    `env:"SEND_RATE_MAX" envDefault:"20"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	// El servicio de identidad vive junto al gateway salvo que se indique otro.
	if cfg.IdentityBaseURL == "" {
		cfg.IdentityBaseURL = cfg.GatewayBaseURL
	}
	return &cfg, nil
}
