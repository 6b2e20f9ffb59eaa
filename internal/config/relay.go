package config

type RelayConfig struct {
	Addr         string `env:"RELAY_ADDR" envDefault:"127.0.0.1:8787"`
	MaxBodyBytes int64  `env:"RELAY_MAX_BODY_BYTES" envDefault:"65536"`
}
