package backend

import (
	"fmt"

	"gastos/internal/config"
)

// Config holds configuration for backend creation
type Config struct {
	CatalogType   CatalogType
	CatalogDBPath string

	// AMQP is optional; empty URL disables the notifier
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	AMQPAttempts int
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	cfg := Config{
		CatalogType:   CatalogType(appConfig.CatalogBackend),
		CatalogDBPath: appConfig.CatalogDBPath,
		AMQPURL:       appConfig.AMQPURL,
		AMQPExchange:  appConfig.AMQPExchange,
		AMQPQueue:     appConfig.AMQPQueue,
		AMQPAttempts:  3,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.CatalogType.IsValid() {
		return fmt.Errorf("invalid catalog type: %s", c.CatalogType)
	}
	if c.CatalogType == SQLiteCatalog && c.CatalogDBPath == "" {
		return fmt.Errorf("catalog database path is required for sqlite catalog")
	}
	return nil
}
