package stores

import (
	"fmt"

	"github.com/rs/zerolog"
)

// NewStore creates a new store based on the configuration
func NewStore(config *StoreConfig, log zerolog.Logger) (Store, error) {
	switch config.Type {
	case "sqlite":
		s, err := NewSQLiteStore(config, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresStore(config, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
