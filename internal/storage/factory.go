package storage

import (
	"fmt"

	"github.com/guichet-numerique/carrousel/internal/common/config"

	"go.uber.org/zap"
)

// NewStorage creates the object storage selected by configuration
func NewStorage(logger *zap.Logger, cfg *config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "disk":
		return NewDiskStorage(logger, cfg.Path, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
