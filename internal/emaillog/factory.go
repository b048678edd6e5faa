package emaillog

import (
	"fmt"

	"github.com/guichet-numerique/carrousel/internal/common/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// New creates the email log backend selected by configuration
func New(logger *zap.Logger, cfg *config.EmailLogConfig) (Log, error) {
	logger.Info("Initializing email log", zap.String("type", cfg.Type))
	switch cfg.Type {
	case "memory":
		return NewMemory(cfg.Capacity), nil
	case "redis":
		return NewRedis(logger, &redis.Options{
			Addr:     cfg.Redis.Addr,
			Username: cfg.Redis.Username,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Redis.Key, cfg.Capacity)
	default:
		return nil, fmt.Errorf("unsupported email log type: %s", cfg.Type)
	}
}
