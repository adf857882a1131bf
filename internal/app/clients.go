package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/memoquiz-backend/internal/clients/redis"
	"github.com/yungbote/memoquiz-backend/internal/platform/logger"
	"github.com/yungbote/memoquiz-backend/internal/platform/openai"
)

type Clients struct {
	// Both are nil when not configured.
	OpenAI   openai.Client
	PoolLock *redis.PoolLock
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if cfg.RedisAddr != "" {
		lock, err := redis.NewPoolLock(log, redis.LockConfig{
			Addr: cfg.RedisAddr,
			Key:  cfg.RedisLockKey,
			TTL:  cfg.RedisLockTTL,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis pool lock: %w", err)
		}
		out.PoolLock = lock
	} else {
		log.Info("REDIS_ADDR not set; quiz pool lock is in-process only")
	}

	// Openai
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		client, err := openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.GenerationTimeout,
			MaxRetries: cfg.OpenAIMaxRetries,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.OpenAI = client
	} else {
		log.Warn("OPENAI_API_KEY not set; new questions cannot be synthesized")
	}
	return out, nil
}

func (c Clients) Close() {
	if c.PoolLock != nil {
		_ = c.PoolLock.Close()
	}
}
