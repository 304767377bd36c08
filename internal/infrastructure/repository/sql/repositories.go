package sqlrepository

import (
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/iftm/client-service/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Repositories struct {
	Client domain.ClientRepository
}

func NewRepositories(db *gorm.DB, redisClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *Repositories {
	return &Repositories{
		Client: NewClientRepository(db, redisClient, cacheTTL, logger),
	}
}
