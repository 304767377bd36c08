package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/go-sql-driver/mysql"
	"github.com/iftm/client-service/internal/domain"
	"github.com/iftm/client-service/internal/infrastructure/persistence"
	redisrepository "github.com/iftm/client-service/internal/infrastructure/repository/redis"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MySQL server error numbers for rows still referenced by a foreign key.
const (
	mysqlErrRowIsReferenced  = 1451
	mysqlErrRowIsReferenced2 = 1217
)

type GORMClientRepository struct {
	db     *gorm.DB
	cache  *redisrepository.RedisClientCache // nil disables caching
	logger *zap.Logger
}

// NewClientRepository creates a GORM backed repository. A nil redisClient
// disables the read cache.
func NewClientRepository(db *gorm.DB, redisClient *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *GORMClientRepository {
	r := &GORMClientRepository{
		db:     db,
		logger: logger,
	}
	if redisClient != nil {
		r.cache = redisrepository.NewRedisClientCache(redisClient, cacheTTL)
	}
	return r
}

func (r *GORMClientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	if r.cache != nil {
		cached, err := r.cache.FindByID(ctx, id)
		if err == nil {
			r.logger.Debug("client cache hit", zap.Int64("client_id", id))
			return cached, nil
		}
		if !errors.Is(err, redisrepository.ErrCacheMiss) {
			r.logger.Warn("client cache lookup failed", zap.Error(err), zap.Int64("client_id", id))
		}
	}

	var model persistence.ClientModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClientNotFound
		}
		r.logger.Error("failed to query client", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	client := model.ToDomain()

	// Saved before returning so a write that follows this read always
	// invalidates after the entry exists.
	if r.cache != nil {
		if err := r.cache.Save(ctx, client); err != nil {
			r.logger.Warn("failed to cache client", zap.Error(err), zap.Int64("client_id", id))
		}
	}

	return client, nil
}

func (r *GORMClientRepository) FindAll(ctx context.Context) ([]*domain.Client, error) {
	var models []persistence.ClientModel

	result := r.db.WithContext(ctx).Order("id").Find(&models)
	if result.Error != nil {
		r.logger.Error("failed to list clients", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	return toDomain(models), nil
}

func (r *GORMClientRepository) FindPage(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Client], error) {
	return r.findPage(ctx, req, func(db *gorm.DB) *gorm.DB { return db })
}

// FindPageByIncome selects DISTINCT rows so joins added to the scope later
// cannot duplicate clients.
func (r *GORMClientRepository) FindPageByIncome(ctx context.Context, minIncome float64, req domain.PageRequest) (*domain.Page[*domain.Client], error) {
	return r.findPage(ctx, req, func(db *gorm.DB) *gorm.DB {
		return db.Where("income >= ?", minIncome)
	})
}

func (r *GORMClientRepository) findPage(ctx context.Context, req domain.PageRequest, scope func(*gorm.DB) *gorm.DB) (*domain.Page[*domain.Client], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var total int64
	result := r.db.WithContext(ctx).
		Model(&persistence.ClientModel{}).
		Scopes(scope).
		Distinct("id").
		Count(&total)
	if result.Error != nil {
		r.logger.Error("failed to count clients", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	var models []persistence.ClientModel
	result = r.db.WithContext(ctx).
		Scopes(scope).
		Distinct().
		Order(clause.OrderByColumn{Column: clause.Column{Name: req.SortColumn()}, Desc: req.Descending()}).
		Order("id").
		Limit(req.Size).
		Offset(req.Offset()).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("failed to fetch clients page",
			zap.Error(result.Error),
			zap.Int("page", req.Page),
			zap.Int("size", req.Size),
		)
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	r.logger.Debug("fetched clients page",
		zap.Int("page", req.Page),
		zap.Int("size", req.Size),
		zap.Int("count", len(models)),
		zap.Int64("total", total),
	)

	return domain.NewPage(toDomain(models), req, total), nil
}

// Insert ignores client.ID and returns the stored client with the ID the
// database assigned.
func (r *GORMClientRepository) Insert(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	model := persistence.ClientModelFromDomain(client)
	model.ID = 0

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		r.logger.Error("failed to create client", zap.Error(result.Error))
		return nil, fmt.Errorf("failed to create client: %w", result.Error)
	}

	r.logger.Debug("client saved", zap.Int64("client_id", model.ID))

	return model.ToDomain(), nil
}

func (r *GORMClientRepository) Update(ctx context.Context, client *domain.Client) error {
	r.invalidate(ctx, client.ID)
	defer r.invalidate(ctx, client.ID)

	model := persistence.ClientModelFromDomain(client)
	result := r.db.WithContext(ctx).
		Model(&persistence.ClientModel{}).
		Where("id = ?", client.ID).
		Updates(map[string]interface{}{
			"name":       model.Name,
			"cpf":        model.CPF,
			"income":     model.Income,
			"birth_date": model.BirthDate,
			"children":   model.Children,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to update client", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func (r *GORMClientRepository) DeleteByID(ctx context.Context, id int64) error {
	r.invalidate(ctx, id)
	defer r.invalidate(ctx, id)

	result := r.db.WithContext(ctx).Delete(&persistence.ClientModel{}, id)
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return fmt.Errorf("%w: %v", domain.ErrIntegrityConflict, result.Error)
		}
		r.logger.Error("failed to delete client", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

// invalidate drops the cached copy. Writes call it before and after the
// statement, so an entry cached by a read racing the write is removed once
// the write commits.
func (r *GORMClientRepository) invalidate(ctx context.Context, id int64) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.logger.Warn("failed to invalidate cached client",
			zap.Error(err),
			zap.Int64("client_id", id))
	}
}

func toDomain(models []persistence.ClientModel) []*domain.Client {
	clients := make([]*domain.Client, len(models))
	for i := range models {
		clients[i] = models[i].ToDomain()
	}
	return clients
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlErrRowIsReferenced || mysqlErr.Number == mysqlErrRowIsReferenced2
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}

	return false
}
