package orderlines

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dhruvpatel3d/printquote-backend/pkg/db/models"
)

// Repository exposes persistence helpers for draft order lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, line *models.OrderLine) error
	Get(ctx context.Context, id uuid.UUID) (*models.OrderLine, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.OrderLine, error)
	Update(ctx context.Context, line *models.OrderLine) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an order-line repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, line *models.OrderLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.OrderLine, error) {
	var line models.OrderLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repositoryImpl) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at, id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repositoryImpl) Update(ctx context.Context, line *models.OrderLine) error {
	return r.db.WithContext(ctx).Save(line).Error
}

func (r *repositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.OrderLine{}, "id = ?", id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repositoryImpl) DeleteBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.OrderLine{}, "session_id = ?", sessionID)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
