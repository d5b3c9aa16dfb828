package repository

import (
	"context"
	"time"

	"obraflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReciboRepository interface {
	Create(ctx context.Context, rec *model.Recibo) error
	Update(ctx context.Context, rec *model.Recibo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Recibo, error)
	FindLatestByOrden(ctx context.Context, ordenID uuid.UUID) (*model.Recibo, error)
	// ListPendingRetries returns recibos stuck in 'pendiente' whose next_retry_at
	// has passed — consumed by the retry cron.
	ListPendingRetries(ctx context.Context, before time.Time, limit int) ([]model.Recibo, error)
}

type reciboRepo struct{ db *gorm.DB }

func NewReciboRepository(db *gorm.DB) ReciboRepository { return &reciboRepo{db: db} }

func (r *reciboRepo) Create(ctx context.Context, rec *model.Recibo) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *reciboRepo) Update(ctx context.Context, rec *model.Recibo) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *reciboRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Recibo, error) {
	var rec model.Recibo
	err := r.db.WithContext(ctx).First(&rec, id).Error
	return &rec, err
}

func (r *reciboRepo) FindLatestByOrden(ctx context.Context, ordenID uuid.UUID) (*model.Recibo, error) {
	var rec model.Recibo
	err := r.db.WithContext(ctx).
		Where("orden_id = ?", ordenID).
		Order("created_at DESC").
		First(&rec).Error
	return &rec, err
}

func (r *reciboRepo) ListPendingRetries(ctx context.Context, before time.Time, limit int) ([]model.Recibo, error) {
	var recibos []model.Recibo
	err := r.db.WithContext(ctx).
		Where("estado = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?", "pendiente", before).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&recibos).Error
	return recibos, err
}
