package repository

import (
	"context"

	"obraflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdjuntoRepository interface {
	Create(ctx context.Context, a *model.Adjunto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Adjunto, error)
	ListByOrden(ctx context.Context, ordenID uuid.UUID) ([]model.Adjunto, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type adjuntoRepo struct{ db *gorm.DB }

func NewAdjuntoRepository(db *gorm.DB) AdjuntoRepository { return &adjuntoRepo{db: db} }

func (r *adjuntoRepo) Create(ctx context.Context, a *model.Adjunto) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *adjuntoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Adjunto, error) {
	var a model.Adjunto
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *adjuntoRepo) ListByOrden(ctx context.Context, ordenID uuid.UUID) ([]model.Adjunto, error) {
	var adjuntos []model.Adjunto
	err := r.db.WithContext(ctx).Where("orden_id = ?", ordenID).Order("created_at DESC").Find(&adjuntos).Error
	return adjuntos, err
}

func (r *adjuntoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Adjunto{}, id).Error
}
