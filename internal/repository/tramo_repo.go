package repository

import (
	"context"

	"obraflow/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TramoRepository persists order segments and their computed line items.
// The tx-suffixed operations participate in the delete-then-insert replacement
// of items, which must run inside one transaction — two concurrent edits could
// otherwise leave a tramo with zero items.
type TramoRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, t *model.Tramo) error
	CreateItemsTx(ctx context.Context, tx *gorm.DB, items []model.TramoItem) error
	UpdateTx(ctx context.Context, tx *gorm.DB, t *model.Tramo) error
	DeleteItemsTx(ctx context.Context, tx *gorm.DB, tramoID uuid.UUID) error
	// DeleteHeader removes a tramo row without touching items — the compensating
	// action when item insertion fails outside a transaction.
	DeleteHeader(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Tramo, error)
	ListByOrden(ctx context.Context, ordenID uuid.UUID, estados []model.EstadoTramo) ([]model.Tramo, error)
	ListItemsByTramoIDs(ctx context.Context, tramoIDs []uuid.UUID) ([]model.TramoItem, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoTramo) error
	CountByEstados(ctx context.Context, estados []model.EstadoTramo) (int64, error)
	SumLargoByEstados(ctx context.Context, estados []model.EstadoTramo) (decimal.Decimal, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type tramoRepo struct{ db *gorm.DB }

func NewTramoRepository(db *gorm.DB) TramoRepository { return &tramoRepo{db: db} }

func (r *tramoRepo) DB() *gorm.DB { return r.db }

func (r *tramoRepo) CreateTx(ctx context.Context, tx *gorm.DB, t *model.Tramo) error {
	return tx.WithContext(ctx).Create(t).Error
}

func (r *tramoRepo) CreateItemsTx(ctx context.Context, tx *gorm.DB, items []model.TramoItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *tramoRepo) UpdateTx(ctx context.Context, tx *gorm.DB, t *model.Tramo) error {
	return tx.WithContext(ctx).Model(&model.Tramo{}).Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"altura":      t.Altura,
			"largo":       t.Largo,
			"descripcion": t.Descripcion,
		}).Error
}

func (r *tramoRepo) DeleteItemsTx(ctx context.Context, tx *gorm.DB, tramoID uuid.UUID) error {
	return tx.WithContext(ctx).Where("tramo_id = ?", tramoID).Delete(&model.TramoItem{}).Error
}

func (r *tramoRepo) DeleteHeader(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tramo{}, id).Error
}

func (r *tramoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Tramo, error) {
	var t model.Tramo
	err := r.db.WithContext(ctx).Preload("Items").First(&t, id).Error
	return &t, err
}

func (r *tramoRepo) ListByOrden(ctx context.Context, ordenID uuid.UUID, estados []model.EstadoTramo) ([]model.Tramo, error) {
	var tramos []model.Tramo
	q := r.db.WithContext(ctx).Where("orden_id = ?", ordenID)
	if len(estados) > 0 {
		q = q.Where("estado IN ?", estados)
	}
	err := q.Preload("Items").Order("created_at ASC").Find(&tramos).Error
	return tramos, err
}

func (r *tramoRepo) ListItemsByTramoIDs(ctx context.Context, tramoIDs []uuid.UUID) ([]model.TramoItem, error) {
	if len(tramoIDs) == 0 {
		return nil, nil
	}
	var items []model.TramoItem
	err := r.db.WithContext(ctx).Where("tramo_id IN ?", tramoIDs).Find(&items).Error
	return items, err
}

func (r *tramoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoTramo) error {
	return r.db.WithContext(ctx).Model(&model.Tramo{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *tramoRepo) CountByEstados(ctx context.Context, estados []model.EstadoTramo) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tramo{}).Where("estado IN ?", estados).Count(&count).Error
	return count, err
}

func (r *tramoRepo) SumLargoByEstados(ctx context.Context, estados []model.EstadoTramo) (decimal.Decimal, error) {
	var largo decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Tramo{}).
		Select("SUM(largo)").
		Where("estado IN ?", estados).
		Scan(&largo).Error
	if err != nil || !largo.Valid {
		return decimal.Zero, err
	}
	return largo.Decimal, nil
}
