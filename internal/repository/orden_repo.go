package repository

import (
	"context"

	"obraflow/internal/dto"
	"obraflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrdenRepository interface {
	Create(ctx context.Context, o *model.Orden) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Orden, error)
	List(ctx context.Context, filter dto.OrdenFilter) ([]model.Orden, int64, error)
	Update(ctx context.Context, o *model.Orden) error
	UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoOrden) error
	NextNumero(ctx context.Context) (int, error)
	CountByEstado(ctx context.Context, estado model.EstadoOrden) (int64, error)
}

type ordenRepo struct{ db *gorm.DB }

func NewOrdenRepository(db *gorm.DB) OrdenRepository { return &ordenRepo{db: db} }

func (r *ordenRepo) Create(ctx context.Context, o *model.Orden) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *ordenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Orden, error) {
	var o model.Orden
	err := r.db.WithContext(ctx).
		Preload("Cliente").Preload("Producto").Preload("Solicitante").
		First(&o, id).Error
	return &o, err
}

func (r *ordenRepo) List(ctx context.Context, filter dto.OrdenFilter) ([]model.Orden, int64, error) {
	var ordenes []model.Orden
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Orden{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Buscar != "" {
		pattern := "%" + filter.Buscar + "%"
		q = q.Where("codigo ILIKE ? OR ubicacion ILIKE ?", pattern, pattern)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Cliente").Preload("Producto").Preload("Solicitante").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ordenes).Error
	return ordenes, total, err
}

func (r *ordenRepo) Update(ctx context.Context, o *model.Orden) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *ordenRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado model.EstadoOrden) error {
	return r.db.WithContext(ctx).Model(&model.Orden{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ordenRepo) NextNumero(ctx context.Context) (int, error) {
	// Uses a PostgreSQL sequence for atomic order number generation
	var num int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('ordenes_numero_seq')").Scan(&num).Error
	return num, err
}

func (r *ordenRepo) CountByEstado(ctx context.Context, estado model.EstadoOrden) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Orden{}).Where("estado = ?", estado).Count(&count).Error
	return count, err
}
