package repository

import (
	"context"
	"fmt"

	"obraflow/internal/calc"
	"obraflow/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnidadRepository reads the per-product-family unit-lookup tables. Heights are
// matched exactly — discrete, enumerated options, never interpolated.
type UnidadRepository interface {
	FindFila(ctx context.Context, tabla string, altura decimal.Decimal) (*model.FilaUnidad, error)
	ListAlturas(ctx context.Context, tabla string) ([]decimal.Decimal, error)
	// ValidarEsquemas checks every persisted coefficient against the declared
	// table schemas. Run at startup so schema drift fails fast, not at call time.
	ValidarEsquemas(ctx context.Context) error
	SeedFilas(ctx context.Context, filas []model.FilaUnidad) error
}

type unidadRepo struct{ db *gorm.DB }

func NewUnidadRepository(db *gorm.DB) UnidadRepository { return &unidadRepo{db: db} }

func (r *unidadRepo) FindFila(ctx context.Context, tabla string, altura decimal.Decimal) (*model.FilaUnidad, error) {
	var fila model.FilaUnidad
	err := r.db.WithContext(ctx).
		Preload("Coeficientes").
		Where("tabla = ? AND altura = ?", tabla, altura).
		First(&fila).Error
	return &fila, err
}

func (r *unidadRepo) ListAlturas(ctx context.Context, tabla string) ([]decimal.Decimal, error) {
	var alturas []decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&model.FilaUnidad{}).
		Where("tabla = ?", tabla).
		Order("altura ASC").
		Pluck("altura", &alturas).Error
	return alturas, err
}

func (r *unidadRepo) ValidarEsquemas(ctx context.Context) error {
	var filas []model.FilaUnidad
	if err := r.db.WithContext(ctx).Preload("Coeficientes").Find(&filas).Error; err != nil {
		return err
	}
	for _, fila := range filas {
		if !calc.TablaConocida(fila.Tabla) {
			return fmt.Errorf("fila %s: tabla de unidades no declarada: %q", fila.ID, fila.Tabla)
		}
		for _, coef := range fila.Coeficientes {
			if !calc.EsMaterialValido(fila.Tabla, coef.Material) {
				return fmt.Errorf("fila %s (tabla %s, altura %s): material fuera de esquema: %q",
					fila.ID, fila.Tabla, fila.Altura, coef.Material)
			}
		}
	}
	return nil
}

// SeedFilas inserts unit rows, skipping (tabla, altura) pairs that already exist.
func (r *unidadRepo) SeedFilas(ctx context.Context, filas []model.FilaUnidad) error {
	for i := range filas {
		fila := &filas[i]
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.FilaUnidad{}).
			Where("tabla = ? AND altura = ?", fila.Tabla, fila.Altura).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := r.db.WithContext(ctx).Create(fila).Error; err != nil {
			return err
		}
	}
	return nil
}
