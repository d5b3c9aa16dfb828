package service

import (
	"context"
	"errors"
	"fmt"

	"obraflow/internal/calc"
	"obraflow/internal/model"
	"obraflow/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CalculoService resolves an order's unit table and computes material
// quantities. Pure read + compute — all writes happen in the tramo workflow,
// which re-invokes this service so client-submitted item lists are never
// trusted.
type CalculoService interface {
	Calcular(ctx context.Context, ordenID uuid.UUID, altura, largo decimal.Decimal) ([]calc.ItemCalculado, error)
	ListarAlturas(ctx context.Context, tabla string) ([]decimal.Decimal, error)
}

type calculoService struct {
	ordenRepo    repository.OrdenRepository
	productoRepo repository.ProductoRepository
	unidadRepo   repository.UnidadRepository
}

func NewCalculoService(
	ordenRepo repository.OrdenRepository,
	productoRepo repository.ProductoRepository,
	unidadRepo repository.UnidadRepository,
) CalculoService {
	return &calculoService{ordenRepo: ordenRepo, productoRepo: productoRepo, unidadRepo: unidadRepo}
}

// Calcular resolves orden → producto → tabla de unidades, looks up the unit row
// at the exact altura, and computes the per-material quantities for largo.
func (s *calculoService) Calcular(ctx context.Context, ordenID uuid.UUID, altura, largo decimal.Decimal) ([]calc.ItemCalculado, error) {
	if !altura.IsPositive() {
		return nil, calc.NewError(calc.KindValidacion, "la altura debe ser mayor a cero")
	}
	if !largo.IsPositive() {
		return nil, calc.NewError(calc.KindValidacion, "el largo debe ser mayor a cero")
	}

	orden, err := s.ordenRepo.FindByID(ctx, ordenID)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "orden no encontrada", err)
	}

	producto := orden.Producto
	if producto == nil {
		producto, err = s.productoRepo.FindByID(ctx, orden.ProductoID)
		if err != nil {
			return nil, calc.WrapError(calc.KindNoEncontrado, "producto de la orden no encontrado", err)
		}
	}

	if producto.TablaUnidades == nil || *producto.TablaUnidades == "" {
		return nil, calc.NewError(calc.KindConfiguracion,
			fmt.Sprintf("el producto %q no tiene tabla de unidades configurada", producto.Nombre))
	}
	tabla := *producto.TablaUnidades
	if !calc.TablaConocida(tabla) {
		return nil, calc.NewError(calc.KindConfiguracion,
			fmt.Sprintf("tabla de unidades desconocida: %q", tabla))
	}

	fila, err := s.unidadRepo.FindFila(ctx, tabla, altura)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, calc.NewError(calc.KindNoEncontrado,
				fmt.Sprintf("no existe fila con altura %s en la tabla %s", altura, tabla))
		}
		return nil, calc.WrapError(calc.KindPersistencia, "error consultando tabla de unidades", err)
	}

	return calc.CalcularItems(filaToCalc(fila), largo)
}

func (s *calculoService) ListarAlturas(ctx context.Context, tabla string) ([]decimal.Decimal, error) {
	if !calc.TablaConocida(tabla) {
		return nil, calc.NewError(calc.KindConfiguracion, fmt.Sprintf("tabla de unidades desconocida: %q", tabla))
	}
	alturas, err := s.unidadRepo.ListAlturas(ctx, tabla)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error listando alturas", err)
	}
	return alturas, nil
}

func filaToCalc(fila *model.FilaUnidad) calc.Fila {
	coef := make(map[string]decimal.Decimal, len(fila.Coeficientes))
	for _, c := range fila.Coeficientes {
		coef[c.Material] = c.Coeficiente
	}
	return calc.Fila{Tabla: fila.Tabla, Altura: fila.Altura, Coeficientes: coef}
}
