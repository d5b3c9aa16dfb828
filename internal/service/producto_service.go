package service

import (
	"context"
	"fmt"
	"strings"

	"obraflow/internal/calc"
	"obraflow/internal/dto"
	"obraflow/internal/model"
	"obraflow/internal/repository"

	"github.com/google/uuid"
)

// ProductoService defines the business logic contract for the product catalog.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	tabla, err := normalizarTabla(req.TablaUnidades)
	if err != nil {
		return nil, err
	}
	producto := model.Producto{
		Nombre:        req.Nombre,
		Descripcion:   req.Descripcion,
		TablaUnidades: tabla,
		Activo:        true,
	}
	if err := s.repo.Create(ctx, &producto); err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error creando producto", err)
	}
	return productoToResponse(&producto), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "producto no encontrado", err)
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error listando productos", err)
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "producto no encontrado", err)
	}
	if req.Nombre != "" {
		producto.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.TablaUnidades != nil {
		tabla, err := normalizarTabla(req.TablaUnidades)
		if err != nil {
			return nil, err
		}
		producto.TablaUnidades = tabla
	}
	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error actualizando producto", err)
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return calc.WrapError(calc.KindPersistencia, "error desactivando producto", err)
	}
	return nil
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return calc.WrapError(calc.KindPersistencia, "error reactivando producto", err)
	}
	return nil
}

// normalizarTabla rejects unit-table names outside the declared schemas.
// An empty string clears the assignment (the product stops being calculable).
func normalizarTabla(tabla *string) (*string, error) {
	if tabla == nil {
		return nil, nil
	}
	t := strings.TrimSpace(strings.ToLower(*tabla))
	if t == "" {
		return nil, nil
	}
	if !calc.TablaConocida(t) {
		return nil, calc.NewError(calc.KindValidacion,
			fmt.Sprintf("tabla de unidades desconocida: %q (válidas: %s)", t, strings.Join(calc.Tablas(), ", ")))
	}
	return &t, nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:            p.ID.String(),
		Nombre:        p.Nombre,
		Descripcion:   p.Descripcion,
		TablaUnidades: p.TablaUnidades,
		Activo:        p.Activo,
	}
}
