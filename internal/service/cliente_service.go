package service

import (
	"context"

	"obraflow/internal/calc"
	"obraflow/internal/dto"
	"obraflow/internal/model"
	"obraflow/internal/repository"

	"github.com/google/uuid"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	cliente := model.Cliente{
		Nombre:    req.Nombre,
		Documento: req.Documento,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, &cliente); err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error creando cliente", err)
	}
	return clienteToResponse(&cliente), nil
}

func (s *clienteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "cliente no encontrado", err)
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error listando clientes", err)
	}
	items := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		items = append(items, *clienteToResponse(&clientes[i]))
	}
	return &dto.ClienteListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "cliente no encontrado", err)
	}
	if req.Nombre != "" {
		cliente.Nombre = req.Nombre
	}
	if req.Documento != nil {
		cliente.Documento = req.Documento
	}
	if req.Telefono != nil {
		cliente.Telefono = req.Telefono
	}
	if req.Email != nil {
		cliente.Email = req.Email
	}
	if req.Direccion != nil {
		cliente.Direccion = req.Direccion
	}
	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error actualizando cliente", err)
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return calc.WrapError(calc.KindPersistencia, "error desactivando cliente", err)
	}
	return nil
}

func (s *clienteService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Reactivar(ctx, id); err != nil {
		return calc.WrapError(calc.KindPersistencia, "error reactivando cliente", err)
	}
	return nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Documento: c.Documento,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		Activo:    c.Activo,
	}
}
