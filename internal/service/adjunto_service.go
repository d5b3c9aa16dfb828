package service

import (
	"context"
	"io"
	"os"
	"time"

	"obraflow/internal/calc"
	"obraflow/internal/dto"
	"obraflow/internal/infra"
	"obraflow/internal/model"
	"obraflow/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type AdjuntoService interface {
	Subir(ctx context.Context, ordenID, subidoPorID uuid.UUID, nombre, tipoMime string, tamano int64, src io.Reader) (*dto.AdjuntoResponse, error)
	ListarPorOrden(ctx context.Context, ordenID uuid.UUID) ([]dto.AdjuntoResponse, error)
	// Abrir returns the attachment row plus an open file handle; the caller
	// closes the handle after streaming it.
	Abrir(ctx context.Context, id uuid.UUID) (*model.Adjunto, *os.File, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type adjuntoService struct {
	repo      repository.AdjuntoRepository
	ordenRepo repository.OrdenRepository
	storage   *infra.AdjuntoStorage
}

func NewAdjuntoService(repo repository.AdjuntoRepository, ordenRepo repository.OrdenRepository, storage *infra.AdjuntoStorage) AdjuntoService {
	return &adjuntoService{repo: repo, ordenRepo: ordenRepo, storage: storage}
}

func (s *adjuntoService) Subir(ctx context.Context, ordenID, subidoPorID uuid.UUID, nombre, tipoMime string, tamano int64, src io.Reader) (*dto.AdjuntoResponse, error) {
	if _, err := s.ordenRepo.FindByID(ctx, ordenID); err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "orden no encontrada", err)
	}

	ruta, err := s.storage.Save(ordenID, nombre, src)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error guardando archivo", err)
	}

	adjunto := model.Adjunto{
		OrdenID:       ordenID,
		NombreArchivo: nombre,
		Ruta:          ruta,
		TipoMime:      tipoMime,
		Tamano:        tamano,
		SubidoPorID:   subidoPorID,
	}
	if err := s.repo.Create(ctx, &adjunto); err != nil {
		if rmErr := s.storage.Remove(ruta); rmErr != nil {
			log.Error().Err(rmErr).Str("ruta", ruta).Msg("no se pudo limpiar el archivo huérfano")
		}
		return nil, calc.WrapError(calc.KindPersistencia, "error registrando adjunto", err)
	}

	resp := adjuntoToResponse(&adjunto)
	return &resp, nil
}

func (s *adjuntoService) ListarPorOrden(ctx context.Context, ordenID uuid.UUID) ([]dto.AdjuntoResponse, error) {
	adjuntos, err := s.repo.ListByOrden(ctx, ordenID)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error listando adjuntos", err)
	}
	resp := make([]dto.AdjuntoResponse, 0, len(adjuntos))
	for i := range adjuntos {
		resp = append(resp, adjuntoToResponse(&adjuntos[i]))
	}
	return resp, nil
}

func (s *adjuntoService) Abrir(ctx context.Context, id uuid.UUID) (*model.Adjunto, *os.File, error) {
	adjunto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, calc.WrapError(calc.KindNoEncontrado, "adjunto no encontrado", err)
	}
	f, err := s.storage.Open(adjunto.Ruta)
	if err != nil {
		return nil, nil, calc.WrapError(calc.KindPersistencia, "error abriendo archivo", err)
	}
	return adjunto, f, nil
}

func (s *adjuntoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	adjunto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return calc.WrapError(calc.KindNoEncontrado, "adjunto no encontrado", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return calc.WrapError(calc.KindPersistencia, "error eliminando adjunto", err)
	}
	if err := s.storage.Remove(adjunto.Ruta); err != nil {
		log.Error().Err(err).Str("ruta", adjunto.Ruta).Msg("no se pudo borrar el archivo del adjunto")
	}
	return nil
}

func adjuntoToResponse(a *model.Adjunto) dto.AdjuntoResponse {
	return dto.AdjuntoResponse{
		ID:            a.ID.String(),
		OrdenID:       a.OrdenID.String(),
		NombreArchivo: a.NombreArchivo,
		TipoMime:      a.TipoMime,
		Tamano:        a.Tamano,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
}
