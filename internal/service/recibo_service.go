package service

import (
	"context"
	"time"

	"obraflow/internal/calc"
	"obraflow/internal/dto"
	"obraflow/internal/model"
	"obraflow/internal/repository"
	"obraflow/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReciboService interface {
	// Solicitar registers a recibo request and enqueues its generation.
	// The PDF is rendered asynchronously by the worker pool.
	Solicitar(ctx context.Context, ordenID uuid.UUID, req dto.SolicitarReciboRequest) (*dto.ReciboResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ReciboResponse, error)
	ObtenerPorOrden(ctx context.Context, ordenID uuid.UUID) (*dto.ReciboResponse, error)
}

type reciboService struct {
	repo       repository.ReciboRepository
	ordenRepo  repository.OrdenRepository
	dispatcher *worker.Dispatcher
}

func NewReciboService(repo repository.ReciboRepository, ordenRepo repository.OrdenRepository, dispatcher *worker.Dispatcher) ReciboService {
	return &reciboService{repo: repo, ordenRepo: ordenRepo, dispatcher: dispatcher}
}

func (s *reciboService) Solicitar(ctx context.Context, ordenID uuid.UUID, req dto.SolicitarReciboRequest) (*dto.ReciboResponse, error) {
	orden, err := s.ordenRepo.FindByID(ctx, ordenID)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "orden no encontrada", err)
	}
	if orden.Estado == model.OrdenCancelada {
		return nil, calc.NewError(calc.KindValidacion, "no se puede emitir un recibo para una orden cancelada")
	}

	recibo := model.Recibo{
		OrdenID:      orden.ID,
		EmailDestino: req.EmailDestino,
		Estado:       model.ReciboPendiente,
	}
	if err := s.repo.Create(ctx, &recibo); err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error creando recibo", err)
	}

	payload := worker.ReciboJobPayload{ReciboID: recibo.ID.String(), OrdenID: orden.ID.String()}
	if err := s.dispatcher.EnqueueRecibo(ctx, payload); err != nil {
		// The row stays 'pendiente'; retry_cron picks it up later.
		log.Error().Err(err).Str("recibo_id", recibo.ID.String()).Msg("no se pudo encolar el recibo")
	}

	return reciboToResponse(&recibo), nil
}

func (s *reciboService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ReciboResponse, error) {
	recibo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "recibo no encontrado", err)
	}
	return reciboToResponse(recibo), nil
}

func (s *reciboService) ObtenerPorOrden(ctx context.Context, ordenID uuid.UUID) (*dto.ReciboResponse, error) {
	recibo, err := s.repo.FindLatestByOrden(ctx, ordenID)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "la orden no tiene recibos", err)
	}
	return reciboToResponse(recibo), nil
}

func reciboToResponse(r *model.Recibo) *dto.ReciboResponse {
	return &dto.ReciboResponse{
		ID:           r.ID.String(),
		OrdenID:      r.OrdenID.String(),
		Estado:       r.Estado,
		PDFPath:      r.PDFPath,
		EmailDestino: r.EmailDestino,
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
