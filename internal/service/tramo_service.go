package service

import (
	"context"
	"fmt"
	"time"

	"obraflow/internal/calc"
	"obraflow/internal/dto"
	"obraflow/internal/model"
	"obraflow/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TramoService interface {
	Crear(ctx context.Context, req dto.CrearTramoRequest) (*dto.TramoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTramoRequest) (*dto.TramoResponse, error)
	Cancelar(ctx context.Context, id uuid.UUID) error
	Completar(ctx context.Context, id uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TramoResponse, error)
	ListarPorOrden(ctx context.Context, ordenID uuid.UUID, incluirEliminados bool) ([]dto.TramoResponse, error)
}

type tramoService struct {
	repo      repository.TramoRepository
	ordenRepo repository.OrdenRepository
	calculo   CalculoService
}

func NewTramoService(
	repo repository.TramoRepository,
	ordenRepo repository.OrdenRepository,
	calculo CalculoService,
) TramoService {
	return &tramoService{repo: repo, ordenRepo: ordenRepo, calculo: calculo}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// The calculation always runs server-side; a client-submitted item list would
// let a caller tamper with displayed totals. Header and items go through one
// transaction; in transactionless mode a failed item insert triggers a
// compensating header delete so no orphaned tramo survives.

func (s *tramoService) Crear(ctx context.Context, req dto.CrearTramoRequest) (*dto.TramoResponse, error) {
	ordenID, err := uuid.Parse(req.OrdenID)
	if err != nil {
		return nil, calc.WrapError(calc.KindValidacion, "orden_id inválido", err)
	}

	orden, err := s.ordenRepo.FindByID(ctx, ordenID)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "orden no encontrada", err)
	}
	if orden.Estado == model.OrdenCancelada {
		return nil, calc.NewError(calc.KindValidacion, "no se pueden registrar tramos en una orden cancelada")
	}

	items, err := s.calculo.Calcular(ctx, ordenID, req.Altura, req.Largo)
	if err != nil {
		return nil, err
	}

	tramo := model.Tramo{
		OrdenID:     ordenID,
		Codigo:      generarCodigoTramo(orden.Codigo),
		Altura:      req.Altura,
		Largo:       req.Largo,
		Descripcion: req.Descripcion,
		Estado:      model.TramoPendiente,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(ctx, tx, &tramo); err != nil {
			return calc.WrapError(calc.KindPersistencia, "error creando tramo", err)
		}
		if err := s.repo.CreateItemsTx(ctx, tx, buildItems(tramo.ID, items)); err != nil {
			if tx == nil {
				// Best-effort compensation: remove the already-inserted header.
				if delErr := s.repo.DeleteHeader(ctx, tramo.ID); delErr != nil {
					log.Error().
						Err(delErr).
						Str("tramo_id", tramo.ID.String()).
						Msg("compensating delete failed — manual cleanup required")
				}
			}
			return calc.WrapError(calc.KindPersistencia, "error creando items del tramo", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	tramo.Items = buildItems(tramo.ID, items)
	return tramoToResponse(&tramo), nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Recalculates FIRST: a calculation failure (including an empty result) must
// abort before the delete-then-insert item replacement touches anything, so the
// prior items stay intact. The replacement itself is a full replace — simpler
// than diffing and immune to stale-item bugs.

func (s *tramoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarTramoRequest) (*dto.TramoResponse, error) {
	tramo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "tramo no encontrado", err)
	}
	if tramo.Estado == model.TramoEliminado {
		return nil, calc.NewError(calc.KindValidacion, "no se puede editar un tramo eliminado")
	}

	items, err := s.calculo.Calcular(ctx, tramo.OrdenID, req.Altura, req.Largo)
	if err != nil {
		return nil, err
	}

	tramo.Altura = req.Altura
	tramo.Largo = req.Largo
	tramo.Descripcion = req.Descripcion

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(ctx, tx, tramo); err != nil {
			return calc.WrapError(calc.KindPersistencia, "error actualizando tramo", err)
		}
		if err := s.repo.DeleteItemsTx(ctx, tx, tramo.ID); err != nil {
			return calc.WrapError(calc.KindPersistencia, "error eliminando items previos", err)
		}
		if err := s.repo.CreateItemsTx(ctx, tx, buildItems(tramo.ID, items)); err != nil {
			return calc.WrapError(calc.KindPersistencia, "error insertando items recalculados", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	tramo.Items = buildItems(tramo.ID, items)
	return tramoToResponse(tramo), nil
}

// Cancelar soft-cancels: items remain for history but the tramo leaves the
// active aggregation set.
func (s *tramoService) Cancelar(ctx context.Context, id uuid.UUID) error {
	tramo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return calc.WrapError(calc.KindNoEncontrado, "tramo no encontrado", err)
	}
	if tramo.Estado == model.TramoEliminado {
		return calc.NewError(calc.KindValidacion, "el tramo ya está eliminado")
	}
	if err := s.repo.UpdateEstado(ctx, id, model.TramoEliminado); err != nil {
		return calc.WrapError(calc.KindPersistencia, "error cancelando tramo", err)
	}
	return nil
}

func (s *tramoService) Completar(ctx context.Context, id uuid.UUID) error {
	tramo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return calc.WrapError(calc.KindNoEncontrado, "tramo no encontrado", err)
	}
	if tramo.Estado == model.TramoEliminado {
		return calc.NewError(calc.KindValidacion, "no se puede completar un tramo eliminado")
	}
	if err := s.repo.UpdateEstado(ctx, id, model.TramoCompletado); err != nil {
		return calc.WrapError(calc.KindPersistencia, "error completando tramo", err)
	}
	return nil
}

func (s *tramoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.TramoResponse, error) {
	tramo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, calc.WrapError(calc.KindNoEncontrado, "tramo no encontrado", err)
	}
	return tramoToResponse(tramo), nil
}

func (s *tramoService) ListarPorOrden(ctx context.Context, ordenID uuid.UUID, incluirEliminados bool) ([]dto.TramoResponse, error) {
	estados := model.EstadosTramoActivos
	if incluirEliminados {
		estados = nil
	}
	tramos, err := s.repo.ListByOrden(ctx, ordenID, estados)
	if err != nil {
		return nil, calc.WrapError(calc.KindPersistencia, "error listando tramos", err)
	}
	resp := make([]dto.TramoResponse, 0, len(tramos))
	for i := range tramos {
		resp = append(resp, *tramoToResponse(&tramos[i]))
	}
	return resp, nil
}

// generarCodigoTramo builds the display code from the order code plus a
// timestamp. Collisions are tolerated as cosmetic — the real key is the UUID.
func generarCodigoTramo(ordenCodigo string) string {
	return fmt.Sprintf("%s-T%s", ordenCodigo, time.Now().Format("20060102150405"))
}

func buildItems(tramoID uuid.UUID, items []calc.ItemCalculado) []model.TramoItem {
	out := make([]model.TramoItem, 0, len(items))
	for _, it := range items {
		out = append(out, model.TramoItem{
			TramoID:  tramoID,
			Material: it.Material,
			Etiqueta: it.Etiqueta,
			Unidad:   it.Unidad,
			Valor:    it.Valor,
		})
	}
	return out
}

func tramoToResponse(t *model.Tramo) *dto.TramoResponse {
	items := make([]dto.TramoItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TramoItemResponse{
			Material: it.Material,
			Etiqueta: it.Etiqueta,
			Unidad:   it.Unidad,
			Valor:    it.Valor,
		})
	}
	return &dto.TramoResponse{
		ID:          t.ID.String(),
		OrdenID:     t.OrdenID.String(),
		Codigo:      t.Codigo,
		Altura:      t.Altura,
		Largo:       t.Largo,
		Descripcion: t.Descripcion,
		Estado:      string(t.Estado),
		Items:       items,
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
