package worker

// recibo_worker.go
// Processes receipt generation jobs from QueueRecibos: aggregates the order's
// active tramos, renders the PDF, and optionally enqueues an email job with
// the file attached.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"obraflow/internal/calc"
	"obraflow/internal/infra"
	"obraflow/internal/model"
	"obraflow/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ReciboJobPayload is the job envelope sent to QueueRecibos.
type ReciboJobPayload struct {
	ReciboID string `json:"recibo_id"`
	OrdenID  string `json:"orden_id"`
}

// ReciboWorker renders order receipts asynchronously. Totals are always
// re-aggregated from the stored tramo items at render time, so a receipt
// reflects whatever edits happened between the request and the job run.
type ReciboWorker struct {
	reciboRepo     repository.ReciboRepository
	ordenRepo      repository.OrdenRepository
	tramoRepo      repository.TramoRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReciboWorker(
	reciboRepo repository.ReciboRepository,
	ordenRepo repository.OrdenRepository,
	tramoRepo repository.TramoRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReciboWorker {
	return &ReciboWorker{
		reciboRepo:     reciboRepo,
		ordenRepo:      ordenRepo,
		tramoRepo:      tramoRepo,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single recibo job:
//  1. Parse ReciboJobPayload from the job envelope
//  2. Fetch the Recibo and its Orden (with cliente/producto)
//  3. Aggregate totals over the order's active tramos
//  4. Generate the PDF and mark the recibo 'emitido'
//  5. Optionally enqueue an email job with the PDF attached
func (w *ReciboWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReciboJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("recibo_worker: invalid payload")
		return
	}

	reciboID, err := uuid.Parse(payload.ReciboID)
	if err != nil {
		log.Error().Str("recibo_id", payload.ReciboID).Msg("recibo_worker: invalid recibo_id")
		return
	}

	recibo, err := w.reciboRepo.FindByID(ctx, reciboID)
	if err != nil {
		log.Error().Err(err).Str("recibo_id", payload.ReciboID).Msg("recibo_worker: recibo not found")
		return
	}
	if recibo.Estado == model.ReciboEmitido {
		log.Debug().Str("recibo_id", payload.ReciboID).Msg("recibo_worker: already emitted, skipping")
		return
	}

	orden, err := w.ordenRepo.FindByID(ctx, recibo.OrdenID)
	if err != nil {
		w.markFailed(ctx, recibo, fmt.Errorf("orden not found: %w", err))
		return
	}

	tramos, err := w.tramoRepo.ListByOrden(ctx, orden.ID, model.EstadosTramoActivos)
	if err != nil {
		w.markFailed(ctx, recibo, fmt.Errorf("list tramos: %w", err))
		return
	}
	totales := totalesDeTramos(tramos)

	pdfPath, err := infra.GenerateReciboPDF(recibo, orden, totales, w.pdfStoragePath)
	if err != nil {
		w.markFailed(ctx, recibo, fmt.Errorf("generate pdf: %w", err))
		return
	}

	recibo.Estado = model.ReciboEmitido
	recibo.PDFPath = &pdfPath
	recibo.NextRetryAt = nil
	recibo.LastError = nil
	if err := w.reciboRepo.Update(ctx, recibo); err != nil {
		log.Error().Err(err).Str("recibo_id", payload.ReciboID).Msg("recibo_worker: failed to update recibo")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("orden", orden.Codigo).Msg("recibo_worker: receipt generated")

	if recibo.EmailDestino != nil && *recibo.EmailDestino != "" {
		emailJob := EmailJobPayload{
			ToEmail: *recibo.EmailDestino,
			Subject: fmt.Sprintf("Recibo de materiales — Orden %s", orden.Codigo),
			Body:    fmt.Sprintf("Adjunto encontrarás el recibo de materiales de la orden %s.", orden.Codigo),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
			log.Warn().Err(err).Str("email", *recibo.EmailDestino).Msg("recibo_worker: failed to enqueue email")
		} else {
			log.Info().Str("email", *recibo.EmailDestino).Msg("recibo_worker: email job enqueued")
		}
	}
}

// markFailed leaves the recibo 'pendiente' and schedules the next attempt for
// the retry cron.
func (w *ReciboWorker) markFailed(ctx context.Context, recibo *model.Recibo, cause error) {
	recibo.RetryCount++
	errMsg := cause.Error()
	recibo.LastError = &errMsg
	nextRetry := time.Now().Add(computeRetryBackoff(recibo.RetryCount))
	recibo.NextRetryAt = &nextRetry

	if recibo.RetryCount >= MaxReciboRetries {
		recibo.Estado = model.ReciboError
		recibo.NextRetryAt = nil
	}

	if err := w.reciboRepo.Update(ctx, recibo); err != nil {
		log.Error().Err(err).Str("recibo_id", recibo.ID.String()).Msg("recibo_worker: failed to persist failure")
		return
	}
	log.Warn().
		Err(cause).
		Str("recibo_id", recibo.ID.String()).
		Int("retry_count", recibo.RetryCount).
		Msg("recibo_worker: generation failed")
}

// totalesDeTramos mirrors the aggregation the HTTP layer exposes so the PDF
// prints the same numbers the totals endpoint returns.
func totalesDeTramos(tramos []model.Tramo) calc.Totales {
	var items []calc.ItemPersistido
	largos := make([]decimal.Decimal, 0, len(tramos))
	for i := range tramos {
		largos = append(largos, tramos[i].Largo)
		for _, it := range tramos[i].Items {
			items = append(items, calc.ItemPersistido{
				Material: it.Material,
				Etiqueta: it.Etiqueta,
				Unidad:   it.Unidad,
				Valor:    it.Valor,
			})
		}
	}
	return calc.AgregarTotales(items, largos)
}
