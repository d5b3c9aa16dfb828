package worker

// retry_cron.go
// Background goroutine that periodically re-enqueues generation jobs for
// recibos stuck in estado='pendiente' with a next_retry_at in the past.

import (
	"context"
	"fmt"
	"time"

	"obraflow/internal/model"
	"obraflow/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	ReciboRepo repository.ReciboRepository
	Dispatcher *Dispatcher
	RDB        *redis.Client
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries pending recibos, and re-enqueues their generation jobs.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	now := time.Now()
	recibos, err := cfg.ReciboRepo.ListPendingRetries(ctx, now, retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}

	if len(recibos) == 0 {
		return
	}

	log.Info().Int("count", len(recibos)).Msg("retry_cron: processing pending recibos")

	for i := range recibos {
		rec := &recibos[i]

		if rec.RetryCount >= MaxReciboRetries {
			rec.Estado = model.ReciboError
			rec.NextRetryAt = nil
			_ = cfg.ReciboRepo.Update(ctx, rec)

			log.Error().
				Str("recibo_id", rec.ID.String()).
				Str("orden_id", rec.OrdenID.String()).
				Int("retries", rec.RetryCount).
				Msg("retry_cron: max retries exceeded, moving to error/DLQ")

			payload := fmt.Sprintf(`{"recibo_id":"%s","orden_id":"%s"}`, rec.ID, rec.OrdenID)
			reason := fmt.Sprintf("max retries (%d) exceeded", MaxReciboRetries)
			if rec.LastError != nil {
				reason = fmt.Sprintf("%s: %s", reason, *rec.LastError)
			}
			SendToDLQ(ctx, cfg.RDB, QueueRecibos, "recibo", []byte(payload), reason, rec.RetryCount)
			continue
		}

		// Push next_retry_at forward before re-enqueueing so a job that dies
		// without updating the row is not re-picked on the very next tick.
		nextRetry := now.Add(computeRetryBackoff(rec.RetryCount + 1))
		rec.NextRetryAt = &nextRetry
		if err := cfg.ReciboRepo.Update(ctx, rec); err != nil {
			log.Error().Err(err).Str("recibo_id", rec.ID.String()).Msg("retry_cron: failed to update recibo")
			continue
		}

		job := ReciboJobPayload{ReciboID: rec.ID.String(), OrdenID: rec.OrdenID.String()}
		if err := cfg.Dispatcher.EnqueueRecibo(ctx, job); err != nil {
			log.Error().Err(err).Str("recibo_id", rec.ID.String()).Msg("retry_cron: failed to enqueue")
			continue
		}

		log.Info().
			Str("recibo_id", rec.ID.String()).
			Int("retry_count", rec.RetryCount).
			Msg("retry_cron: recibo re-enqueued")
	}
}

// computeRetryBackoff returns the exponential delay before the given attempt:
// 1m, 2m, 4m … capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	if retryCount < 1 {
		retryCount = 1
	}
	d := time.Duration(1<<uint(retryCount-1)) * time.Minute
	if d > 30*time.Minute {
		d = 30 * time.Minute
	}
	return d
}
