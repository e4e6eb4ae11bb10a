package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
	"github.com/shaiso/Raider/internal/mq"
	"github.com/shaiso/Raider/internal/telemetry"
)

// Jitter радиусы в градусах.
const (
	// coarseJitter — начальное смещение точки, ~3 метра.
	coarseJitter = 0.00003

	// fineJitter — уменьшенное смещение для повтора после
	// transient block, ~1 метр.
	fineJitter = 0.00001
)

// attempt — одна попытка визита для одного job.
//
// Cleanup безусловен: job возвращается в очередь и слот лимитера
// освобождается при любом исходе, включая панику. Job не теряется
// никогда.
func (d *Dispatcher) attempt(ctx context.Context, job *domain.Job) {
	attemptID := uuid.New()

	defer d.wg.Done()
	defer func() {
		// Requeue до release: инвариант "job либо в очереди, либо в
		// попытке" держится и в момент возврата слота.
		d.queue.Push(job)
		d.inFlight.Add(-1)
		d.sem.Release(1)
	}()
	defer func() {
		if r := recover(); r != nil {
			d.skipped.Add(1)
			telemetry.SkippedTotal.Inc()
			d.logger.Error("panic in visit attempt",
				"attempt_id", attemptID,
				"job_id", job.ID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	outcome, err := d.tryPoint(ctx, job)

	if outcome.Skipped() {
		d.skipped.Add(1)
		telemetry.SkippedTotal.Inc()
	}

	switch outcome {
	case domain.OutcomeSuccess:
		d.visits.Add(1)
		telemetry.VisitsTotal.Inc()
		d.logger.Debug("visit succeeded",
			"attempt_id", attemptID,
			"job_id", job.ID,
			"external_id", job.ExternalID,
		)
		d.publishVisitCompleted(ctx, attemptID, job)

	case domain.OutcomeNoWorker:
		d.logger.Debug("no worker available, job requeued",
			"attempt_id", attemptID,
			"job_id", job.ID,
		)

	case domain.OutcomeNothingSeen, domain.OutcomeNotFound:
		d.logger.Error("visit error",
			"attempt_id", attemptID,
			"job_id", job.ID,
			"external_id", job.ExternalID,
			"outcome", outcome,
		)

	case domain.OutcomeError:
		d.logger.Error("unexpected error in visit attempt",
			"attempt_id", attemptID,
			"job_id", job.ID,
			"error", err,
		)
	}
}

// tryPoint — машина состояний одной попытки, завершается на первой
// применимой ветке:
//
//  1. Jitter точки (~3 м).
//  2. Выбор worker'а с дедлайном now + 2×SearchSleep; nil → NO_WORKER.
//  3. Busy guard выбранного worker'а удерживается до конца попытки
//     (захвачен селектором, освобождается здесь же).
//  4. Визит. Transient block → счётчик hash burn, повторный jitter
//     (~1 м) и ровно один повтор. Повторный block → NOT_FOUND; пустой
//     результат → NOTHING_SEEN; иначе успех: scan delayed worker'а и
//     Updated job'а обновляются.
func (d *Dispatcher) tryPoint(ctx context.Context, job *domain.Job) (domain.Outcome, error) {
	point := geo.Randomize(job.Point(), coarseJitter)
	updated := job.Priority()
	deadline := time.Now().Add(2 * d.searchSleep)

	w := d.selector.BestWorker(ctx, point, job, updated, deadline)
	if w == nil {
		return domain.OutcomeNoWorker, nil
	}
	defer w.Release()

	result, err := w.Visit(ctx, point, job)
	if err != nil {
		return domain.OutcomeError, fmt.Errorf("visit: %w", err)
	}

	if result == domain.VisitBlocked {
		d.hashBurn.Add(1)
		telemetry.HashBurnTotal.Inc()

		point = geo.Randomize(point, fineJitter)
		result, err = w.Visit(ctx, point, job)
		if err != nil {
			return domain.OutcomeError, fmt.Errorf("visit retry: %w", err)
		}
	}

	if result == domain.VisitBlocked {
		return domain.OutcomeNotFound, nil
	}
	if !result.Seen() {
		return domain.OutcomeNothingSeen, nil
	}

	now := time.Now().Unix()
	w.RecordScanDelayed(now - updated)
	job.Updated = now
	return domain.OutcomeSuccess, nil
}

// publishVisitCompleted публикует событие об успешном визите.
// Best effort: ошибка публикации логируется и не влияет на попытку.
func (d *Dispatcher) publishVisitCompleted(ctx context.Context, attemptID uuid.UUID, job *domain.Job) {
	if d.publisher == nil {
		return
	}

	err := d.publisher.PublishVisitCompleted(ctx, mq.VisitCompletedPayload{
		AttemptID:  attemptID.String(),
		JobID:      job.ID,
		ExternalID: job.ExternalID,
		Name:       job.Name,
		Lat:        job.Lat,
		Lon:        job.Lon,
		Updated:    job.Updated,
	})
	if err != nil {
		d.logger.Warn("failed to publish visit.completed",
			"attempt_id", attemptID,
			"job_id", job.ID,
			"error", err,
		)
	}
}
