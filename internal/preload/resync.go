package preload

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (стандартные 5 полей).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronExpr проверяет валидность cron-выражения.
func ValidateCronExpr(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// RunResync периодически перечитывает таблицу fort'ов по cron-расписанию
// и ставит в очередь forts, появившиеся после preload. Уже известные
// подавляются через Add. Блокируется до отмены ctx.
//
// Ошибка одного resync логируется; цикл продолжается.
func (p *Preloader) RunResync(ctx context.Context, cronExpr string) error {
	schedule, err := cronParser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("parse cron expression %q: %w", cronExpr, err)
	}

	p.logger.Info("fort resync scheduled", "cron", cronExpr)

	for {
		next := schedule.Next(time.Now())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(next)):
		}

		if err := p.resync(ctx); err != nil {
			p.logger.Error("fort resync failed", "error", err)
		}
	}
}

// resync выполняет одно перечитывание таблицы fort'ов.
func (p *Preloader) resync(ctx context.Context) error {
	jobs, err := p.source.ListWithinBounds(ctx, p.bounds)
	if err != nil {
		return fmt.Errorf("list forts: %w", err)
	}

	added := 0
	for i := range jobs {
		if p.Add(jobs[i]) {
			added++
		}
	}

	if added > 0 {
		p.logger.Info("resync added new forts", "count", added)
	} else {
		p.logger.Debug("resync found no new forts")
	}
	return nil
}
