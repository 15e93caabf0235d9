package service

import (
	"context"
	"time"

	"github.com/voyagabagae/backend/internal/goroutine"
	"github.com/voyagabagae/backend/internal/logger"
)

// ExpirySweeper фоновым процессом переводит активные объявления с прошедшей
// датой в статус expired. Снимает с клиентов необходимость фильтровать
// устаревшие объявления самостоятельно.
type ExpirySweeper struct {
	store    AnnouncementStore
	interval time.Duration
}

// NewExpirySweeper создаёт процесс с заданным периодом обхода.
func NewExpirySweeper(store AnnouncementStore, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{store: store, interval: interval}
}

// Start запускает обход в фоновой горутине до отмены контекста.
// Первый проход выполняется сразу, не дожидаясь первого тика.
func (s *ExpirySweeper) Start(ctx context.Context) {
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	})
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	affected, err := s.store.ExpireBefore(ctx, time.Now())
	if err != nil {
		if logger.Log != nil {
			logger.Log.WithField("error", err.Error()).Error("expiry sweeper: обход не удался")
		}
		return
	}
	if affected > 0 && logger.Log != nil {
		logger.Log.WithField("expired", affected).Info("expiry sweeper: объявления переведены в expired")
	}
}
