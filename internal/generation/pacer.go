package generation

import (
	"context"
	"time"
)

// Pacer выдерживает паузу между шагами конвейера. Подменяется в тестах.
type Pacer interface {
	Pause(ctx context.Context, d time.Duration) error
}

// TimerPacer пауза на time.Timer с учетом отмены контекста.
type TimerPacer struct{}

var _ Pacer = TimerPacer{}

func (TimerPacer) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
