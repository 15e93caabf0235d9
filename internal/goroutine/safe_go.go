package goroutine

import (
	"context"
	"log"
	"runtime/debug"

	"github.com/voyagabagae/backend/internal/logger"
)

// logPanic пишет панику фоновой горутины в логгер приложения.
// До инициализации logrus падение уходит в стандартный log.
func logPanic(r interface{}) {
	if logger.Log != nil {
		logger.Log.WithField("stack", string(debug.Stack())).
			Errorf("паника в фоновой горутине: %v", r)
		return
	}
	log.Printf("паника в фоновой горутине: %v\n%s", r, debug.Stack())
}

// SafeGo запускает fn в горутине и перехватывает панику,
// чтобы фоновая задача не роняла процесс.
func SafeGo(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logPanic(r)
			}
		}()
		fn()
	}()
}

// SafeGoWithContext то же, что SafeGo, но пробрасывает контекст в fn.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logPanic(r)
			}
		}()
		fn(ctx)
	}()
}
