package utils

import (
	"context"
	"runtime/debug"

	"golang-fundamental-bias/pkg/logger"

	"go.uber.org/zap"
)

// GoSafe runs fn in a goroutine and logs any panic it raises to log.
func GoSafe(log *logger.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if log == nil {
					log = logger.NewNop()
				}
				log.Error("Recovered from panic in goroutine",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether ctx is still live, logging when it is not.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.WarnContext(ctx, "Context done, stopping", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
