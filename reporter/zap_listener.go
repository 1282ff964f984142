package reporter

import (
	"fmt"

	"go.uber.org/zap"
)

// ZapListener returns a Listener that logs every event at Info level via
// logger, tagged with the event's Go type. This is one possible Listener;
// callers needing a different sink (test assertions, a JSON event log) can
// supply their own func value instead.
func ZapListener(logger *zap.Logger) Listener {
	return func(event fmt.Stringer) {
		logger.Info("event", zap.String("type", fmt.Sprintf("%T", event)), zap.String("detail", event.String()))
	}
}
