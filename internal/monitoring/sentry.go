// Package monitoring reports unexpected errors to Sentry.
package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Reporter is a no-op when no DSN is configured.
type Reporter struct {
	initialized bool
}

func NewReporter(dsn, environment string, logger *zap.Logger) *Reporter {
	if dsn == "" {
		logger.Info("[sentry] DSN not set, error reporting disabled")
		return &Reporter{}
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		TracesSampleRate: 0.2,
	})
	if err != nil {
		logger.Warn("[sentry] init failed", zap.Error(err))
		return &Reporter{}
	}
	return &Reporter{initialized: true}
}

// CaptureException sends err with the given tags.
func (r *Reporter) CaptureException(err error, tags map[string]string) {
	if r == nil || !r.initialized || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

func (r *Reporter) Flush(timeout time.Duration) bool {
	if r == nil || !r.initialized {
		return true
	}
	return sentry.Flush(timeout)
}
