package async

import (
	"context"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

var inflight sync.WaitGroup

// Dispatch runs handler in a new goroutine detached from the request context.
// The logger and Sentry hub of ctx are carried over; errors and panics are logged with name.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		bgCtx = sentry.SetHubOnContext(bgCtx, hub.Clone())
	}

	inflight.Add(1)
	go func() {
		defer inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "handler", name, "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logger := logging.From(bgCtx)
			if ge := goerr.Unwrap(err); ge != nil {
				logger.Error("async handler failed", "handler", name, "error", err.Error(), "values", ge.Values())
				return
			}
			logger.Error("async handler failed", "handler", name, "error", err.Error())
		}
	}()
}

// Wait blocks until every dispatched handler has returned. Used on shutdown and in tests.
func Wait() {
	inflight.Wait()
}
