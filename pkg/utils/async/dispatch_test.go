package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/utils/async"
)

func TestDispatch(t *testing.T) {
	var calls atomic.Int32

	async.Dispatch(context.Background(), "ok", func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	async.Dispatch(context.Background(), "fails", func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("notify failed")
	})
	async.Dispatch(context.Background(), "panics", func(ctx context.Context) error {
		calls.Add(1)
		panic("unexpected")
	})

	async.Wait()
	gt.Value(t, calls.Load()).Equal(int32(3))
}

func TestDispatch_DetachedFromCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ctxErr error
	async.Dispatch(ctx, "detached", func(ctx context.Context) error {
		ctxErr = ctx.Err()
		return nil
	})
	async.Wait()
	gt.NoError(t, ctxErr)
}
