package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/darkgrade/darkgrade/log"
	"github.com/darkgrade/darkgrade/transport"
)

// runCancellable runs op concurrently with a watcher that issues
// Cancel_Request the moment ctx is done, so a timed-out bulk transfer
// doesn't leave the device mid-transaction. Both goroutines are
// supervised by an errgroup: op's error is what the caller sees; the
// watcher never contributes one, so an op that returns nil after ctx
// is done yields nil.
func (e *TransactionEngine) runCancellable(ctx context.Context, txnID uint32, op func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return op(gctx)
	})
	g.Go(func() error {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			// best-effort: failure to cancel is logged, not propagated,
			// since the real error is the timeout/cancellation itself.
			if _, err := e.transport.ClassRequest(context.Background(), transport.RequestCancel, uint16(txnID), nil); err != nil {
				e.logger.Warn("cancel request failed", log.F("txn", txnID), log.F("error", err.Error()))
			}
			return nil
		}
	})
	return g.Wait()
}
