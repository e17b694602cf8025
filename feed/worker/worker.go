package worker

import (
	"context"
	"time"

	"github.com/armon/go-metrics"
	"github.com/pkg/errors"

	"github.com/foresta-global/pricefeed/feed/config"
	"github.com/foresta-global/pricefeed/feed/lock"
	feedlog "github.com/foresta-global/pricefeed/feed/log"
	"github.com/foresta-global/pricefeed/feed/submit"
	feedtypes "github.com/foresta-global/pricefeed/feed/types"
)

// Worker runs the fetch-and-sign cycle once per locally imported block. Ticks
// may overlap when block notifications do; the fetch lock keeps at most one
// cycle in flight per node.
type Worker struct {
	fetchLock *lock.FetchLock
	state     feedtypes.StateReader
	submitter *submit.Submitter
}

func New(fetchLock *lock.FetchLock, state feedtypes.StateReader, submitter *submit.Submitter) *Worker {
	return &Worker{
		fetchLock: fetchLock,
		state:     state,
		submitter: submitter,
	}
}

// Run consumes block events until the context is cancelled. Every event
// starts its own tick; failed ticks are logged and dropped, the next block
// is the retry.
func (w *Worker) Run(ctx context.Context, blocks <-chan feedtypes.BlockEvent) {
	for {
		select {
		case event, ok := <-blocks:
			if !ok {
				return
			}
			go func() {
				if err := w.Tick(ctx, event.Height); err != nil {
					feedlog.Errorf("tick at height %d failed: %v", event.Height, err)
				}
			}()

		case <-ctx.Done():
			return
		}
	}
}

// Tick performs one fetch-and-submit cycle. A held lock or an ineligible
// throttle state is a silent no-op; fetch, extraction and signing failures
// are returned for logging and otherwise forgotten.
func (w *Worker) Tick(ctx context.Context, height int64) error {
	if err := w.fetchLock.TryAcquire(time.Now()); err != nil {
		if errors.Is(err, lock.ErrHeld) {
			metrics.IncrCounter([]string{"feed", "worker", "lock_contention"}, 1)
			feedlog.Debugf("tick at height %d skipped, fetch already in flight", height)
			return nil
		}
		return err
	}
	defer func() {
		if err := w.fetchLock.Release(); err != nil {
			feedlog.Errorf("failed to release fetch lock: %v", err)
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, config.FetchTimeout())
	defer cancel()

	body, err := fetchRawData(fetchCtx, config.SourceURL())
	if err != nil {
		metrics.IncrCounter([]string{"feed", "worker", "fetch_error"}, 1)
		return err
	}

	price, err := extractPrice(body, config.FieldPath(), config.ScaleDecimals())
	if err != nil {
		metrics.IncrCounter([]string{"feed", "worker", "extraction_error"}, 1)
		return err
	}

	bestHeight, err := w.state.BestHeight(ctx)
	if err != nil {
		return errors.Wrap(err, "read best height")
	}

	throttle, err := w.state.ThrottleState(ctx)
	if err != nil {
		return errors.Wrap(err, "read throttle state")
	}

	if !throttle.IsEligible(bestHeight) {
		metrics.IncrCounter([]string{"feed", "worker", "throttled"}, 1)
		feedlog.Debugf("tick at height %d skipped, next eligible height %d", bestHeight, throttle.NextEligibleHeight)
		return nil
	}

	if err := w.submitter.SubmitSigned(ctx, bestHeight, price); err != nil {
		metrics.IncrCounter([]string{"feed", "worker", "submit_error"}, 1)
		return err
	}

	metrics.IncrCounter([]string{"feed", "worker", "submitted"}, 1)
	feedlog.Infof("submitted price %s at height %d", price, bestHeight)

	return nil
}
