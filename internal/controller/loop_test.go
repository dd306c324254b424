package controller

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rxtech-lab/dionysus/internal/types"
	"go.uber.org/mock/gomock"
)

type fakeQueue struct {
	mu      sync.Mutex
	batches [][]types.MarketEvent
	dropped int64
}

func (q *fakeQueue) Drain() []types.MarketEvent {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.batches) == 0 {
		return nil
	}

	batch := q.batches[0]
	q.batches = q.batches[1:]

	return batch
}

func (q *fakeQueue) Dropped() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.dropped
}

func (suite *ControllerTestSuite) TestRunAppliesQueuedEvents() {
	suite.addToken(suite.token)

	sample := types.Sample{Resolution: types.Hour(), Time: suite.now, Close: 10}
	suite.source.EXPECT().Append(gomock.Any(), suite.token, sample).Return(nil)

	queue := &fakeQueue{
		batches: [][]types.MarketEvent{{types.KlineEvent(suite.token, sample)}},
		dropped: 3,
	}

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan []Update, 1)

	done := make(chan error, 1)
	go func() {
		done <- suite.controller.Run(ctx, queue, 5*time.Millisecond, func(updates []Update) {
			received <- updates
		})
	}()

	select {
	case updates := <-received:
		suite.Equal([]Update{{Kind: UpdateKline, Token: suite.token}}, updates)
	case <-time.After(2 * time.Second):
		suite.FailNow("no update received")
	}

	cancel()
	suite.NoError(<-done)
	suite.Equal(3.0, testutil.ToFloat64(suite.metrics.EventsDropped))
}

func (suite *ControllerTestSuite) TestRunStopsOnCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite.NoError(suite.controller.Run(ctx, &fakeQueue{}, time.Millisecond, nil))
}
