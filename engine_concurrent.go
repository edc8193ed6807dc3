package clist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emirpasic/gods/utils"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"clist/data_struct"
)

const defaultOpMaxRetries = 16

// EngineConcurrent fans ops out to threadNum workers. An op failing with a
// retryable error is run again; ErrValueNotFound and exhausted retries are
// recorded on the op. Any other failure aborts the run.
type EngineConcurrent struct {
	threadNum  int
	maxRetries int
	stats      *Stats

	clock   *Clock
	history *data_struct.ConcurrentTreeMap
}

func NewEngineConcurrent(threadNum int, stats *Stats) *EngineConcurrent {
	if threadNum <= 0 {
		threadNum = 1
	}
	return &EngineConcurrent{
		threadNum:  threadNum,
		maxRetries: defaultOpMaxRetries,
		stats:      stats,
		clock:      NewClock(),
		history:    data_struct.NewConcurrentTreeMap(utils.Int64Comparator),
	}
}

func (te *EngineConcurrent) WithMaxRetries(n int) *EngineConcurrent {
	if n > 0 {
		te.maxRetries = n
	}
	return te
}

func (te *EngineConcurrent) ExecuteOps(ctx context.Context, s Store, ops []*Op) error {
	opsCh := make(chan *Op, te.threadNum)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(opsCh)
		for _, op := range ops {
			select {
			case opsCh <- op:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < te.threadNum; i++ {
		tid := i
		g.Go(func() error {
			return te.executeOpsSingleThread(ctx, tid, s, opsCh)
		})
	}

	// Wait worker threads to end.
	err := g.Wait()
	glog.V(glogLevelEngine).Infof("executed %d ops on %d threads, clock at %d", len(ops), te.threadNum, te.clock.Now())
	return err
}

func (te *EngineConcurrent) executeOpsSingleThread(ctx context.Context, tid int, s Store, opsCh <-chan *Op) error {
	for op := range opsCh {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := te.executeSingleOp(s, op); err != nil {
			glog.Errorf("thread %d: op(%s) aborted the run: %v", tid, op.String(), err)
			return err
		}
	}
	return nil
}

func (te *EngineConcurrent) executeSingleOp(s Store, op *Op) error {
	op.Start()
	start := time.Now()

	var err error
	for {
		err = executeOp(s, op)
		var opErr *OpError
		if err != nil && errors.As(err, &opErr) && opErr.IsRetryable() && op.retries < te.maxRetries {
			op.retries++
			te.stats.incRetry()
			continue
		}
		break
	}

	if err != nil && !errors.Is(err, ErrValueNotFound) {
		if !errors.Is(err, data_struct.ErrConcurrentModification) {
			op.Done(err)
			return fmt.Errorf("op(%s): %w", op.String(), err)
		}
		glog.Warningf("op(%s) gave up after %d retries", op.String(), op.retries)
	}

	op.Done(err)
	stamp := te.clock.Tick()
	op.stamp.Set(stamp)
	te.history.Put(stamp, op)
	te.stats.observeOp(op, time.Since(start))
	return nil
}

// History returns the completed ops ordered by completion stamp.
func (te *EngineConcurrent) History() []*Op {
	ops := make([]*Op, 0, te.history.Size())
	te.history.ForEach(func(_ interface{}, v interface{}) {
		ops = append(ops, v.(*Op))
	})
	return ops
}

// LastCompleted returns the op with the highest stamp, nil before any op
// completes.
func (te *EngineConcurrent) LastCompleted() *Op {
	_, v := te.history.Max()
	if v == nil {
		return nil
	}
	return v.(*Op)
}
