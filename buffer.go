package readahead

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
)

var (
	// ErrInvalidArgument is returned by [New] when it is called with an invalid argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConcurrentNext is returned by [Buffer.Next] when it is called while another call is
	// still in progress.
	ErrConcurrentNext = errors.New("concurrent call to next")
	// ErrSource is wrapped around every error returned or panic raised by the source.
	ErrSource = errors.New("source failed")
)

// Buffer reads ahead of its consumer by pulling up to size items from the source in the
// background.
//
// A Buffer delivers the items of its source in order and exactly once. It is meant to be
// consumed by a single goroutine: calling Next while another Next is in progress returns
// [ErrConcurrentNext].
type Buffer[Item any] struct {
	cfg     *Config
	metrics *metrics
	ctx     context.Context
	source  Source[Item]
	size    int

	pulling atomic.Bool

	mu        sync.Mutex
	queue     *queue.Queue
	filling   bool
	exhausted bool
	done      bool
	fetched   int
	waiter    chan struct{}
}

// entry is a single pulled element. An entry with ok == false terminates the sequence and
// may carry the error the source failed with.
type entry[Item any] struct {
	item Item
	ok   bool
	err  error
}

// New returns a Buffer that reads at most size items ahead of the consumer of source.
//
// The ctx is passed to every [Source.Next] call made by the buffer. Nothing is pulled from
// the source until the first call to [Buffer.Next].
func New[Item any](
	ctx context.Context,
	source Source[Item],
	size int,
	configFuncs ...ConfigFunc,
) (*Buffer[Item], error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx can't be nil", ErrInvalidArgument)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: source can't be nil", ErrInvalidArgument)
	}
	if size < 1 {
		return nil, fmt.Errorf("%w: size can't be < 1", ErrInvalidArgument)
	}

	cfg := newConfig(configFuncs...)

	buffer := Buffer[Item]{
		cfg:     cfg,
		metrics: cfg.prometheus.metrics(),
		ctx:     ctx,
		source:  source,
		size:    size,
		queue:   queue.New(),
	}

	return &buffer, nil
}

// Next returns the next item of the sequence. It returns ok == false once the sequence is
// over, and keeps doing so on every following call.
//
// If the source fails, the items pulled before the failure are returned first, then the
// failure is returned once wrapped in [ErrSource], and after that the buffer behaves as if
// the sequence was over.
//
// If ctx is done while Next waits for the source, Next returns ctx.Err() and the buffer is
// left intact, so the item will be returned by a later call.
func (b *Buffer[Item]) Next(ctx context.Context) (item Item, ok bool, err error) {
	if !b.pulling.CompareAndSwap(false, true) {
		return item, false, ErrConcurrentNext
	}
	defer b.pulling.Store(false)

	var waitStarted time.Time
	for {
		b.mu.Lock()
		if b.done {
			b.mu.Unlock()
			return item, false, nil
		}

		if b.queue.Length() > 0 {
			e := b.queue.Remove().(entry[Item])
			if !e.ok {
				b.done = true
			}
			b.metrics.buffered.Set(float64(b.queue.Length()))
			b.fillLocked()
			b.mu.Unlock()

			if !waitStarted.IsZero() {
				b.metrics.waitDuration.Observe(time.Since(waitStarted).Seconds())
			}
			if e.ok {
				b.metrics.itemsDelivered.Inc()
			}
			return e.item, e.ok, e.err
		}

		wake := make(chan struct{})
		b.waiter = wake
		b.fillLocked()
		b.mu.Unlock()

		if waitStarted.IsZero() {
			waitStarted = time.Now()
		}

		select {
		case <-wake:
		case <-ctx.Done():
			b.mu.Lock()
			if b.waiter == wake {
				b.waiter = nil
			}
			b.mu.Unlock()
			return item, false, ctx.Err()
		}
	}
}

// Len returns the number of entries buffered at the moment of the call, including the one
// that ends the sequence once it has been pulled. The value is only a snapshot.
func (b *Buffer[Item]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queue.Length()
}

// All returns a sequence of the remaining items. The sequence stops at the end of the
// buffer, or after yielding a single non-nil error.
func (b *Buffer[Item]) All(ctx context.Context) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		for {
			item, ok, err := b.Next(ctx)
			if err != nil {
				yield(item, err)
				return
			}
			if !ok || !yield(item, nil) {
				return
			}
		}
	}
}

// fillLocked starts the fill goroutine unless one is already running, the source is
// exhausted or the queue is full. b.mu must be held.
func (b *Buffer[Item]) fillLocked() {
	if b.filling || b.exhausted || b.queue.Length() >= b.size {
		return
	}
	b.filling = true
	go b.fill()
}

func (b *Buffer[Item]) fill() {
	for {
		e := b.pull()

		b.mu.Lock()
		b.queue.Add(e)
		if e.ok {
			b.fetched += 1
		} else {
			b.exhausted = true
			b.logExhausted(e.err)
		}
		b.metrics.buffered.Set(float64(b.queue.Length()))
		if b.waiter != nil {
			close(b.waiter)
			b.waiter = nil
		}
		more := !b.exhausted && b.queue.Length() < b.size
		b.filling = more
		b.mu.Unlock()

		if !more {
			return
		}
	}
}

// pull makes a single call to the source and converts the result into an entry.
func (b *Buffer[Item]) pull() (e entry[Item]) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e = entry[Item]{err: fmt.Errorf("%w: panic: %v", ErrSource, r)}
		}
		b.metrics.fetchDuration.Observe(time.Since(started).Seconds())
		if e.err != nil {
			b.metrics.sourceErrors.Inc()
		} else if e.ok {
			b.metrics.itemsFetched.Inc()
		}
	}()

	item, ok, err := b.source.Next(b.ctx)
	if err != nil {
		return entry[Item]{err: fmt.Errorf("%w: %w", ErrSource, err)}
	}
	if !ok {
		return entry[Item]{}
	}
	return entry[Item]{item: item, ok: true}
}

func (b *Buffer[Item]) logExhausted(err error) {
	log := b.cfg.logger.WithField("fetched", b.fetched)
	if err != nil {
		log.WithError(err).Warn("source failed")
		return
	}
	log.Debug("source exhausted")
}
