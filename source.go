package readahead

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"iter"
	"sync"

	"github.com/teenjuna/readahead/codec"
	"github.com/teenjuna/readahead/retry"
)

// Source is a lazy sequence of items pulled one at a time.
//
// Next returns ok == false once the sequence is over. A [Buffer] never calls Next
// concurrently, and stops calling it after the sequence is over or Next returned an error.
type Source[Item any] interface {
	Next(ctx context.Context) (item Item, ok bool, err error)
}

// SourceFunc is an adapter to allow the use of an ordinary function as a [Source].
type SourceFunc[Item any] func(ctx context.Context) (Item, bool, error)

func (f SourceFunc[Item]) Next(ctx context.Context) (Item, bool, error) {
	return f(ctx)
}

// FromSeq returns a [Source] that pulls items from seq.
//
// The stop function must be called if the returned source is abandoned before the end of seq.
// It can be called at any time, even while the buffer is pulling from the source: stop waits
// for the pull in flight, and the source is over afterwards.
func FromSeq[Item any](seq iter.Seq[Item]) (Source[Item], func()) {
	next, stop := iter.Pull(seq)
	var (
		mu      sync.Mutex
		stopped bool
	)
	source := SourceFunc[Item](func(ctx context.Context) (item Item, ok bool, err error) {
		if err := ctx.Err(); err != nil {
			return item, false, err
		}
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return item, false, nil
		}
		item, ok = next()
		return item, ok, nil
	})
	return source, func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		stop()
	}
}

// FromSeq2 returns a [Source] that pulls items from seq. A non-nil error yielded by seq is
// returned as the error of the source.
//
// The stop function must be called if the returned source is abandoned before the end of seq.
// Like with [FromSeq], it waits for the pull in flight.
func FromSeq2[Item any](seq iter.Seq2[Item, error]) (Source[Item], func()) {
	next, stop := iter.Pull2(seq)
	var (
		mu      sync.Mutex
		stopped bool
	)
	source := SourceFunc[Item](func(ctx context.Context) (item Item, ok bool, err error) {
		if err := ctx.Err(); err != nil {
			return item, false, err
		}
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return item, false, nil
		}
		item, err, ok = next()
		if err != nil {
			return item, false, err
		}
		return item, ok, nil
	})
	return source, func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		stop()
	}
}

// FromChan returns a [Source] that receives items from ch until it's closed.
func FromChan[Item any](ch <-chan Item) Source[Item] {
	return SourceFunc[Item](func(ctx context.Context) (Item, bool, error) {
		select {
		case item, ok := <-ch:
			return item, ok, nil
		case <-ctx.Done():
			var zero Item
			return zero, false, ctx.Err()
		}
	})
}

// FromRows returns a [Source] that scans items from rows. The rows are closed once they are
// over or fail, and every later call returns the same result.
func FromRows[Item any](rows *sql.Rows, scan func(rows *sql.Rows) (Item, error)) Source[Item] {
	var (
		closed   bool
		closeErr error
	)
	return SourceFunc[Item](func(ctx context.Context) (item Item, ok bool, err error) {
		if closed {
			return item, false, closeErr
		}
		defer func() {
			if !ok {
				closed = true
				closeErr = errors.Join(err, rows.Close())
				err = closeErr
			}
		}()

		if err := ctx.Err(); err != nil {
			return item, false, err
		}
		if !rows.Next() {
			return item, false, rows.Err()
		}
		item, err = scan(rows)
		if err != nil {
			return item, false, err
		}
		return item, true, nil
	})
}

// FromReader returns a [Source] that decodes items from r using codec. The sequence is over
// when r is over at an item boundary.
func FromReader[Item any](r io.Reader, codec codec.Codec[Item]) Source[Item] {
	decode := codec.Decoder(r)
	return SourceFunc[Item](func(ctx context.Context) (item Item, ok bool, err error) {
		if err := ctx.Err(); err != nil {
			return item, false, err
		}
		item, err = decode()
		if errors.Is(err, io.EOF) {
			return item, false, nil
		}
		if err != nil {
			return item, false, err
		}
		return item, true, nil
	})
}

// Retry returns a [Source] that retries every failed call to source according to a policy
// derived from policy. The error of the last attempt is returned when the policy runs out of
// attempts.
//
// The source must stay usable after it returned an error.
func Retry[Item any](source Source[Item], policy retry.Policy) Source[Item] {
	return SourceFunc[Item](func(ctx context.Context) (item Item, ok bool, err error) {
		p := policy.Derive()
		for p.Attempt(ctx) {
			item, ok, err = source.Next(ctx)
			if err == nil {
				return item, ok, nil
			}
		}
		if err == nil {
			err = ctx.Err()
		}
		return item, false, err
	})
}
