// Package readahead wraps a lazy sequence of items in a [Buffer] that pulls items ahead of its
// consumer.
//
// The buffer keeps up to a fixed number of items pulled from the [Source] in the background, so
// a slow consumer doesn't leave the source idle and a bursty source doesn't stall the consumer.
// Items are delivered in the order of the source and exactly once. At most one call to the
// source is in flight at any time.
//
// A [Buffer] has a single consumer. Sources can be built from functions, iterators, channels,
// database rows and encoded streams, see [SourceFunc], [FromSeq], [FromSeq2], [FromChan],
// [FromRows] and [FromReader]. Failing sources can be retried with [Retry].
package readahead
