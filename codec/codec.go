// This package contains the main [Codec] interface and several implementations inside subpackages.
package codec

import (
	"io"
	"iter"
)

// Codec encodes items into a stream and decodes them back one by one.
//
// Implementations are not considered thread-safe, but each decoder returned by Decoder keeps its
// own state, so one codec can serve many streams sequentially.
type Codec[Item any] interface {
	// Encode writes a sequence of items to w.
	Encode(w io.Writer, items iter.Seq[Item]) error
	// Decoder returns a function that decodes the next item from r on every call.
	//
	// The function returns io.EOF once r is over at an item boundary.
	Decoder(r io.Reader) Decoder[Item]
}

// Decoder decodes a single item per call.
type Decoder[Item any] = func() (Item, error)
