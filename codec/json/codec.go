package json

import (
	"encoding/json"
	"io"
	"iter"

	"github.com/teenjuna/readahead/codec"
)

// Codec encodes items as a stream of JSON values, one per line.
type Codec[Item any] struct{}

var _ codec.Codec[any] = (*Codec[any])(nil)

func New[Item any]() *Codec[Item] {
	return &Codec[Item]{}
}

func (c *Codec[Item]) Encode(w io.Writer, items iter.Seq[Item]) error {
	enc := json.NewEncoder(w)
	for item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

func (c *Codec[Item]) Decoder(r io.Reader) codec.Decoder[Item] {
	dec := json.NewDecoder(r)
	return func() (Item, error) {
		var item Item
		if err := dec.Decode(&item); err != nil {
			return item, err
		}
		return item, nil
	}
}
