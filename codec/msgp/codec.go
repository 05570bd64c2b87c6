package msgp

import (
	"io"
	"iter"

	"github.com/tinylib/msgp/msgp"

	"github.com/teenjuna/readahead/codec"
)

// Codec encodes items as a stream of MessagePack values.
//
// Items must implement [msgp.Encodable] and [msgp.Decodable] on their pointer type, usually
// through code generated by the msgp tool.
type Codec[Item any, ItemPtr msgpable[Item]] struct{}

var _ codec.Codec[msgp.Raw] = (*Codec[msgp.Raw, *msgp.Raw])(nil)

func New[Item any, ItemPtr msgpable[Item]]() *Codec[Item, ItemPtr] {
	return &Codec[Item, ItemPtr]{}
}

func (c *Codec[Item, ItemPtr]) Encode(w io.Writer, items iter.Seq[Item]) error {
	mw := msgp.NewWriter(w)
	for item := range items {
		if err := ItemPtr(&item).EncodeMsg(mw); err != nil {
			return err
		}
	}
	return mw.Flush()
}

func (c *Codec[Item, ItemPtr]) Decoder(r io.Reader) codec.Decoder[Item] {
	mr := msgp.NewReader(r)
	return func() (Item, error) {
		var item Item
		if err := ItemPtr(&item).DecodeMsg(mr); err != nil {
			return item, err
		}
		return item, nil
	}
}

type msgpable[Item any] interface {
	*Item
	msgp.Encodable
	msgp.Decodable
}
