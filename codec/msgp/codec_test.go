package msgp_test

import (
	"bytes"
	"io"
	"math/rand/v2"
	"slices"
	"strconv"
	"testing"

	"github.com/tinylib/msgp/msgp"

	codec "github.com/teenjuna/readahead/codec/msgp"
	"github.com/teenjuna/readahead/internal/testing/require"
)

// Item implements the msgp interfaces by hand, the way msgp would generate them for a tuple.
type Item struct {
	ID string
	N1 int
	N2 float64
}

func (i *Item) EncodeMsg(w *msgp.Writer) error {
	if err := w.WriteArrayHeader(3); err != nil {
		return err
	}
	if err := w.WriteString(i.ID); err != nil {
		return err
	}
	if err := w.WriteInt(i.N1); err != nil {
		return err
	}
	return w.WriteFloat64(i.N2)
}

func (i *Item) DecodeMsg(r *msgp.Reader) (err error) {
	n, err := r.ReadArrayHeader()
	if err != nil {
		return err
	}
	if n != 3 {
		return msgp.ArrayError{Wanted: 3, Got: n}
	}
	if i.ID, err = r.ReadString(); err != nil {
		return err
	}
	if i.N1, err = r.ReadInt(); err != nil {
		return err
	}
	i.N2, err = r.ReadFloat64()
	return err
}

func TestCodec(t *testing.T) {
	c := codec.New[Item]()

	for range 2 {
		var items []Item
		for i := range 1000 {
			items = append(items, Item{
				ID: strconv.Itoa(i),
				N1: rand.IntN(1000),
				N2: rand.Float64() * 1000,
			})
		}

		var buf bytes.Buffer
		require.Nil(t, c.Encode(&buf, slices.Values(items)))
		require.NotEqual(t, buf.Len(), 0)

		decode := c.Decoder(&buf)
		var decoded []Item
		for {
			item, err := decode()
			if err == io.EOF {
				break
			}
			require.Nil(t, err)
			decoded = append(decoded, item)
		}
		require.Equal(t, decoded, items)
	}
}

func TestCodecRaw(t *testing.T) {
	c := codec.New[msgp.Raw]()

	items := []msgp.Raw{
		msgp.AppendInt(nil, 1),
		msgp.AppendString(nil, "two"),
		msgp.AppendBool(nil, true),
	}

	var buf bytes.Buffer
	require.Nil(t, c.Encode(&buf, slices.Values(items)))

	decode := c.Decoder(&buf)
	for _, want := range items {
		item, err := decode()
		require.Nil(t, err)
		require.Equal(t, item, want)
	}
	_, err := decode()
	require.Equal(t, err, io.EOF)
}
