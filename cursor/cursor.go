// Package cursor encodes opaque pagination cursors shared by the stores.
package cursor

import (
	"fmt"
	"slices"

	"github.com/btcsuite/btcutil/base58"
	"github.com/nakamauwu/casa/types"
	"github.com/vmihailenco/msgpack/v5"
)

const DefaultPageSize = 20

type Cursor[T any] struct {
	ID string `msgpack:"i"`
	// Value is the sort key next to ID; a timestamp for conversations
	// and a sequence number for messages.
	Value T `msgpack:"v,omitempty"`
}

func Encode[T any](c Cursor[T]) (string, error) {
	b, err := msgpack.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("msgpack marshal cursor: %w", err)
	}

	return base58.Encode(b), nil
}

func Decode[T any](s string) (Cursor[T], error) {
	var c Cursor[T]

	b := base58.Decode(s)
	if len(b) == 0 {
		return c, types.ErrInvalidCursor
	}

	if err := msgpack.Unmarshal(b, &c); err != nil || c.ID == "" {
		return c, types.ErrInvalidCursor
	}

	return c, nil
}

type PageArgs[T any] struct {
	First  *uint
	After  *Cursor[T]
	Last   *uint
	Before *Cursor[T]
}

func (args PageArgs[T]) IsBackwards() bool {
	return args.Last != nil || args.Before != nil
}

// Limit is the page size plus one so the caller can tell whether there
// is another page.
func (args PageArgs[T]) Limit() uint {
	if args.IsBackwards() {
		return or(args.Last, DefaultPageSize) + 1
	}
	return or(args.First, DefaultPageSize) + 1
}

func ParsePageArgs[T any](in types.PageArgs) (PageArgs[T], error) {
	var out PageArgs[T]

	if in.After != nil {
		after, err := Decode[T](*in.After)
		if err != nil {
			return out, fmt.Errorf("decode after cursor: %w", err)
		}

		out.After = &after
	}

	if in.Before != nil {
		before, err := Decode[T](*in.Before)
		if err != nil {
			return out, fmt.Errorf("decode before cursor: %w", err)
		}

		out.Before = &before
	}

	out.First = in.First
	out.Last = in.Last

	return out, nil
}

// ApplyPageInfo modifies the given page in-place.
// This is due to it needs to cut the items slice back by one
// and also reverse it in case of backwards pagination.
func ApplyPageInfo[I, C any](page *types.Page[I], pageArgs PageArgs[C], cursorFunc func(item I) Cursor[C]) error {
	l := uint(len(page.Items))
	if l == 0 {
		return nil
	}

	backwards := pageArgs.IsBackwards()
	if backwards {
		last := or(pageArgs.Last, DefaultPageSize)
		page.PageInfo.HasPreviousPage = l > last
		if page.PageInfo.HasPreviousPage {
			page.Items = page.Items[:last]
		}
		page.PageInfo.HasNextPage = pageArgs.Before != nil
	} else {
		first := or(pageArgs.First, DefaultPageSize)
		page.PageInfo.HasNextPage = l > first
		if page.PageInfo.HasNextPage {
			page.Items = page.Items[:first]
		}
		page.PageInfo.HasPreviousPage = pageArgs.After != nil
	}

	if backwards {
		slices.Reverse(page.Items)
	}

	l = uint(len(page.Items))
	if l == 0 {
		return nil
	}

	startCursor := cursorFunc(page.Items[0])
	endCursor := cursorFunc(page.Items[l-1])

	if c, err := Encode(startCursor); err != nil {
		return fmt.Errorf("encode start cursor: %w", err)
	} else {
		page.PageInfo.StartCursor = new(c)
	}

	if c, err := Encode(endCursor); err != nil {
		return fmt.Errorf("encode end cursor: %w", err)
	} else {
		page.PageInfo.EndCursor = new(c)
	}

	return nil
}

// Message returns the cursor pointing right after m.
func Message(m types.Message) (string, error) {
	return Encode(Cursor[int64]{ID: m.ID, Value: m.Seq})
}

func or[T any](a *T, b T) T {
	if a != nil {
		return *a
	}

	return b
}
