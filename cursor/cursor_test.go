package cursor

import (
	"errors"
	"testing"
	"time"

	"github.com/nakamauwu/casa/types"
)

func TestEncodeDecode(t *testing.T) {
	ts := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s, err := Encode(Cursor[time.Time]{ID: "c1", Value: ts})
	if err != nil {
		t.Fatal(err)
	}

	got, err := Decode[time.Time](s)
	if err != nil {
		t.Fatal(err)
	}

	if got.ID != "c1" || !got.Value.Equal(ts) {
		t.Errorf("Decode() = %+v", got)
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, s := range []string{"", "0OIl", "abc"} {
		if _, err := Decode[int64](s); !errors.Is(err, types.ErrInvalidCursor) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidCursor", s, err)
		}
	}
}

func TestApplyPageInfo(t *testing.T) {
	items := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = string(rune('a' + i))
		}
		return out
	}
	cursorFunc := func(s string) Cursor[int64] { return Cursor[int64]{ID: s} }

	t.Run("forward_has_next", func(t *testing.T) {
		page := types.Page[string]{Items: items(4)}
		if err := ApplyPageInfo(&page, PageArgs[int64]{First: new(uint(3))}, cursorFunc); err != nil {
			t.Fatal(err)
		}

		if len(page.Items) != 3 || !page.PageInfo.HasNextPage || page.PageInfo.HasPreviousPage {
			t.Errorf("unexpected page: %+v", page)
		}

		end, err := Decode[int64](*page.PageInfo.EndCursor)
		if err != nil {
			t.Fatal(err)
		}

		if end.ID != "c" {
			t.Errorf("end cursor = %q, want c", end.ID)
		}
	})

	t.Run("backwards_reversed", func(t *testing.T) {
		page := types.Page[string]{Items: []string{"c", "b", "a"}}
		args := PageArgs[int64]{Last: new(uint(2)), Before: &Cursor[int64]{ID: "d"}}
		if err := ApplyPageInfo(&page, args, cursorFunc); err != nil {
			t.Fatal(err)
		}

		if len(page.Items) != 2 || page.Items[0] != "b" || page.Items[1] != "c" {
			t.Errorf("items = %v, want [b c]", page.Items)
		}

		if !page.PageInfo.HasPreviousPage || !page.PageInfo.HasNextPage {
			t.Errorf("unexpected page info: %+v", page.PageInfo)
		}
	})

	t.Run("empty", func(t *testing.T) {
		var page types.Page[string]
		if err := ApplyPageInfo(&page, PageArgs[int64]{}, cursorFunc); err != nil {
			t.Fatal(err)
		}

		if page.PageInfo.EndCursor != nil {
			t.Error("expected nil end cursor")
		}
	})
}
