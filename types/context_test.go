package types

import (
	"errors"
	"testing"
)

func TestParseConversationContext(t *testing.T) {
	tt := []struct {
		name    string
		in      string
		want    ConversationContext
		wantErr bool
	}{
		{name: "empty_is_none", in: "", want: NoContext},
		{name: "none", in: "none", want: NoContext},
		{name: "admin_support", in: "admin_support", want: AdminSupportContext},
		{name: "listing", in: "listing:abc123", want: ListingContext("abc123")},
		{name: "request", in: "request:r1", want: RequestContext("r1")},
		{name: "spaces_trimmed", in: "  listing:abc  ", want: ListingContext("abc")},
		{name: "unknown_kind", in: "group", wantErr: true},
		{name: "listing_without_ref", in: "listing", wantErr: true},
		{name: "listing_empty_ref", in: "listing:", wantErr: true},
		{name: "none_with_ref", in: "none:x", wantErr: true},
		{name: "admin_support_with_ref", in: "admin_support:x", wantErr: true},
		{name: "nested_ref", in: "listing:a:b", wantErr: true},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseConversationContext(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidContext) {
					t.Fatalf("expected ErrInvalidContext, got %v", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tc.want {
				t.Errorf("ParseConversationContext(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestConversationContext_String(t *testing.T) {
	tt := []struct {
		in   ConversationContext
		want string
	}{
		{in: NoContext, want: "none"},
		{in: AdminSupportContext, want: "admin_support"},
		{in: ListingContext("l1"), want: "listing:l1"},
		{in: RequestContext("r1"), want: "request:r1"},
	}
	for _, tc := range tt {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}

		var back ConversationContext
		if err := back.Scan(tc.want); err != nil {
			t.Fatalf("Scan(%q): %v", tc.want, err)
		}

		if back != tc.in {
			t.Errorf("Scan(%q) = %+v, want %+v", tc.want, back, tc.in)
		}
	}
}

func TestPairKey(t *testing.T) {
	a, b, err := PairKey("u2", "u1")
	if err != nil {
		t.Fatal(err)
	}

	a2, b2, err := PairKey("u1", "u2")
	if err != nil {
		t.Fatal(err)
	}

	if a != "u1" || b != "u2" || a != a2 || b != b2 {
		t.Errorf("PairKey not canonical: (%s, %s) vs (%s, %s)", a, b, a2, b2)
	}

	if _, _, err := PairKey("u1", "u1"); !errors.Is(err, ErrSelfConversation) {
		t.Errorf("expected ErrSelfConversation, got %v", err)
	}
}
