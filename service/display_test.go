package service

import (
	"testing"

	"github.com/nakamauwu/casa/types"
)

func TestDisplayName(t *testing.T) {
	tt := []struct {
		name string
		in   types.User
		want string
	}{
		{
			name: "admin_with_name",
			in:   types.User{ID: "u1", Role: types.RoleAdmin, FullName: new("Jane Doe"), Email: new("jane@example.com")},
			want: "Administrator",
		},
		{
			name: "full_name",
			in:   types.User{ID: "u1", Role: types.RoleRegular, FullName: new("Jane Doe"), Email: new("jane@example.com")},
			want: "Jane Doe",
		},
		{
			name: "blank_full_name_falls_to_email",
			in:   types.User{ID: "u1", Role: types.RoleRegular, FullName: new("  "), Email: new("jane@example.com")},
			want: "jane@example.com",
		},
		{
			name: "email",
			in:   types.User{ID: "u1", Role: types.RoleRegular, Email: new("jane@example.com")},
			want: "jane@example.com",
		},
		{
			name: "fallback",
			in:   types.User{ID: "u1", Role: types.RoleRegular},
			want: "User",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayName(tc.in); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSenderLabel(t *testing.T) {
	admin := types.User{ID: "admin1", Role: types.RoleAdmin, FullName: new("Root")}
	regular := types.User{ID: "u1", Role: types.RoleRegular, FullName: new("Jane")}

	tt := []struct {
		name   string
		in     types.User
		viewer string
		want   string
	}{
		{name: "own_message", in: regular, viewer: "u1", want: "You"},
		{name: "own_message_as_admin", in: admin, viewer: "admin1", want: "You"},
		{name: "admin_seen_by_other", in: admin, viewer: "u1", want: "Administrator"},
		{name: "regular_seen_by_admin", in: regular, viewer: "admin1", want: "Jane"},
		{name: "unknown_sender_no_viewer", in: types.User{}, viewer: "", want: "User"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := SenderLabel(tc.in, tc.viewer); got != tc.want {
				t.Errorf("SenderLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}
