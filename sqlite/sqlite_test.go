package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nakamauwu/casa/id"
	"github.com/nakamauwu/casa/service"
	"github.com/nakamauwu/casa/storetest"
	"github.com/nakamauwu/casa/types"
)

var _ service.Store = (*SQLite)(nil)

func testSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, testSQLite(t))
}

func TestSupportAdminExcludesCaller(t *testing.T) {
	s := testSQLite(t)
	ctx := t.Context()
	admin := id.Generate()

	if err := s.UpsertUser(ctx, types.User{ID: admin, Role: types.RoleAdmin}); err != nil {
		t.Fatal(err)
	}

	_, err := s.SupportAdmin(ctx, admin)
	if !errors.Is(err, types.ErrSupportTargetNotFound) {
		t.Fatalf("expected ErrSupportTargetNotFound, got %v", err)
	}

	got, err := s.SupportAdmin(ctx, id.Generate())
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != admin {
		t.Fatalf("expected admin %q, got %q", admin, got.ID)
	}
}

func TestCreateMessageClockSkew(t *testing.T) {
	s := testSQLite(t)
	ctx := t.Context()
	a, b := id.Generate(), id.Generate()

	conv, err := s.ResolveConversation(ctx, a, b, types.NoContext, "")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	s.now = func() time.Time { return now }

	in := types.CreateMessage{ConversationID: conv.ID, Content: "first"}
	in.SetLoggedInUserID(a)
	first, err := s.CreateMessage(ctx, in)
	if err != nil {
		t.Fatal(err)
	}

	// The clock moving backwards must not reorder the log.
	s.now = func() time.Time { return now.Add(-time.Minute) }

	in = types.CreateMessage{ConversationID: conv.ID, Content: "second"}
	in.SetLoggedInUserID(b)
	second, err := s.CreateMessage(ctx, in)
	if err != nil {
		t.Fatal(err)
	}

	if second.CreatedAt.Before(first.CreatedAt) {
		t.Fatalf("expected %s not before %s", second.CreatedAt, first.CreatedAt)
	}
	if second.Seq != first.Seq+1 {
		t.Fatalf("expected seq %d, got %d", first.Seq+1, second.Seq)
	}
}

func TestIsUnavailable(t *testing.T) {
	tt := []struct {
		name string
		err  error
		want bool
	}{
		{name: "deadline", err: fmt.Errorf("exec: %w", context.DeadlineExceeded), want: true},
		{name: "plain", err: errors.New("boom"), want: false},
		{name: "not_found", err: types.ErrConversationNotFound, want: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := dbErr("sqlite op", tc.err)
			if got := errors.Is(err, types.ErrStoreUnavailable); got != tc.want {
				t.Fatalf("expected unavailable=%v, got %v", tc.want, got)
			}
		})
	}
}
