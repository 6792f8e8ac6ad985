// Package storetest checks a [service.Store] implementation against the
// behavior the service relies on.
package storetest

import (
	"errors"
	"sync"
	"testing"

	"github.com/nakamauwu/casa/cursor"
	"github.com/nakamauwu/casa/id"
	"github.com/nakamauwu/casa/service"
	"github.com/nakamauwu/casa/types"
)

// Run executes every check against s. The store may be shared with other
// tests; every check works on fresh identifiers.
func Run(t *testing.T, s service.Store) {
	t.Run("users", func(t *testing.T) { testUsers(t, s) })
	t.Run("resolve_symmetric", func(t *testing.T) { testResolveSymmetric(t, s) })
	t.Run("resolve_self", func(t *testing.T) { testResolveSelf(t, s) })
	t.Run("resolve_concurrent", func(t *testing.T) { testResolveConcurrent(t, s) })
	t.Run("append_and_list", func(t *testing.T) { testAppendAndList(t, s) })
	t.Run("append_rejected", func(t *testing.T) { testAppendRejected(t, s) })
	t.Run("unread", func(t *testing.T) { testUnread(t, s) })
	t.Run("conversation_read_marker", func(t *testing.T) { testConversationReadMarker(t, s) })
	t.Run("conversations_page", func(t *testing.T) { testConversationsPage(t, s) })
	t.Run("support_conversation", func(t *testing.T) { testSupportConversation(t, s) })
	t.Run("attachment_visible", func(t *testing.T) { testAttachmentVisible(t, s) })
}

func testUsers(t *testing.T, s service.Store) {
	ctx := t.Context()
	a, b := id.Generate(), id.Generate()

	if err := s.UpsertUser(ctx, types.User{ID: a, Role: types.RoleRegular, FullName: new("Ana")}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertUser(ctx, types.User{ID: a, Role: types.RoleRegular, FullName: new("Ana María")}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertUser(ctx, types.User{ID: b, Role: types.RoleAdmin, Email: new("b@example.com")}); err != nil {
		t.Fatal(err)
	}

	got, err := s.User(ctx, a)
	if err != nil {
		t.Fatal(err)
	}
	if got.FullName == nil || *got.FullName != "Ana María" {
		t.Fatalf("expected updated full name, got %v", got.FullName)
	}

	admin, err := s.User(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if admin.Role != types.RoleAdmin || admin.Email == nil || *admin.Email != "b@example.com" {
		t.Fatalf("unexpected admin %+v", admin)
	}

	_, err = s.User(ctx, id.Generate())
	if !errors.Is(err, types.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func testResolveSymmetric(t *testing.T, s service.Store) {
	ctx := t.Context()
	a, b := id.Generate(), id.Generate()

	c1, err := s.ResolveConversation(ctx, a, b, types.AdminSupportContext, "Support")
	if err != nil {
		t.Fatal(err)
	}

	c2, err := s.ResolveConversation(ctx, b, a, types.AdminSupportContext, "Another subject")
	if err != nil {
		t.Fatal(err)
	}

	if c1.ID != c2.ID {
		t.Fatalf("expected same conversation, got %q and %q", c1.ID, c2.ID)
	}
	if c2.Subject != "Support" {
		t.Fatalf("expected subject to be kept, got %q", c2.Subject)
	}
	if c1.ParticipantA >= c1.ParticipantB {
		t.Fatalf("expected canonical participant order, got %q %q", c1.ParticipantA, c1.ParticipantB)
	}
	if !c1.HasParticipant(a) || !c1.HasParticipant(b) {
		t.Fatal("expected both participants")
	}
	if c1.Context != types.AdminSupportContext {
		t.Fatalf("expected admin_support context, got %s", c1.Context)
	}

	contexts := []types.ConversationContext{
		types.NoContext,
		types.ListingContext("listing1"),
		types.ListingContext("listing2"),
		types.RequestContext("listing1"),
	}
	seen := map[string]bool{c1.ID: true}
	for _, conversationCtx := range contexts {
		c, err := s.ResolveConversation(ctx, a, b, conversationCtx, "")
		if err != nil {
			t.Fatal(err)
		}
		if seen[c.ID] {
			t.Fatalf("expected a distinct conversation for context %s", conversationCtx)
		}
		seen[c.ID] = true

		again, err := s.ResolveConversation(ctx, b, a, conversationCtx, "")
		if err != nil {
			t.Fatal(err)
		}
		if again.ID != c.ID {
			t.Fatalf("expected context %s to resolve to %q, got %q", conversationCtx, c.ID, again.ID)
		}
	}
}

func testResolveSelf(t *testing.T, s service.Store) {
	a := id.Generate()
	_, err := s.ResolveConversation(t.Context(), a, a, types.NoContext, "")
	if !errors.Is(err, types.ErrSelfConversation) {
		t.Fatalf("expected ErrSelfConversation, got %v", err)
	}
}

func testResolveConcurrent(t *testing.T, s service.Store) {
	ctx := t.Context()
	a, b := id.Generate(), id.Generate()

	const n = 16
	ids := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			x, y := a, b
			if i%2 == 1 {
				x, y = b, a
			}
			c, err := s.ResolveConversation(ctx, x, y, types.ListingContext("listing1"), "Listing")
			ids[i], errs[i] = c.ID, err
		})
	}
	wg.Wait()

	for i := range n {
		if errs[i] != nil {
			t.Fatalf("resolve %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Fatalf("expected a single conversation, got %q and %q", ids[0], ids[i])
		}
	}
}

func testAppendAndList(t *testing.T, s service.Store) {
	ctx := t.Context()
	a, b := id.Generate(), id.Generate()

	conv, err := s.ResolveConversation(ctx, a, b, types.AdminSupportContext, "Support")
	if err != nil {
		t.Fatal(err)
	}

	m1, err := s.CreateMessage(ctx, createMessage(conv.ID, a, "Hello", nil))
	if err != nil {
		t.Fatal(err)
	}

	attachment := &types.AttachmentRef{
		StoragePath: b + "/abc-img.png",
		FileName:    "img.png",
		MIMEType:    "image/png",
		SizeBytes:   2048,
		Width:       64,
		Height:      32,
	}
	m2, err := s.CreateMessage(ctx, createMessage(conv.ID, b, "", attachment))
	if err != nil {
		t.Fatal(err)
	}

	if m1.Seq != 1 || m2.Seq != 2 {
		t.Fatalf("expected seq 1 and 2, got %d and %d", m1.Seq, m2.Seq)
	}
	if m2.CreatedAt.Before(m1.CreatedAt) {
		t.Fatalf("expected non decreasing created_at, got %s after %s", m2.CreatedAt, m1.CreatedAt)
	}

	got, err := s.Messages(ctx, types.ListMessages{ConversationID: conv.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != m1.ID || got[1].ID != m2.ID {
		t.Fatalf("expected [m1 m2], got %+v", got)
	}
	if got[0].Content != "Hello" || got[0].Attachment != nil {
		t.Fatalf("unexpected first message %+v", got[0])
	}
	if got[1].Attachment == nil || *got[1].Attachment != *attachment {
		t.Fatalf("expected attachment %+v, got %+v", attachment, got[1].Attachment)
	}

	after, err := cursor.Message(m1)
	if err != nil {
		t.Fatal(err)
	}
	got, err = s.Messages(ctx, types.ListMessages{ConversationID: conv.ID, After: &after})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != m2.ID {
		t.Fatalf("expected only m2 after m1, got %+v", got)
	}

	reloaded, err := s.Conversation(ctx, conv.ID, a)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.LastMessageAt == nil || !reloaded.LastMessageAt.Equal(m2.CreatedAt) {
		t.Fatalf("expected last_message_at %s, got %v", m2.CreatedAt, reloaded.LastMessageAt)
	}
}

func testAppendRejected(t *testing.T, s service.Store) {
	ctx := t.Context()
	a, b, outsider := id.Generate(), id.Generate(), id.Generate()

	conv, err := s.ResolveConversation(ctx, a, b, types.NoContext, "")
	if err != nil {
		t.Fatal(err)
	}

	_, err = s.CreateMessage(ctx, createMessage(conv.ID, outsider, "Hi", nil))
	if !errors.Is(err, types.ErrNotAParticipant) {
		t.Fatalf("expected ErrNotAParticipant, got %v", err)
	}

	_, err = s.CreateMessage(ctx, createMessage(id.Generate(), a, "Hi", nil))
	if !errors.Is(err, types.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}

	got, err := s.Messages(ctx, types.ListMessages{ConversationID: conv.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no messages, got %d", len(got))
	}
}

func testUnread(t *testing.T, s service.Store) {
	ctx := t.Context()
	a, b := id.Generate(), id.Generate()

	conv, err := s.ResolveConversation(ctx, a, b, types.AdminSupportContext, "Support")
	if err != nil {
		t.Fatal(err)
	}

	wantUnread(t, s, a, 0)

	mustCreateMessage(t, s, conv.ID, a, "Hello")
	mustCreateMessage(t, s, conv.ID, b, "Hi there")

	wantUnread(t, s, a, 1)
	wantUnread(t, s, b, 1)

	if err := s.MarkRead(ctx, a); err != nil {
		t.Fatal(err)
	}
	wantUnread(t, s, a, 0)

	if err := s.MarkRead(ctx, a); err != nil {
		t.Fatal(err)
	}
	wantUnread(t, s, a, 0)
	wantUnread(t, s, b, 1)

	mustCreateMessage(t, s, conv.ID, b, "Are you there?")
	wantUnread(t, s, a, 1)
}

func testConversationReadMarker(t *testing.T, s service.Store) {
	ctx := t.Context()
	a, b, c := id.Generate(), id.Generate(), id.Generate()

	withB, err := s.ResolveConversation(ctx, a, b, types.NoContext, "")
	if err != nil {
		t.Fatal(err)
	}
	withC, err := s.ResolveConversation(ctx, a, c, types.NoContext, "")
	if err != nil {
		t.Fatal(err)
	}

	mustCreateMessage(t, s, withB.ID, b, "From b")
	mustCreateMessage(t, s, withC.ID, c, "From c")
	wantUnread(t, s, a, 2)

	if err := s.MarkConversationRead(ctx, a, withB.ID); err != nil {
		t.Fatal(err)
	}
	wantUnread(t, s, a, 1)

	got, err := s.Conversation(ctx, withB.ID, a)
	if err != nil {
		t.Fatal(err)
	}
	if got.UnreadCount != 0 {
		t.Fatalf("expected 0 unread in read conversation, got %d", got.UnreadCount)
	}

	got, err = s.Conversation(ctx, withC.ID, a)
	if err != nil {
		t.Fatal(err)
	}
	if got.UnreadCount != 1 {
		t.Fatalf("expected 1 unread in other conversation, got %d", got.UnreadCount)
	}
}

func testConversationsPage(t *testing.T, s service.Store) {
	ctx := t.Context()
	viewer := id.Generate()
	others := []string{id.Generate(), id.Generate(), id.Generate()}

	var convs []types.Conversation
	for i, other := range others {
		err := s.UpsertUser(ctx, types.User{ID: other, Role: types.RoleRegular, FullName: new("Other " + string(rune('A'+i)))})
		if err != nil {
			t.Fatal(err)
		}

		conv, err := s.ResolveConversation(ctx, viewer, other, types.NoContext, "")
		if err != nil {
			t.Fatal(err)
		}
		convs = append(convs, conv)
	}

	// The oldest conversation becomes the most recently active one.
	mustCreateMessage(t, s, convs[0].ID, others[0], "Bump")

	in := types.ListConversations{PageArgs: types.PageArgs{First: new(uint(2))}}
	in.SetLoggedInUserID(viewer)
	page, err := s.Conversations(ctx, in)
	if err != nil {
		t.Fatal(err)
	}

	if len(page.Items) != 2 || !page.PageInfo.HasNextPage {
		t.Fatalf("expected 2 items and a next page, got %d %+v", len(page.Items), page.PageInfo)
	}
	if page.Items[0].ID != convs[0].ID || page.Items[1].ID != convs[2].ID {
		t.Fatalf("unexpected order %q %q", page.Items[0].ID, page.Items[1].ID)
	}

	first := page.Items[0]
	if first.OtherParticipant == nil || first.OtherParticipant.ID != others[0] {
		t.Fatalf("expected other participant %q, got %+v", others[0], first.OtherParticipant)
	}
	if first.UnreadCount != 1 {
		t.Fatalf("expected 1 unread, got %d", first.UnreadCount)
	}

	in.PageArgs.After = page.PageInfo.EndCursor
	page, err = s.Conversations(ctx, in)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != convs[1].ID || page.PageInfo.HasNextPage {
		t.Fatalf("expected last conversation only, got %d items %+v", len(page.Items), page.PageInfo)
	}

	in.PageArgs.After = new("nope")
	_, err = s.Conversations(ctx, in)
	if !errors.Is(err, types.ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func testSupportConversation(t *testing.T, s service.Store) {
	ctx := t.Context()
	user, admin, regular := id.Generate(), id.Generate(), id.Generate()

	if err := s.UpsertUser(ctx, types.User{ID: admin, Role: types.RoleAdmin, FullName: new("Root")}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpsertUser(ctx, types.User{ID: regular, Role: types.RoleRegular}); err != nil {
		t.Fatal(err)
	}

	_, err := s.SupportConversation(ctx, user)
	if !errors.Is(err, types.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}

	// A non support conversation with an admin and a support one with a
	// regular user must not be picked.
	if _, err := s.ResolveConversation(ctx, user, admin, types.ListingContext("listing1"), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ResolveConversation(ctx, user, regular, types.AdminSupportContext, ""); err != nil {
		t.Fatal(err)
	}

	_, err = s.SupportConversation(ctx, user)
	if !errors.Is(err, types.ErrConversationNotFound) {
		t.Fatalf("expected ErrConversationNotFound, got %v", err)
	}

	want, err := s.ResolveConversation(ctx, user, admin, types.AdminSupportContext, "Help")
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.SupportConversation(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != want.ID {
		t.Fatalf("expected support conversation %q, got %q", want.ID, got.ID)
	}
	if got.OtherParticipant == nil || !got.OtherParticipant.IsAdmin() {
		t.Fatalf("expected admin other participant, got %+v", got.OtherParticipant)
	}

	picked, err := s.SupportAdmin(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if !picked.IsAdmin() || picked.ID == user {
		t.Fatalf("unexpected support admin %+v", picked)
	}
}

func createMessage(conversationID, senderID, content string, attachment *types.AttachmentRef) types.CreateMessage {
	in := types.CreateMessage{
		ConversationID: conversationID,
		Content:        content,
		Attachment:     attachment,
	}
	in.SetLoggedInUserID(senderID)
	return in
}

func mustCreateMessage(t *testing.T, s service.Store, conversationID, senderID, content string) types.Message {
	t.Helper()
	m, err := s.CreateMessage(t.Context(), createMessage(conversationID, senderID, content, nil))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func wantUnread(t *testing.T, s service.Store, userID string, want int) {
	t.Helper()
	got, err := s.UnreadCount(t.Context(), userID)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("expected %d unread for %s, got %d", want, userID, got)
	}
}

func testAttachmentVisible(t *testing.T, s service.Store) {
	ctx := t.Context()
	a, b, outsider := id.Generate(), id.Generate(), id.Generate()

	conv, err := s.ResolveConversation(ctx, a, b, types.NoContext, "")
	if err != nil {
		t.Fatal(err)
	}

	storagePath := a + "/x-photo.png"
	in := createMessage(conv.ID, a, "", &types.AttachmentRef{
		StoragePath: storagePath,
		FileName:    "photo.png",
		MIMEType:    "image/png",
		SizeBytes:   10,
	})
	if _, err := s.CreateMessage(ctx, in); err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name   string
		path   string
		viewer string
		want   bool
	}{
		{name: "sender", path: storagePath, viewer: a, want: true},
		{name: "recipient", path: storagePath, viewer: b, want: true},
		{name: "outsider", path: storagePath, viewer: outsider, want: false},
		{name: "unreferenced", path: a + "/x-other.png", viewer: b, want: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.AttachmentVisible(ctx, tc.path, tc.viewer)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("expected visible=%v, got %v", tc.want, got)
			}
		})
	}
}
