package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/nakamauwu/casa/chatsession"
	"github.com/nakamauwu/casa/id"
	"github.com/nakamauwu/casa/service"
	"github.com/nakamauwu/casa/sqlite"
	httptransport "github.com/nakamauwu/casa/transport/http"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
)

type memBlob struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func (b *memBlob) Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[path] = data
	b.contentTypes[path] = contentType
	return nil
}

func (b *memBlob) Download(ctx context.Context, path string) (types.BlobObject, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, ok := b.objects[path]
	if !ok {
		return types.BlobObject{}, errors.New("no such object")
	}

	return types.BlobObject{
		ReadCloser:  io.NopCloser(bytes.NewReader(data)),
		Size:        int64(len(data)),
		ContentType: b.contentTypes[path],
	}, nil
}

func (b *memBlob) PublicURL(path string) string {
	return "http://blob.test/" + path
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}

	svc := service.New(&service.Config{
		Store:   store,
		Blob:    &memBlob{objects: map[string][]byte{}, contentTypes: map[string]string{}},
		BaseCtx: t.Context(),
	})

	srv := httptest.NewServer(&httptransport.Handler{Service: svc})

	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close()
		_ = store.Close()
	})

	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, role types.Role, fullName string) (*Client, types.User) {
	t.Helper()

	u := types.User{ID: id.Generate(), Role: role}
	if fullName != "" {
		u.FullName = new(fullName)
	}

	c, err := New(srv.URL, u, srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	// Makes the user known to the server.
	if _, err := c.UnreadCount(t.Context()); err != nil {
		t.Fatal(err)
	}

	return c, u
}

func TestClient_Session(t *testing.T) {
	srv := newTestServer(t)
	aliceClient, alice := newTestClient(t, srv, types.RoleRegular, "Alice")
	bobClient, bob := newTestClient(t, srv, types.RoleRegular, "Bob")

	aliceSession := chatsession.New(chatsession.Config{Backend: aliceClient, UserID: alice.ID})
	target := chatsession.Target{OtherUserID: bob.ID, Context: types.ListingContext("l1"), Subject: "Flat"}
	if err := aliceSession.Open(t.Context(), target); err != nil {
		t.Fatal(err)
	}
	if err := aliceSession.Load(t.Context()); err != nil {
		t.Fatal(err)
	}
	if err := aliceSession.Send(t.Context(), chatsession.Draft{Content: "Hello"}); err != nil {
		t.Fatal(err)
	}

	bobSession := chatsession.New(chatsession.Config{Backend: bobClient, UserID: bob.ID})
	target = chatsession.Target{OtherUserID: alice.ID, Context: types.ListingContext("l1")}
	if err := bobSession.Open(t.Context(), target); err != nil {
		t.Fatal(err)
	}

	aliceConv, _ := aliceSession.Conversation()
	bobConv, _ := bobSession.Conversation()
	if aliceConv.ID != bobConv.ID {
		t.Fatalf("expected the same conversation, got %q and %q", aliceConv.ID, bobConv.ID)
	}

	if err := bobSession.Load(t.Context()); err != nil {
		t.Fatal(err)
	}

	msgs := bobSession.Messages()
	if len(msgs) != 1 || msgs[0].Content != "Hello" || msgs[0].SenderName != "Alice" {
		t.Fatalf("unexpected messages %+v", msgs)
	}

	n, err := bobSession.UnreadCount(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want unread count 1, got %d", n)
	}

	if err := bobSession.MarkRead(t.Context()); err != nil {
		t.Fatal(err)
	}

	n, err = bobSession.RefreshUnreadCount(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("want unread count 0, got %d", n)
	}

	if err := bobSession.Send(t.Context(), chatsession.Draft{Content: "Hi Alice"}); err != nil {
		t.Fatal(err)
	}

	if err := aliceSession.Refresh(t.Context()); err != nil {
		t.Fatal(err)
	}

	msgs = aliceSession.Messages()
	if len(msgs) != 2 || msgs[1].Content != "Hi Alice" || msgs[1].SenderName != "Bob" {
		t.Fatalf("unexpected messages %+v", msgs)
	}

	page, err := aliceClient.Conversations(t.Context(), 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != aliceConv.ID || page.Items[0].UnreadCount != 1 {
		t.Fatalf("unexpected conversations %+v", page.Items)
	}

	if err := aliceClient.MarkConversationRead(t.Context(), aliceConv.ID); err != nil {
		t.Fatal(err)
	}

	conv, err := aliceClient.Conversation(t.Context(), aliceConv.ID)
	if err != nil {
		t.Fatal(err)
	}
	if conv.UnreadCount != 0 {
		t.Fatalf("want conversation unread count 0, got %d", conv.UnreadCount)
	}
}

func TestClient_Attachment(t *testing.T) {
	srv := newTestServer(t)
	aliceClient, alice := newTestClient(t, srv, types.RoleRegular, "Alice")
	_, bob := newTestClient(t, srv, types.RoleRegular, "Bob")

	s := chatsession.New(chatsession.Config{Backend: aliceClient, UserID: alice.ID})
	if err := s.Open(t.Context(), chatsession.Target{OtherUserID: bob.ID}); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(t.Context()); err != nil {
		t.Fatal(err)
	}

	data := []byte("signed lease")
	err := s.Send(t.Context(), chatsession.Draft{File: &chatsession.File{
		Name:     "lease.txt",
		MIMEType: "text/plain",
		Size:     int64(len(data)),
		Content:  bytes.NewReader(data),
	}})
	if err != nil {
		t.Fatal(err)
	}

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Attachment == nil {
		t.Fatalf("unexpected messages %+v", msgs)
	}

	ref := *msgs[0].Attachment
	if ref.FileName != "lease.txt" || ref.MIMEType != "text/plain" || ref.SizeBytes != int64(len(data)) {
		t.Fatalf("unexpected attachment %+v", ref)
	}

	rc, err := aliceClient.DownloadAttachment(t.Context(), ref)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(got, data) {
		t.Fatalf("want %q, got %q", data, got)
	}
}

func TestClient_Errors(t *testing.T) {
	srv := newTestServer(t)
	alice, aliceUser := newTestClient(t, srv, types.RoleRegular, "Alice")
	_, bob := newTestClient(t, srv, types.RoleRegular, "Bob")
	eve, _ := newTestClient(t, srv, types.RoleRegular, "Eve")

	anonymous, err := New(srv.URL, types.User{}, srv.Client())
	if err != nil {
		t.Fatal(err)
	}

	conv, err := alice.ResolveConversation(t.Context(), types.ResolveConversation{OtherUserID: bob.ID})
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name string
		call func(ctx context.Context) error
		want error
	}{
		{
			name: "self_conversation",
			call: func(ctx context.Context) error {
				_, err := alice.ResolveConversation(ctx, types.ResolveConversation{OtherUserID: aliceUser.ID})
				return err
			},
			want: types.ErrSelfConversation,
		},
		{
			name: "unauthenticated",
			call: func(ctx context.Context) error {
				_, err := anonymous.UnreadCount(ctx)
				return err
			},
			want: errs.Unauthenticated,
		},
		{
			name: "not_a_participant",
			call: func(ctx context.Context) error {
				_, err := eve.Messages(ctx, conv.ID, nil)
				return err
			},
			want: types.ErrNotAParticipant,
		},
		{
			name: "conversation_not_found",
			call: func(ctx context.Context) error {
				_, err := alice.Conversation(ctx, id.Generate())
				return err
			},
			want: types.ErrConversationNotFound,
		},
		{
			name: "support_target_not_found",
			call: func(ctx context.Context) error {
				_, err := alice.SupportConversation(ctx, "Help")
				return err
			},
			want: types.ErrSupportTargetNotFound,
		},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call(t.Context())
			if !errors.Is(err, tc.want) {
				t.Fatalf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClient_Unavailable(t *testing.T) {
	srv := newTestServer(t)
	c, _ := newTestClient(t, srv, types.RoleRegular, "Alice")

	srv.Close()

	_, err := c.UnreadCount(t.Context())
	if !errors.Is(err, types.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}

	if !types.IsRetryable(err) {
		t.Fatal("expected a retryable error")
	}

	_, err = c.UploadAttachment(t.Context(), chatsession.File{
		Name:     "lease.txt",
		MIMEType: "text/plain",
		Size:     5,
		Content:  strings.NewReader("lease"),
	})
	if !errors.Is(err, types.ErrAttachmentService) || errors.Is(err, types.ErrStoreUnavailable) {
		t.Fatalf("expected ErrAttachmentService, got %v", err)
	}

	_, err = c.DownloadAttachment(t.Context(), types.AttachmentRef{StoragePath: "u/x-lease.txt"})
	if !errors.Is(err, types.ErrAttachmentService) {
		t.Fatalf("expected ErrAttachmentService, got %v", err)
	}
}
