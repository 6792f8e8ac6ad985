package chatsession

import (
	"context"
	"io"

	"github.com/nakamauwu/casa/types"
)

//go:generate go tool moq -out mocks_test.go . Backend

// Backend is the chat API as seen by a session.
// Every call is a blocking round trip.
type Backend interface {
	ResolveConversation(ctx context.Context, in types.ResolveConversation) (types.Conversation, error)
	SupportConversation(ctx context.Context, subject string) (types.SupportConversation, error)
	Messages(ctx context.Context, conversationID string, after *string) (MessagesPage, error)
	CreateMessage(ctx context.Context, in types.CreateMessage) (Message, error)
	UploadAttachment(ctx context.Context, f File) (types.AttachmentRef, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context) error
}

// Message is a message ready to be rendered.
type Message struct {
	types.Message
	SenderName    string
	AttachmentURL string
	// Pending is set on the local copy shown while sending.
	Pending bool
}

type MessagesPage struct {
	Items      []Message
	NextCursor *string
}

// File is a local file attached to a draft.
type File struct {
	Name     string
	MIMEType string
	Size     int64
	// Profile names the upload constraints, see [types.UploadProfileByName].
	Profile string
	Content io.ReadSeeker
}

const defaultUploadProfile = "chat_file"

func (f File) constraints() (types.UploadConstraints, string, bool) {
	profile := f.Profile
	if profile == "" {
		profile = defaultUploadProfile
	}

	c, ok := types.UploadProfileByName(profile)
	return c, profile, ok
}

type Draft struct {
	Content string
	File    *File
}

// Target is who and what a conversation is about.
type Target struct {
	OtherUserID string
	Context     types.ConversationContext
	Subject     string
}

// Notice is a non blocking failure shown to the user.
type Notice struct {
	Err       error
	Retryable bool
}
