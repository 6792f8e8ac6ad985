package types

import (
	"time"
	"unicode/utf8"

	"github.com/nakamauwu/casa/id"
	"github.com/nakamauwu/casa/textutil"
	"github.com/nakamauwu/casa/validator"
)

const messageContentMaxLength = 2000

// Message is immutable once created. Seq is assigned by the store
// and imposes the total order within a conversation.
type Message struct {
	ID             string         `json:"id" db:"id"`
	ConversationID string         `json:"conversationID" db:"conversation_id"`
	SenderID       string         `json:"senderID" db:"sender_id"`
	Content        string         `json:"content" db:"content"`
	Attachment     *AttachmentRef `json:"attachment,omitempty" db:"-"`
	Seq            int64          `json:"seq" db:"seq"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
}

func (m Message) IsMine(userID string) bool {
	return m.SenderID == userID
}

type CreateMessage struct {
	ConversationID string         `json:"conversationID"`
	Content        string         `json:"content"`
	Attachment     *AttachmentRef `json:"attachment"`

	loggedInUserID string
}

func (in *CreateMessage) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in CreateMessage) LoggedInUserID() string {
	return in.loggedInUserID
}

// Validate returns [ErrEmptyMessage] when there is nothing to send.
func (in *CreateMessage) Validate() error {
	in.Content = textutil.SmartTrim(in.Content)

	if in.Content == "" && in.Attachment == nil {
		return ErrEmptyMessage
	}

	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	} else if !id.Valid(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}
	if utf8.RuneCountInString(in.Content) > messageContentMaxLength {
		v.AddError("Content", "Content must be at most 2000 characters")
	}
	if in.Attachment != nil {
		in.Attachment.validate(v)
	}

	return v.AsError()
}

type ListMessages struct {
	ConversationID string `json:"conversationID"`
	// After is an opaque cursor from [MessagesCursor]; only messages
	// strictly after it are returned.
	After *string `json:"after,omitempty"`

	loggedInUserID string
}

func (in *ListMessages) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListMessages) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ListMessages) Validate() error {
	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	} else if !id.Valid(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}
	if in.After != nil && *in.After == "" {
		v.AddError("After", "After cursor cannot be empty")
	}

	return v.AsError()
}
