package sqlite

import (
	"time"

	"github.com/nakamauwu/casa/types"
)

// Timestamps are unix nanoseconds so that ordering comparisons happen
// on integers.

type userRow struct {
	ID        string  `gorm:"primaryKey"`
	Role      string  `gorm:"not null;default:regular;index"`
	FullName  *string `gorm:"column:full_name"`
	Email     *string
	CreatedAt int64 `gorm:"not null;autoCreateTime:nano"`
	UpdatedAt int64 `gorm:"not null;autoUpdateTime:nano"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) user() types.User {
	return types.User{
		ID:       r.ID,
		Role:     types.Role(r.Role),
		FullName: r.FullName,
		Email:    r.Email,
	}
}

type conversationRow struct {
	ID            string `gorm:"primaryKey"`
	ParticipantA  string `gorm:"not null;uniqueIndex:conversations_pair_context_key,priority:1"`
	ParticipantB  string `gorm:"not null;uniqueIndex:conversations_pair_context_key,priority:2;index"`
	Context       string `gorm:"not null;uniqueIndex:conversations_pair_context_key,priority:3"`
	Subject       string `gorm:"not null"`
	LastSeq       int64  `gorm:"not null;default:0"`
	CreatedAt     int64  `gorm:"not null"`
	LastMessageAt *int64
}

func (conversationRow) TableName() string { return "conversations" }

func (r conversationRow) conversation() (types.Conversation, error) {
	conversationCtx, err := types.ParseConversationContext(r.Context)
	if err != nil {
		return types.Conversation{}, err
	}

	c := types.Conversation{
		ID:           r.ID,
		ParticipantA: r.ParticipantA,
		ParticipantB: r.ParticipantB,
		Context:      conversationCtx,
		Subject:      r.Subject,
		LastSeq:      r.LastSeq,
		CreatedAt:    fromNano(r.CreatedAt),
	}

	if r.LastMessageAt != nil {
		c.LastMessageAt = new(fromNano(*r.LastMessageAt))
	}

	return c, nil
}

type messageRow struct {
	ID               string `gorm:"primaryKey"`
	ConversationID   string `gorm:"not null;uniqueIndex:messages_conversation_seq_key,priority:1;index:messages_conversation_created_at_idx,priority:1"`
	SenderID         string `gorm:"not null"`
	Content          string `gorm:"not null"`
	AttachmentPath   *string `gorm:"index:messages_attachment_path_idx"`
	AttachmentName   *string
	AttachmentMIME   *string `gorm:"column:attachment_mime"`
	AttachmentSize   *int64
	AttachmentWidth  *int64
	AttachmentHeight *int64
	Seq              int64 `gorm:"not null;uniqueIndex:messages_conversation_seq_key,priority:2"`
	CreatedAt        int64 `gorm:"not null;index:messages_conversation_created_at_idx,priority:2"`
}

func (messageRow) TableName() string { return "messages" }

func (r messageRow) message() types.Message {
	m := types.Message{
		ID:             r.ID,
		ConversationID: r.ConversationID,
		SenderID:       r.SenderID,
		Content:        r.Content,
		Seq:            r.Seq,
		CreatedAt:      fromNano(r.CreatedAt),
	}

	if r.AttachmentPath != nil {
		m.Attachment = &types.AttachmentRef{
			StoragePath: *r.AttachmentPath,
			FileName:    deref(r.AttachmentName),
			MIMEType:    deref(r.AttachmentMIME),
			SizeBytes:   deref(r.AttachmentSize),
			Width:       uint32(deref(r.AttachmentWidth)),
			Height:      uint32(deref(r.AttachmentHeight)),
		}
	}

	return m
}

type readMarkerRow struct {
	UserID string `gorm:"primaryKey"`
	ReadAt int64  `gorm:"not null"`
}

func (readMarkerRow) TableName() string { return "read_markers" }

type conversationReadMarkerRow struct {
	UserID         string `gorm:"primaryKey"`
	ConversationID string `gorm:"primaryKey"`
	ReadAt         int64  `gorm:"not null"`
}

func (conversationReadMarkerRow) TableName() string { return "conversation_read_markers" }

func fromNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}

	return *v
}
