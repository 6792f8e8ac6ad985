package sqlite

import (
	"context"
	"errors"

	"github.com/nakamauwu/casa/cursor"
	"github.com/nakamauwu/casa/id"
	"github.com/nakamauwu/casa/types"
	"gorm.io/gorm"
)

// CreateMessage appends a message to the conversation log.
// Sequence numbers are gapless and created_at never goes backwards
// within a conversation.
func (s *SQLite) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var row messageRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv conversationRow
		err := tx.Where("id = ?", in.ConversationID).Take(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.ErrConversationNotFound
		}

		if err != nil {
			return dbErr("sqlite select conversation for append", err)
		}

		sender := in.LoggedInUserID()
		if sender == "" || (sender != conv.ParticipantA && sender != conv.ParticipantB) {
			return types.ErrNotAParticipant
		}

		createdAt := s.nowNano()
		if conv.LastMessageAt != nil && *conv.LastMessageAt > createdAt {
			createdAt = *conv.LastMessageAt
		}

		row = messageRow{
			ID:             id.Generate(),
			ConversationID: conv.ID,
			SenderID:       sender,
			Content:        in.Content,
			Seq:            conv.LastSeq + 1,
			CreatedAt:      createdAt,
		}

		if a := in.Attachment; a != nil {
			row.AttachmentPath = new(a.StoragePath)
			row.AttachmentName = new(a.FileName)
			row.AttachmentMIME = new(a.MIMEType)
			row.AttachmentSize = new(a.SizeBytes)
			row.AttachmentWidth = new(int64(a.Width))
			row.AttachmentHeight = new(int64(a.Height))
		}

		if err := tx.Create(&row).Error; err != nil {
			return dbErr("sqlite insert message", err)
		}

		err = tx.Model(&conversationRow{}).Where("id = ?", conv.ID).Updates(map[string]any{
			"last_seq":        row.Seq,
			"last_message_at": row.CreatedAt,
		}).Error
		if err != nil {
			return dbErr("sqlite update conversation last message", err)
		}

		return nil
	})
	if err != nil {
		return types.Message{}, err
	}

	return row.message(), nil
}

// Messages of a conversation in ascending order.
// With in.After set, only the messages after that cursor are returned.
func (s *SQLite) Messages(ctx context.Context, in types.ListMessages) ([]types.Message, error) {
	q := s.db.WithContext(ctx).Where("conversation_id = ?", in.ConversationID)

	if in.After != nil {
		after, err := cursor.Decode[int64](*in.After)
		if err != nil {
			return nil, err
		}

		q = q.Where("seq > ?", after.Value)
	}

	var rows []messageRow
	if err := q.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, dbErr("sqlite select messages", err)
	}

	out := make([]types.Message, len(rows))
	for i, row := range rows {
		out[i] = row.message()
	}

	return out, nil
}

func (s *SQLite) AttachmentVisible(ctx context.Context, storagePath, viewerID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&messageRow{}).
		Joins("INNER JOIN conversations ON conversations.id = messages.conversation_id").
		Where("messages.attachment_path = ?", storagePath).
		Where("conversations.participant_a = ? OR conversations.participant_b = ?", viewerID, viewerID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, dbErr("sqlite select attachment visible", err)
	}

	return count > 0, nil
}
