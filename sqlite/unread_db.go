package sqlite

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UnreadCount counts the messages sent by others, across every conversation
// of userID, created after the user's read marker.
func (s *SQLite) UnreadCount(ctx context.Context, userID string) (int, error) {
	const query = `
		SELECT count(*)
		FROM messages
		INNER JOIN conversations ON conversations.id = messages.conversation_id
		LEFT JOIN read_markers ON read_markers.user_id = @user_id
		LEFT JOIN conversation_read_markers
			ON conversation_read_markers.user_id = @user_id
			AND conversation_read_markers.conversation_id = conversations.id
		WHERE (conversations.participant_a = @user_id OR conversations.participant_b = @user_id)
			AND messages.sender_id != @user_id
			AND messages.created_at > MAX(
				COALESCE(read_markers.read_at, 0),
				COALESCE(conversation_read_markers.read_at, 0)
			)
	`
	var count int64
	err := s.db.WithContext(ctx).Raw(query, map[string]any{"user_id": userID}).Scan(&count).Error
	if err != nil {
		return 0, dbErr("sqlite select unread count", err)
	}

	return int(count), nil
}

func (s *SQLite) conversationUnreadCount(db *gorm.DB, conversationID, userID string) (int, error) {
	const query = `
		SELECT count(*)
		FROM messages
		WHERE messages.conversation_id = @conversation_id
			AND messages.sender_id != @user_id
			AND messages.created_at > MAX(
				COALESCE((SELECT read_at FROM read_markers WHERE user_id = @user_id), 0),
				COALESCE((
					SELECT read_at FROM conversation_read_markers
					WHERE user_id = @user_id AND conversation_id = @conversation_id
				), 0)
			)
	`
	var count int64
	err := db.Raw(query, map[string]any{
		"conversation_id": conversationID,
		"user_id":         userID,
	}).Scan(&count).Error
	if err != nil {
		return 0, dbErr("sqlite select conversation unread count", err)
	}

	return int(count), nil
}

// MarkRead advances the global read marker of userID to now.
// The marker never moves backwards.
func (s *SQLite) MarkRead(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Set{{
			Column: clause.Column{Name: "read_at"},
			Value:  gorm.Expr("MAX(read_markers.read_at, excluded.read_at)"),
		}},
	}).Create(&readMarkerRow{
		UserID: userID,
		ReadAt: s.nowNano(),
	}).Error
	if err != nil {
		return dbErr("sqlite upsert read marker", err)
	}

	return nil
}

// MarkConversationRead advances the read marker of a single conversation.
func (s *SQLite) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "conversation_id"}},
		DoUpdates: clause.Set{{
			Column: clause.Column{Name: "read_at"},
			Value:  gorm.Expr("MAX(conversation_read_markers.read_at, excluded.read_at)"),
		}},
	}).Create(&conversationReadMarkerRow{
		UserID:         userID,
		ConversationID: conversationID,
		ReadAt:         s.nowNano(),
	}).Error
	if err != nil {
		return dbErr("sqlite upsert conversation read marker", err)
	}

	return nil
}
