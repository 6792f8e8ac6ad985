package cockroach

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
)

// UnreadCount counts the messages sent by others, across every conversation
// of userID, created after the user's read marker.
func (c *Cockroach) UnreadCount(ctx context.Context, userID string) (int, error) {
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
			AND messages.created_at > GREATEST(
				COALESCE(read_markers.read_at, '1970-01-01T00:00:00Z'::TIMESTAMPTZ),
				COALESCE(conversation_read_markers.read_at, '1970-01-01T00:00:00Z'::TIMESTAMPTZ)
			)
	`
	args := pgx.StrictNamedArgs{"user_id": userID}
	count, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[int])
	if err != nil {
		return 0, sqlErr("sql select unread count", err)
	}

	return count, nil
}

// MarkRead advances the global read marker of userID to now.
// The marker never moves backwards so concurrent calls are harmless.
func (c *Cockroach) MarkRead(ctx context.Context, userID string) error {
	const query = `
		INSERT INTO read_markers (user_id, read_at)
		VALUES (@user_id, now())
		ON CONFLICT (user_id)
		DO UPDATE SET read_at = GREATEST(read_markers.read_at, excluded.read_at)
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{"user_id": userID})
	if err != nil {
		return sqlErr("sql upsert read marker", err)
	}

	return nil
}

// MarkConversationRead advances the read marker of a single conversation.
func (c *Cockroach) MarkConversationRead(ctx context.Context, userID, conversationID string) error {
	const query = `
		INSERT INTO conversation_read_markers (user_id, conversation_id, read_at)
		VALUES (@user_id, @conversation_id, now())
		ON CONFLICT (user_id, conversation_id)
		DO UPDATE SET read_at = GREATEST(conversation_read_markers.read_at, excluded.read_at)
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"user_id":         userID,
		"conversation_id": conversationID,
	})
	if err != nil {
		return sqlErr("sql upsert conversation read marker", err)
	}

	return nil
}
