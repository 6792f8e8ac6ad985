package cockroach

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgxutil"
	"github.com/nakamauwu/casa/cursor"
	"github.com/nakamauwu/casa/id"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-db"
)

const (
	sqlConversationCols = `
		  conversations.id
		, conversations.participant_a
		, conversations.participant_b
		, conversations.context
		, conversations.subject
		, conversations.last_seq
		, conversations.created_at
		, conversations.last_message_at
	`
	sqlConversationViewerCols = `
		, (
			SELECT json_build_object(
				'id', users.id,
				'role', users.role,
				'fullName', users.full_name,
				'email', users.email
			)
			FROM users
			WHERE users.id = CASE
				WHEN conversations.participant_a = @viewer_id THEN conversations.participant_b
				ELSE conversations.participant_a
			END
		) AS other_participant
		, (
			SELECT count(*)
			FROM messages
			WHERE messages.conversation_id = conversations.id
				AND messages.sender_id != @viewer_id
				AND messages.created_at > GREATEST(
					COALESCE((SELECT read_at FROM read_markers WHERE read_markers.user_id = @viewer_id), '1970-01-01T00:00:00Z'::TIMESTAMPTZ),
					COALESCE((
						SELECT read_at FROM conversation_read_markers
						WHERE conversation_read_markers.user_id = @viewer_id
							AND conversation_read_markers.conversation_id = conversations.id
					), '1970-01-01T00:00:00Z'::TIMESTAMPTZ)
				)
		) AS unread_count
	`
	sqlConversationActivity = `COALESCE(conversations.last_message_at, conversations.created_at)`
)

// ResolveConversation returns the single conversation for the unordered
// pair and context, creating it if absent. The upsert is one statement so
// concurrent callers always converge on the same row. An existing
// conversation keeps its subject.
func (c *Cockroach) ResolveConversation(ctx context.Context, a, b string, conversationCtx types.ConversationContext, subject string) (types.Conversation, error) {
	var out types.Conversation

	participantA, participantB, err := types.PairKey(a, b)
	if err != nil {
		return out, err
	}

	const query = `
		INSERT INTO conversations (id, participant_a, participant_b, context, subject)
		VALUES (@conversation_id, @participant_a, @participant_b, @context, @subject)
		ON CONFLICT (participant_a, participant_b, context)
		DO UPDATE SET subject = conversations.subject
		RETURNING id
			, participant_a
			, participant_b
			, context
			, subject
			, last_seq
			, created_at
			, last_message_at
	`
	args := pgx.StrictNamedArgs{
		"conversation_id": id.Generate(),
		"participant_a":   participantA,
		"participant_b":   participantB,
		"context":         conversationCtx.String(),
		"subject":         subject,
	}
	out, err = pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Conversation])
	if err != nil {
		return out, sqlErr("sql upsert conversation", err)
	}

	return out, nil
}

func (c *Cockroach) Conversation(ctx context.Context, conversationID, viewerID string) (types.Conversation, error) {
	query := `SELECT ` + sqlConversationCols + sqlConversationViewerCols + `
		FROM conversations
		WHERE conversations.id = @conversation_id
	`
	args := pgx.StrictNamedArgs{
		"conversation_id": conversationID,
		"viewer_id":       viewerID,
	}
	out, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Conversation])
	if db.IsNotFoundError(err) {
		return out, types.ErrConversationNotFound
	}

	if err != nil {
		return out, sqlErr("sql select conversation", err)
	}

	return out, nil
}

// Conversations from the viewer, most recent activity first.
func (c *Cockroach) Conversations(ctx context.Context, in types.ListConversations) (types.Page[types.Conversation], error) {
	var out types.Page[types.Conversation]

	pageArgs, err := cursor.ParsePageArgs[time.Time](in.PageArgs)
	if err != nil {
		return out, err
	}

	query := `SELECT ` + sqlConversationCols + sqlConversationViewerCols + `
		FROM conversations
		WHERE (conversations.participant_a = @viewer_id OR conversations.participant_b = @viewer_id)
	`
	args := pgx.StrictNamedArgs{
		"viewer_id": in.LoggedInUserID(),
		"limit":     pageArgs.Limit(),
	}

	if pageArgs.After != nil {
		query += ` AND (` + sqlConversationActivity + `, conversations.id) < (@cursor_value, @cursor_id)`
		args["cursor_value"] = pageArgs.After.Value
		args["cursor_id"] = pageArgs.After.ID
	} else if pageArgs.Before != nil {
		query += ` AND (` + sqlConversationActivity + `, conversations.id) > (@cursor_value, @cursor_id)`
		args["cursor_value"] = pageArgs.Before.Value
		args["cursor_id"] = pageArgs.Before.ID
	}

	if pageArgs.IsBackwards() {
		query += ` ORDER BY ` + sqlConversationActivity + ` ASC, conversations.id ASC`
	} else {
		query += ` ORDER BY ` + sqlConversationActivity + ` DESC, conversations.id DESC`
	}

	query += ` LIMIT @limit`

	out.Items, err = pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Conversation])
	if err != nil {
		return out, sqlErr("sql select conversations", err)
	}

	err = cursor.ApplyPageInfo(&out, pageArgs, func(conv types.Conversation) cursor.Cursor[time.Time] {
		return cursor.Cursor[time.Time]{ID: conv.ID, Value: conv.ActivityAt()}
	})
	if err != nil {
		return out, err
	}

	return out, nil
}

// SupportConversation finds the most recent admin_support conversation
// between userID and an administrator.
func (c *Cockroach) SupportConversation(ctx context.Context, userID string) (types.Conversation, error) {
	query := `SELECT ` + sqlConversationCols + sqlConversationViewerCols + `
		FROM conversations
		INNER JOIN users AS other_user ON other_user.id = CASE
			WHEN conversations.participant_a = @viewer_id THEN conversations.participant_b
			ELSE conversations.participant_a
		END
		WHERE (conversations.participant_a = @viewer_id OR conversations.participant_b = @viewer_id)
			AND conversations.context = @context
			AND other_user.role = @admin_role
		ORDER BY ` + sqlConversationActivity + ` DESC, conversations.id DESC
		LIMIT 1
	`
	args := pgx.StrictNamedArgs{
		"viewer_id":  userID,
		"context":    types.AdminSupportContext.String(),
		"admin_role": types.RoleAdmin.String(),
	}
	out, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByNameLax[types.Conversation])
	if db.IsNotFoundError(err) {
		return out, types.ErrConversationNotFound
	}

	if err != nil {
		return out, sqlErr("sql select support conversation", err)
	}

	return out, nil
}
