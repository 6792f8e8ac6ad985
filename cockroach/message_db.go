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

const sqlMessageCols = `
	  messages.id
	, messages.conversation_id
	, messages.sender_id
	, messages.content
	, messages.attachment_path
	, messages.attachment_name
	, messages.attachment_mime
	, messages.attachment_size
	, messages.attachment_width
	, messages.attachment_height
	, messages.seq
	, messages.created_at
`

type messageRow struct {
	ID               string    `db:"id"`
	ConversationID   string    `db:"conversation_id"`
	SenderID         string    `db:"sender_id"`
	Content          string    `db:"content"`
	AttachmentPath   *string   `db:"attachment_path"`
	AttachmentName   *string   `db:"attachment_name"`
	AttachmentMIME   *string   `db:"attachment_mime"`
	AttachmentSize   *int64    `db:"attachment_size"`
	AttachmentWidth  *int64    `db:"attachment_width"`
	AttachmentHeight *int64    `db:"attachment_height"`
	Seq              int64     `db:"seq"`
	CreatedAt        time.Time `db:"created_at"`
}

func (r messageRow) message() types.Message {
	m := types.Message{
		ID:             r.ID,
		ConversationID: r.ConversationID,
		SenderID:       r.SenderID,
		Content:        r.Content,
		Seq:            r.Seq,
		CreatedAt:      r.CreatedAt,
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

type appendTarget struct {
	ParticipantA  string     `db:"participant_a"`
	ParticipantB  string     `db:"participant_b"`
	LastSeq       int64      `db:"last_seq"`
	LastMessageAt *time.Time `db:"last_message_at"`
}

// CreateMessage appends a message to the conversation log.
// The conversation row is locked for the duration of the transaction so
// sequence numbers are gapless and created_at never goes backwards.
func (c *Cockroach) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message
	err := c.db.RunTx(ctx, func(ctx context.Context) error {
		target, err := c.lockConversation(ctx, in.ConversationID)
		if err != nil {
			return err
		}

		sender := in.LoggedInUserID()
		if sender == "" || (sender != target.ParticipantA && sender != target.ParticipantB) {
			return types.ErrNotAParticipant
		}

		msg, err := c.insertMessage(ctx, in, target)
		if err != nil {
			return err
		}

		if err := c.advanceConversation(ctx, msg); err != nil {
			return err
		}

		out = msg
		return nil
	})
	return out, err
}

func (c *Cockroach) lockConversation(ctx context.Context, conversationID string) (appendTarget, error) {
	const query = `
		SELECT participant_a, participant_b, last_seq, last_message_at
		FROM conversations
		WHERE id = @conversation_id
		FOR UPDATE
	`
	args := pgx.StrictNamedArgs{"conversation_id": conversationID}
	out, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByName[appendTarget])
	if db.IsNotFoundError(err) {
		return out, types.ErrConversationNotFound
	}

	if err != nil {
		return out, sqlErr("sql select conversation for update", err)
	}

	return out, nil
}

func (c *Cockroach) insertMessage(ctx context.Context, in types.CreateMessage, target appendTarget) (types.Message, error) {
	const query = `
		INSERT INTO messages (
			  id
			, conversation_id
			, sender_id
			, content
			, attachment_path
			, attachment_name
			, attachment_mime
			, attachment_size
			, attachment_width
			, attachment_height
			, seq
			, created_at
		)
		VALUES (
			  @message_id
			, @conversation_id
			, @sender_id
			, @content
			, @attachment_path
			, @attachment_name
			, @attachment_mime
			, @attachment_size
			, @attachment_width
			, @attachment_height
			, @seq
			, GREATEST(clock_timestamp(), COALESCE(@last_message_at::TIMESTAMPTZ, clock_timestamp()))
		)
		RETURNING ` + sqlMessageCols

	args := pgx.StrictNamedArgs{
		"message_id":        id.Generate(),
		"conversation_id":   in.ConversationID,
		"sender_id":         in.LoggedInUserID(),
		"content":           in.Content,
		"attachment_path":   nil,
		"attachment_name":   nil,
		"attachment_mime":   nil,
		"attachment_size":   nil,
		"attachment_width":  nil,
		"attachment_height": nil,
		"seq":               target.LastSeq + 1,
		"last_message_at":   target.LastMessageAt,
	}

	if a := in.Attachment; a != nil {
		args["attachment_path"] = a.StoragePath
		args["attachment_name"] = a.FileName
		args["attachment_mime"] = a.MIMEType
		args["attachment_size"] = a.SizeBytes
		args["attachment_width"] = int64(a.Width)
		args["attachment_height"] = int64(a.Height)
	}

	row, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowToStructByName[messageRow])
	if err != nil {
		return types.Message{}, sqlErr("sql insert message", err)
	}

	return row.message(), nil
}

func (c *Cockroach) advanceConversation(ctx context.Context, msg types.Message) error {
	const query = `
		UPDATE conversations
		SET last_seq = @seq,
			last_message_at = @created_at
		WHERE id = @conversation_id
	`
	_, err := c.db.Exec(ctx, query, pgx.StrictNamedArgs{
		"seq":             msg.Seq,
		"created_at":      msg.CreatedAt,
		"conversation_id": msg.ConversationID,
	})
	if err != nil {
		return sqlErr("sql update conversation last message", err)
	}

	return nil
}

// Messages of a conversation in ascending order.
// With in.After set, only the messages after that cursor are returned.
func (c *Cockroach) Messages(ctx context.Context, in types.ListMessages) ([]types.Message, error) {
	query := `SELECT ` + sqlMessageCols + `
		FROM messages
		WHERE messages.conversation_id = @conversation_id
	`
	args := pgx.StrictNamedArgs{
		"conversation_id": in.ConversationID,
	}

	if in.After != nil {
		after, err := cursor.Decode[int64](*in.After)
		if err != nil {
			return nil, err
		}

		query += ` AND messages.seq > @after_seq`
		args["after_seq"] = after.Value
	}

	query += ` ORDER BY messages.seq ASC`

	rows, err := pgxutil.Select(ctx, c.db, query, []any{args}, pgx.RowToStructByName[messageRow])
	if err != nil {
		return nil, sqlErr("sql select messages", err)
	}

	out := make([]types.Message, len(rows))
	for i, row := range rows {
		out[i] = row.message()
	}

	return out, nil
}

func (c *Cockroach) AttachmentVisible(ctx context.Context, storagePath, viewerID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM messages
			INNER JOIN conversations ON conversations.id = messages.conversation_id
			WHERE messages.attachment_path = @attachment_path
				AND (conversations.participant_a = @viewer_id OR conversations.participant_b = @viewer_id)
		)
	`
	args := pgx.StrictNamedArgs{
		"attachment_path": storagePath,
		"viewer_id":       viewerID,
	}
	visible, err := pgxutil.SelectRow(ctx, c.db, query, []any{args}, pgx.RowTo[bool])
	if err != nil {
		return false, sqlErr("sql select attachment visible", err)
	}

	return visible, nil
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}

	return *v
}
