package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/nakamauwu/casa/cursor"
	"github.com/nakamauwu/casa/id"
	"github.com/nakamauwu/casa/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sqlConversationActivity = `COALESCE(conversations.last_message_at, conversations.created_at)`

// ResolveConversation returns the single conversation for the unordered
// pair and context, creating it if absent. The unique index decides the
// winner between concurrent callers and the existing subject is kept.
func (s *SQLite) ResolveConversation(ctx context.Context, a, b string, conversationCtx types.ConversationContext, subject string) (types.Conversation, error) {
	participantA, participantB, err := types.PairKey(a, b)
	if err != nil {
		return types.Conversation{}, err
	}

	var row conversationRow
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		insert := conversationRow{
			ID:           id.Generate(),
			ParticipantA: participantA,
			ParticipantB: participantB,
			Context:      conversationCtx.String(),
			Subject:      subject,
			CreatedAt:    s.nowNano(),
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "participant_a"},
				{Name: "participant_b"},
				{Name: "context"},
			},
			DoNothing: true,
		}).Create(&insert).Error
		if err != nil {
			return dbErr("sqlite insert conversation", err)
		}

		err = tx.Where("participant_a = ? AND participant_b = ? AND context = ?",
			participantA, participantB, insert.Context).Take(&row).Error
		if err != nil {
			return dbErr("sqlite select resolved conversation", err)
		}

		return nil
	})
	if err != nil {
		return types.Conversation{}, err
	}

	return row.conversation()
}

func (s *SQLite) Conversation(ctx context.Context, conversationID, viewerID string) (types.Conversation, error) {
	db := s.db.WithContext(ctx)

	var row conversationRow
	err := db.Where("id = ?", conversationID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.Conversation{}, types.ErrConversationNotFound
	}

	if err != nil {
		return types.Conversation{}, dbErr("sqlite select conversation", err)
	}

	out, err := s.forViewer(db, []conversationRow{row}, viewerID)
	if err != nil {
		return types.Conversation{}, err
	}

	return out[0], nil
}

// Conversations from the viewer, most recent activity first.
func (s *SQLite) Conversations(ctx context.Context, in types.ListConversations) (types.Page[types.Conversation], error) {
	var out types.Page[types.Conversation]

	pageArgs, err := cursor.ParsePageArgs[time.Time](in.PageArgs)
	if err != nil {
		return out, err
	}

	viewerID := in.LoggedInUserID()
	db := s.db.WithContext(ctx)
	q := db.Where("(participant_a = ? OR participant_b = ?)", viewerID, viewerID)

	if pageArgs.After != nil {
		q = q.Where("("+sqlConversationActivity+" < ? OR ("+sqlConversationActivity+" = ? AND conversations.id < ?))",
			pageArgs.After.Value.UnixNano(), pageArgs.After.Value.UnixNano(), pageArgs.After.ID)
	} else if pageArgs.Before != nil {
		q = q.Where("("+sqlConversationActivity+" > ? OR ("+sqlConversationActivity+" = ? AND conversations.id > ?))",
			pageArgs.Before.Value.UnixNano(), pageArgs.Before.Value.UnixNano(), pageArgs.Before.ID)
	}

	if pageArgs.IsBackwards() {
		q = q.Order(sqlConversationActivity + " ASC, conversations.id ASC")
	} else {
		q = q.Order(sqlConversationActivity + " DESC, conversations.id DESC")
	}

	var rows []conversationRow
	if err := q.Limit(int(pageArgs.Limit())).Find(&rows).Error; err != nil {
		return out, dbErr("sqlite select conversations", err)
	}

	out.Items, err = s.forViewer(db, rows, viewerID)
	if err != nil {
		return out, err
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
func (s *SQLite) SupportConversation(ctx context.Context, userID string) (types.Conversation, error) {
	db := s.db.WithContext(ctx)

	var rows []conversationRow
	err := db.Model(&conversationRow{}).
		Select("conversations.*").
		Joins(`INNER JOIN users ON users.id = CASE
			WHEN conversations.participant_a = ? THEN conversations.participant_b
			ELSE conversations.participant_a
		END`, userID).
		Where("(conversations.participant_a = ? OR conversations.participant_b = ?)", userID, userID).
		Where("conversations.context = ? AND users.role = ?", types.AdminSupportContext.String(), types.RoleAdmin.String()).
		Order(sqlConversationActivity + " DESC, conversations.id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return types.Conversation{}, dbErr("sqlite select support conversation", err)
	}

	if len(rows) == 0 {
		return types.Conversation{}, types.ErrConversationNotFound
	}

	out, err := s.forViewer(db, rows, userID)
	if err != nil {
		return types.Conversation{}, err
	}

	return out[0], nil
}

// forViewer converts rows and fills the other participant profile and
// the unread count as seen by viewerID.
func (s *SQLite) forViewer(db *gorm.DB, rows []conversationRow, viewerID string) ([]types.Conversation, error) {
	out := make([]types.Conversation, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	otherIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.ParticipantA == viewerID {
			otherIDs = append(otherIDs, row.ParticipantB)
		} else {
			otherIDs = append(otherIDs, row.ParticipantA)
		}
	}

	var users []userRow
	if err := db.Where("id IN ?", otherIDs).Find(&users).Error; err != nil {
		return nil, dbErr("sqlite select other participants", err)
	}

	byID := make(map[string]types.User, len(users))
	for _, u := range users {
		byID[u.ID] = u.user()
	}

	for _, row := range rows {
		conv, err := row.conversation()
		if err != nil {
			return nil, err
		}

		if u, ok := byID[conv.OtherParticipantID(viewerID)]; ok {
			conv.OtherParticipant = &u
		}

		conv.UnreadCount, err = s.conversationUnreadCount(db, conv.ID, viewerID)
		if err != nil {
			return nil, err
		}

		out = append(out, conv)
	}

	return out, nil
}
