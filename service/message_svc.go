package service

import (
	"context"
	"fmt"

	"github.com/nakamauwu/casa/auth"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
)

func (svc *Service) CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error) {
	var out types.Message

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	out, err := svc.Store.CreateMessage(ctx, in)
	if err != nil {
		return out, err
	}

	svc.Metrics.messageAppended(out.Attachment != nil)

	if svc.Publisher != nil {
		svc.background(func(ctx context.Context) error {
			return svc.publishMessageCreated(ctx, out)
		})
	}

	return out, nil
}

func (svc *Service) publishMessageCreated(ctx context.Context, msg types.Message) error {
	conv, err := svc.Store.Conversation(ctx, msg.ConversationID, msg.SenderID)
	if err != nil {
		return fmt.Errorf("publish message created: %w", err)
	}

	err = svc.Publisher.PublishMessageCreated(ctx, types.MessageCreated{
		Message:     msg,
		RecipientID: conv.OtherParticipantID(msg.SenderID),
	})
	if err != nil {
		return fmt.Errorf("publish message created: %w", err)
	}

	return nil
}

// Messages of a conversation in ascending order. Only participants can
// read them.
func (svc *Service) Messages(ctx context.Context, in types.ListMessages) ([]types.Message, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return nil, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	conv, err := svc.Store.Conversation(ctx, in.ConversationID, loggedInUser.ID)
	if err != nil {
		return nil, err
	}

	if !conv.HasParticipant(loggedInUser.ID) {
		return nil, types.ErrNotAParticipant
	}

	return svc.Store.Messages(ctx, in)
}
