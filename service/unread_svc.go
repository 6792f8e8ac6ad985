package service

import (
	"context"

	"github.com/nakamauwu/casa/auth"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
)

// UnreadCount of the logged in user across all of their conversations.
func (svc *Service) UnreadCount(ctx context.Context) (int, error) {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return 0, errs.Unauthenticated
	}

	return svc.Store.UnreadCount(ctx, loggedInUser.ID)
}

// MarkRead clears the unread count of the logged in user.
func (svc *Service) MarkRead(ctx context.Context) error {
	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return errs.Unauthenticated
	}

	return svc.Store.MarkRead(ctx, loggedInUser.ID)
}

// MarkConversationRead clears the unread count of a single conversation.
func (svc *Service) MarkConversationRead(ctx context.Context, in types.RetrieveConversation) error {
	conv, err := svc.Conversation(ctx, in)
	if err != nil {
		return err
	}

	loggedInUser, _ := auth.UserFromContext(ctx)
	return svc.Store.MarkConversationRead(ctx, loggedInUser.ID, conv.ID)
}
