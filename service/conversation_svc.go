package service

import (
	"context"
	"errors"

	"github.com/nakamauwu/casa/auth"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
)

// ResolveConversation returns the single conversation between the logged in
// user and in.OtherUserID for the given context, creating it if absent.
func (svc *Service) ResolveConversation(ctx context.Context, in types.ResolveConversation) (types.Conversation, error) {
	var out types.Conversation

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	if in.OtherUserID == loggedInUser.ID {
		return out, types.ErrSelfConversation
	}

	resolved, err := svc.Store.ResolveConversation(ctx, in.LoggedInUserID(), in.OtherUserID, in.Context, in.Subject)
	if err != nil {
		return out, err
	}

	svc.Metrics.conversationResolved()

	return svc.Store.Conversation(ctx, resolved.ID, loggedInUser.ID)
}

func (svc *Service) Conversation(ctx context.Context, in types.RetrieveConversation) (types.Conversation, error) {
	var out types.Conversation

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	out, err := svc.Store.Conversation(ctx, in.ConversationID, in.LoggedInUserID())
	if err != nil {
		return out, err
	}

	if !out.HasParticipant(loggedInUser.ID) {
		return types.Conversation{}, types.ErrNotAParticipant
	}

	return out, nil
}

func (svc *Service) Conversations(ctx context.Context, in types.ListConversations) (types.Page[types.Conversation], error) {
	var out types.Page[types.Conversation]

	if err := in.Validate(); err != nil {
		return out, err
	}

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	in.SetLoggedInUserID(loggedInUser.ID)

	return svc.Store.Conversations(ctx, in)
}

// SupportConversation is the contact support entry point.
// It reuses the latest admin_support conversation of the logged in user
// or starts one with an available administrator.
func (svc *Service) SupportConversation(ctx context.Context, subject string) (types.SupportConversation, error) {
	var out types.SupportConversation

	loggedInUser, loggedIn := auth.UserFromContext(ctx)
	if !loggedIn {
		return out, errs.Unauthenticated
	}

	existing, err := svc.Store.SupportConversation(ctx, loggedInUser.ID)
	if err == nil {
		admin, err := svc.participant(ctx, existing, loggedInUser.ID)
		if err != nil {
			return out, err
		}

		return types.SupportConversation{
			Conversation: existing,
			Admin:        admin,
			Existing:     true,
		}, nil
	}

	if !errors.Is(err, types.ErrConversationNotFound) {
		return out, err
	}

	admin, err := svc.Store.SupportAdmin(ctx, loggedInUser.ID)
	if err != nil {
		return out, err
	}

	conv, err := svc.ResolveConversation(ctx, types.ResolveConversation{
		OtherUserID: admin.ID,
		Context:     types.AdminSupportContext,
		Subject:     subject,
	})
	if err != nil {
		return out, err
	}

	return types.SupportConversation{
		Conversation: conv,
		Admin:        admin,
	}, nil
}

// participant returns the profile of the other participant of conv.
func (svc *Service) participant(ctx context.Context, conv types.Conversation, viewerID string) (types.User, error) {
	if conv.OtherParticipant != nil {
		return *conv.OtherParticipant, nil
	}

	return svc.Store.User(ctx, conv.OtherParticipantID(viewerID))
}
