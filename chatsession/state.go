package chatsession

import (
	"errors"
	"slices"
)

var ErrInvalidTransition = errors.New("invalid chat session transition")

type State uint8

const (
	Idle State = iota
	ResolvingConversation
	ConversationReady
	ConversationError
	LoadingMessages
	MessagesReady
	MessagesError
	Sending

	// Contact support entry flow.
	SigningInRequired
	LookingUpSupportTarget
	SupportTargetFound
	SupportTargetError
)

var stateNames = [...]string{
	Idle:                   "idle",
	ResolvingConversation:  "resolving_conversation",
	ConversationReady:      "conversation_ready",
	ConversationError:      "conversation_error",
	LoadingMessages:        "loading_messages",
	MessagesReady:          "messages_ready",
	MessagesError:          "messages_error",
	Sending:                "sending",
	SigningInRequired:      "signing_in_required",
	LookingUpSupportTarget: "looking_up_support_target",
	SupportTargetFound:     "support_target_found",
	SupportTargetError:     "support_target_error",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// IsPending tells whether a blocking call is in flight.
func (s State) IsPending() bool {
	return s == ResolvingConversation || s == LoadingMessages || s == Sending || s == LookingUpSupportTarget
}

// SupportTargetError is terminal. The support flow is never retried
// automatically and a new session has to be opened.
var transitions = map[State][]State{
	Idle:                   {ResolvingConversation, SigningInRequired, LookingUpSupportTarget},
	ResolvingConversation:  {ConversationReady, ConversationError},
	ConversationError:      {ResolvingConversation},
	ConversationReady:      {LoadingMessages},
	LoadingMessages:        {MessagesReady, MessagesError},
	MessagesError:          {LoadingMessages},
	MessagesReady:          {Sending, LoadingMessages},
	Sending:                {MessagesReady},
	SigningInRequired:      {LookingUpSupportTarget},
	LookingUpSupportTarget: {SupportTargetFound, SupportTargetError, SigningInRequired},
	SupportTargetFound:     {LoadingMessages},
}

func (s State) CanTransitionTo(to State) bool {
	return slices.Contains(transitions[s], to)
}
