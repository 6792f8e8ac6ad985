package types

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nakamauwu/casa/id"
	"github.com/nakamauwu/casa/textutil"
	"github.com/nakamauwu/casa/validator"
)

const subjectMaxLength = 200

type Conversation struct {
	ID            string              `json:"id" db:"id"`
	ParticipantA  string              `json:"participantA" db:"participant_a"`
	ParticipantB  string              `json:"participantB" db:"participant_b"`
	Context       ConversationContext `json:"context" db:"context"`
	Subject       string              `json:"subject" db:"subject"`
	LastSeq       int64               `json:"-" db:"last_seq"`
	CreatedAt     time.Time           `json:"createdAt" db:"created_at"`
	LastMessageAt *time.Time          `json:"lastMessageAt" db:"last_message_at"`

	// Filled only when loaded for a viewer.
	OtherParticipant *User `json:"otherParticipant,omitempty" db:"other_participant"`
	UnreadCount      int   `json:"unreadCount" db:"unread_count"`
}

func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.ParticipantA == userID || c.ParticipantB == userID)
}

// OtherParticipantID returns the participant that is not userID.
func (c Conversation) OtherParticipantID(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}

// ActivityAt is the sort key of a conversation list.
func (c Conversation) ActivityAt() time.Time {
	if c.LastMessageAt != nil {
		return *c.LastMessageAt
	}
	return c.CreatedAt
}

// PairKey canonicalizes an unordered pair of participants.
// The returned a is always lower than b.
func PairKey(a, b string) (string, string, error) {
	if a == b {
		return "", "", ErrSelfConversation
	}

	if a > b {
		a, b = b, a
	}

	return a, b, nil
}

type ResolveConversation struct {
	OtherUserID string              `json:"otherUserID"`
	Context     ConversationContext `json:"context"`
	Subject     string              `json:"subject"`

	loggedInUserID string
}

func (in *ResolveConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ResolveConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ResolveConversation) Validate() error {
	v := validator.New()

	in.OtherUserID = strings.TrimSpace(in.OtherUserID)
	in.Subject = textutil.SingleLine(in.Subject)

	if in.Context.IsZero() {
		in.Context = NoContext
	}

	if in.OtherUserID == "" {
		v.AddError("OtherUserID", "Other user ID is required")
	}
	if utf8.RuneCountInString(in.Subject) > subjectMaxLength {
		v.AddError("Subject", "Subject must be at most 200 characters")
	}
	if err := in.Context.Validate(); err != nil {
		v.AddError("Context", "Context must be none, admin_support, listing:<id> or request:<id>")
	}

	return v.AsError()
}

type RetrieveConversation struct {
	ConversationID string

	loggedInUserID string
}

func (in *RetrieveConversation) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in RetrieveConversation) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *RetrieveConversation) Validate() error {
	v := validator.New()

	if in.ConversationID == "" {
		v.AddError("ConversationID", "Conversation ID is required")
	} else if !id.Valid(in.ConversationID) {
		v.AddError("ConversationID", "Conversation ID is invalid")
	}

	return v.AsError()
}

type ListConversations struct {
	PageArgs PageArgs

	loggedInUserID string
}

func (in *ListConversations) SetLoggedInUserID(userID string) {
	in.loggedInUserID = userID
}

func (in ListConversations) LoggedInUserID() string {
	return in.loggedInUserID
}

func (in *ListConversations) Validate() error {
	return in.PageArgs.Validate()
}

// SupportConversation is the outcome of the contact support flow.
type SupportConversation struct {
	Conversation Conversation `json:"conversation"`
	Admin        User         `json:"admin"`
	// Existing tells whether a previous support conversation was reused.
	Existing bool `json:"existing"`
}
