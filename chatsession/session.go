// Package chatsession drives a single chat view over a [Backend].
package chatsession

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/nakamauwu/casa/service"
	"github.com/nakamauwu/casa/textutil"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
)

var errUnknownUploadProfile = errs.InvalidArgumentError("unknown upload profile")

type Config struct {
	Backend Backend
	// Cache defaults to a new [MemoryCache] with its default size and ttl.
	Cache  Cache
	Logger *slog.Logger
	// UserID of the signed in user. Empty while signed out.
	UserID string
	// UnreadCountTTL bounds how long a polled unread count is reused.
	// Defaults to [DefaultUnreadCountTTL].
	UnreadCountTTL time.Duration
	// Now defaults to [time.Now].
	Now func() time.Time
}

const DefaultUnreadCountTTL = 15 * time.Second

type unreadCountEntry struct {
	count     int
	fetchedAt time.Time
}

type Session struct {
	backend        Backend
	cache          Cache
	logger         *slog.Logger
	unreadCountTTL time.Duration
	now            func() time.Time

	mu              sync.Mutex
	state           State
	userID          string
	conversation    *types.Conversation
	supportAdmin    *types.User
	messages        []Message
	cursor          *string
	pending         []Message
	pendingSeq      int
	notices         []Notice
	lastFailedDraft *Draft
	observers       []func(State)
}

func New(cfg Config) *Session {
	if cfg.Cache == nil {
		cfg.Cache = NewMemoryCache(0, 0)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	if cfg.UnreadCountTTL <= 0 {
		cfg.UnreadCountTTL = DefaultUnreadCountTTL
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Session{
		backend:        cfg.Backend,
		cache:          cfg.Cache,
		logger:         cfg.Logger,
		unreadCountTTL: cfg.UnreadCountTTL,
		now:            cfg.Now,
		userID:         cfg.UserID,
	}
}

// OnChange registers fn to be called after every state change.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.observers = append(s.observers, fn)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// SignedIn sets the user once the identity collaborator signed them in.
func (s *Session) SignedIn(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
}

func (s *Session) transition(to State) error {
	s.mu.Lock()
	from := s.state
	if !from.CanTransitionTo(to) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	s.state = to
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	s.logger.Debug("chat session transition", "from", from, "to", to)

	for _, fn := range observers {
		fn(to)
	}

	return nil
}

// Open resolves the conversation with target. It can be called again
// after a failure.
func (s *Session) Open(ctx context.Context, target Target) error {
	if err := s.transition(ResolvingConversation); err != nil {
		return err
	}

	conv, err := s.backend.ResolveConversation(ctx, types.ResolveConversation{
		OtherUserID: target.OtherUserID,
		Context:     target.Context,
		Subject:     target.Subject,
	})
	if err != nil {
		s.notify(err)
		return errors.Join(err, s.transition(ConversationError))
	}

	s.mu.Lock()
	s.conversation = &conv
	s.mu.Unlock()

	return s.transition(ConversationReady)
}

// OpenSupport runs the contact support flow, reusing the existing
// support conversation if there is one. [types.ErrSupportTargetNotFound]
// leaves the session in its terminal [SupportTargetError] state.
func (s *Session) OpenSupport(ctx context.Context, subject string) error {
	s.mu.Lock()
	signedIn := s.userID != ""
	s.mu.Unlock()

	if !signedIn {
		if s.State() != SigningInRequired {
			if err := s.transition(SigningInRequired); err != nil {
				return err
			}
		}

		return errs.Unauthenticated
	}

	if err := s.transition(LookingUpSupportTarget); err != nil {
		return err
	}

	out, err := s.backend.SupportConversation(ctx, subject)
	if errors.Is(err, errs.Unauthenticated) {
		return errors.Join(err, s.transition(SigningInRequired))
	}

	if err != nil {
		s.notify(err)
		return errors.Join(err, s.transition(SupportTargetError))
	}

	s.mu.Lock()
	s.conversation = &out.Conversation
	s.supportAdmin = &out.Admin
	s.mu.Unlock()

	return s.transition(SupportTargetFound)
}

// Conversation is set once the session reached [ConversationReady]
// or [SupportTargetFound].
func (s *Session) Conversation() (types.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conversation == nil {
		return types.Conversation{}, false
	}

	return *s.conversation, true
}

// Load fetches the messages of the conversation. Cached messages are
// reused and only the newer ones are fetched.
func (s *Session) Load(ctx context.Context) error {
	if err := s.transition(LoadingMessages); err != nil {
		return err
	}

	conv, _ := s.Conversation()
	key := messagesKey(conv.ID)

	var cached MessagesPage
	if v, ok := s.cache.Read(key); ok {
		cached, _ = v.(MessagesPage)
	}

	page, err := s.backend.Messages(ctx, conv.ID, cached.NextCursor)
	if err != nil {
		s.notify(err)
		return errors.Join(err, s.transition(MessagesError))
	}

	s.mu.Lock()
	s.messages = mergeMessages(slices.Clone(cached.Items), page.Items)
	s.cursor = cmp.Or(page.NextCursor, cached.NextCursor)
	s.cache.Write(key, MessagesPage{Items: slices.Clone(s.messages), NextCursor: s.cursor})
	s.mu.Unlock()

	return s.transition(MessagesReady)
}

// Refresh fetches the messages newer than the last seen one.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state != MessagesReady {
		state := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: refresh while %s", ErrInvalidTransition, state)
	}
	conversationID := s.conversation.ID
	after := s.cursor
	s.mu.Unlock()

	page, err := s.backend.Messages(ctx, conversationID, after)
	if err != nil {
		s.notify(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = mergeMessages(s.messages, page.Items)
	if page.NextCursor != nil {
		s.cursor = page.NextCursor
	}
	s.cache.Write(messagesKey(conversationID), MessagesPage{Items: slices.Clone(s.messages), NextCursor: s.cursor})

	return nil
}

// Send shows d as pending right away and replaces it with the stored
// message on success. On failure the draft is kept, see
// [Session.LastFailedDraft], and the session stays usable.
func (s *Session) Send(ctx context.Context, d Draft) error {
	if state := s.State(); state != MessagesReady {
		return fmt.Errorf("%w: send while %s", ErrInvalidTransition, state)
	}

	if err := validateDraft(&d); err != nil {
		s.failDraft(d, err)
		return err
	}

	if err := s.transition(Sending); err != nil {
		return err
	}

	pending := s.addPending(d)

	in := types.CreateMessage{
		ConversationID: pending.ConversationID,
		Content:        d.Content,
	}

	if d.File != nil {
		ref, err := s.upload(ctx, *d.File)
		if err != nil {
			return s.sendFailed(pending.ID, d, err)
		}

		in.Attachment = &ref
	}

	msg, err := s.backend.CreateMessage(ctx, in)
	if err != nil {
		return s.sendFailed(pending.ID, d, err)
	}

	s.mu.Lock()
	s.removePending(pending.ID)
	s.messages = mergeMessages(s.messages, []Message{msg})
	s.lastFailedDraft = nil
	s.mu.Unlock()

	s.cache.Invalidate(messagesKey(in.ConversationID))

	return s.transition(MessagesReady)
}

func (s *Session) upload(ctx context.Context, f File) (types.AttachmentRef, error) {
	// A retried draft reuses the same reader.
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return types.AttachmentRef{}, fmt.Errorf("rewind attachment: %w", err)
	}

	return s.backend.UploadAttachment(ctx, f)
}

func (s *Session) sendFailed(pendingID string, d Draft, err error) error {
	s.mu.Lock()
	s.removePending(pendingID)
	s.mu.Unlock()

	s.failDraft(d, err)

	return errors.Join(err, s.transition(MessagesReady))
}

func (s *Session) failDraft(d Draft, err error) {
	s.mu.Lock()
	s.lastFailedDraft = &d
	s.mu.Unlock()

	s.notify(err)
}

func (s *Session) addPending(d Draft) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pendingSeq++
	m := Message{
		Message: types.Message{
			ID:             "pending-" + strconv.Itoa(s.pendingSeq),
			ConversationID: s.conversation.ID,
			SenderID:       s.userID,
			Content:        d.Content,
			CreatedAt:      time.Now(),
		},
		SenderName: service.ViewerLabel,
		Pending:    true,
	}

	if d.File != nil {
		m.Attachment = &types.AttachmentRef{
			FileName:  d.File.Name,
			MIMEType:  d.File.MIMEType,
			SizeBytes: d.File.Size,
		}
	}

	s.pending = append(s.pending, m)
	return m
}

func (s *Session) removePending(id string) {
	s.pending = slices.DeleteFunc(s.pending, func(m Message) bool {
		return m.ID == id
	})
}

// Messages returns the stored messages in order followed by the
// pending ones.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Concat(s.messages, s.pending)
}

func (s *Session) Pending() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.pending)
}

func (s *Session) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.notices)
}

func (s *Session) DismissNotices() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notices = nil
}

// LastFailedDraft is the draft of the last failed send, if any.
func (s *Session) LastFailedDraft() (Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastFailedDraft == nil {
		return Draft{}, false
	}

	return *s.lastFailedDraft, true
}

// UnreadCount is reused for the unread count ttl so a polling badge
// picks up new messages within that time.
func (s *Session) UnreadCount(ctx context.Context) (int, error) {
	if v, ok := s.cache.Read(unreadCountKey); ok {
		if entry, ok := v.(unreadCountEntry); ok && s.now().Sub(entry.fetchedAt) < s.unreadCountTTL {
			return entry.count, nil
		}
	}

	n, err := s.backend.UnreadCount(ctx)
	if err != nil {
		s.notify(err)
		return 0, err
	}

	s.writeUnreadCount(n)
	return n, nil
}

func (s *Session) writeUnreadCount(n int) {
	s.cache.Write(unreadCountKey, unreadCountEntry{count: n, fetchedAt: s.now()})
}

func (s *Session) RefreshUnreadCount(ctx context.Context) (int, error) {
	s.cache.Invalidate(unreadCountKey)
	return s.UnreadCount(ctx)
}

func (s *Session) MarkRead(ctx context.Context) error {
	if err := s.backend.MarkRead(ctx); err != nil {
		s.notify(err)
		return err
	}

	s.writeUnreadCount(0)
	return nil
}

func (s *Session) notify(err error) {
	if errors.Is(err, ErrInvalidTransition) {
		return
	}

	retryable := types.IsRetryable(err)
	if retryable {
		s.logger.Warn("chat backend unavailable", "err", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.notices = append(s.notices, Notice{Err: err, Retryable: retryable})
}

// validateDraft rejects what the server would reject before any
// round trip.
func validateDraft(d *Draft) error {
	d.Content = textutil.SmartTrim(d.Content)

	if d.Content == "" && d.File == nil {
		return types.ErrEmptyMessage
	}

	if d.File == nil {
		return nil
	}

	constraints, profile, ok := d.File.constraints()
	if !ok {
		return errUnknownUploadProfile
	}

	f := *d.File
	f.Profile = profile
	d.File = &f

	if d.File.Content == nil || d.File.Size <= 0 {
		return errs.InvalidArgumentError("attachment is empty")
	}

	if constraints.MaxBytes > 0 && d.File.Size > constraints.MaxBytes {
		return types.ErrFileTooLarge
	}

	if d.File.MIMEType == "" {
		return nil
	}

	return constraints.Check(d.File.Size, d.File.MIMEType)
}

// mergeMessages adds newer to msgs skipping the ones already present,
// ordered by sequence number.
func mergeMessages(msgs, newer []Message) []Message {
	for _, m := range newer {
		if !slices.ContainsFunc(msgs, func(existing Message) bool { return existing.ID == m.ID }) {
			msgs = append(msgs, m)
		}
	}

	slices.SortStableFunc(msgs, func(a, b Message) int {
		return cmp.Compare(a.Seq, b.Seq)
	})

	return msgs
}
