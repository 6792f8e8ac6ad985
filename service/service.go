package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nakamauwu/casa/types"
)

//go:generate go tool moq -out mocks_test.go . BlobStorage Publisher

// Store persists users, conversations, messages and read markers.
// Implemented by the cockroach and sqlite packages.
type Store interface {
	UpsertUser(ctx context.Context, u types.User) error
	User(ctx context.Context, userID string) (types.User, error)
	SupportAdmin(ctx context.Context, excludeUserID string) (types.User, error)

	ResolveConversation(ctx context.Context, a, b string, conversationCtx types.ConversationContext, subject string) (types.Conversation, error)
	Conversation(ctx context.Context, conversationID, viewerID string) (types.Conversation, error)
	Conversations(ctx context.Context, in types.ListConversations) (types.Page[types.Conversation], error)
	SupportConversation(ctx context.Context, userID string) (types.Conversation, error)

	CreateMessage(ctx context.Context, in types.CreateMessage) (types.Message, error)
	Messages(ctx context.Context, in types.ListMessages) ([]types.Message, error)
	// AttachmentVisible reports whether a message of a conversation of
	// viewerID references storagePath.
	AttachmentVisible(ctx context.Context, storagePath, viewerID string) (bool, error)

	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID string) error
	MarkConversationRead(ctx context.Context, userID, conversationID string) error
}

// BlobStorage keeps attachment contents. Implemented by the minio package.
type BlobStorage interface {
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, path string) (types.BlobObject, error)
	PublicURL(path string) string
}

// Publisher pushes message events to listeners. Implemented by the nats package.
type Publisher interface {
	PublishMessageCreated(ctx context.Context, ev types.MessageCreated) error
}

type Config struct {
	Store     Store
	Blob      BlobStorage
	Publisher Publisher // optional
	Metrics   *Metrics  // optional
	Logger    *slog.Logger

	BaseCtx           context.Context
	BackgroundTimeout time.Duration
}

type Service struct {
	Store     Store
	Blob      BlobStorage
	Publisher Publisher
	Metrics   *Metrics
	Logger    *slog.Logger

	baseCtx           context.Context
	backgroundTimeout time.Duration
	wg                sync.WaitGroup
	errs              chan error
}

func New(cfg *Config) *Service {
	svc := &Service{
		Store:     cfg.Store,
		Blob:      cfg.Blob,
		Publisher: cfg.Publisher,
		Metrics:   cfg.Metrics,
		Logger:    cfg.Logger,

		baseCtx:           cfg.BaseCtx,
		backgroundTimeout: cfg.BackgroundTimeout,
		errs:              make(chan error, 1),
	}

	if svc.Logger == nil {
		svc.Logger = slog.New(slog.DiscardHandler)
	}
	if svc.baseCtx == nil {
		svc.baseCtx = context.Background()
	}
	if svc.backgroundTimeout == 0 {
		svc.backgroundTimeout = 15 * time.Second
	}

	return svc
}

func (svc *Service) Errs() <-chan error {
	return svc.errs
}

// Wait blocks until every background task is done.
func (svc *Service) Wait() {
	svc.wg.Wait()
}

func (svc *Service) Close() error {
	svc.wg.Wait()
	close(svc.errs)
	return nil
}

func (svc *Service) background(fn func(ctx context.Context) error) {
	svc.wg.Go(func() {
		defer func() {
			if rcv := recover(); rcv != nil {
				select {
				case svc.errs <- fmt.Errorf("service background panic: %v", rcv):
				default:
				}
			}
		}()

		ctx, cancel := context.WithTimeout(svc.baseCtx, svc.backgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			select {
			case svc.errs <- fmt.Errorf("service background error: %w", err):
			default:
				svc.Logger.Error("service background error", "err", err)
			}
		}
	})
}
