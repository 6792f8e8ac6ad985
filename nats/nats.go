// Package nats publishes message events to a JetStream stream so other
// processes can react to new messages.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nakamauwu/casa/types"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName    = "CASA_MESSAGES"
	SubjectPrefix = "casa.conversations"
)

type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// Connect dials url and makes sure the messages stream exists.
func Connect(ctx context.Context, url string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("casa"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	p := &Publisher{nc: nc, js: js}
	if err := p.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, err
	}

	return p, nil
}

func (p *Publisher) ensureStream(ctx context.Context) error {
	_, err := p.js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("lookup stream %s: %w", StreamName, err)
	}

	_, err = p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "Chat message events",
		Subjects:    []string{SubjectPrefix + ".*.messages"},
		MaxAge:      24 * time.Hour,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", StreamName, err)
	}

	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

func (p *Publisher) PublishMessageCreated(ctx context.Context, ev types.MessageCreated) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("json marshal message created event: %w", err)
	}

	subject := Subject(ev.Message.ConversationID)
	_, err = p.js.Publish(ctx, subject, b, jetstream.WithMsgID(ev.Message.ID))
	if err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}

	return nil
}

// Subject where the events of a conversation are published.
func Subject(conversationID string) string {
	return SubjectPrefix + "." + conversationID + ".messages"
}
