package http

import (
	"encoding/json"
	"net/http"

	"github.com/matryer/way"
	"github.com/nakamauwu/casa/auth"
	"github.com/nakamauwu/casa/cursor"
	"github.com/nakamauwu/casa/service"
	"github.com/nakamauwu/casa/types"
	"github.com/nicolasparada/go-errs"
	"golang.org/x/sync/errgroup"
)

// Message is a stored message as shown to the viewer.
type Message struct {
	types.Message
	SenderName    string `json:"senderName"`
	AttachmentURL string `json:"attachmentURL,omitempty"`
}

type MessagesPage struct {
	Items []Message `json:"items"`
	// NextCursor is passed back as "after" to fetch only newer messages.
	NextCursor *string `json:"nextCursor"`
}

func (h *Handler) messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loggedInUser, ok := auth.UserFromContext(ctx)
	if !ok {
		h.respondErr(w, errs.Unauthenticated)
		return
	}

	conversationID := way.Param(ctx, "conversation_id")
	q := r.URL.Query()

	in := types.ListMessages{ConversationID: conversationID}
	if q.Has("after") {
		in.After = new(q.Get("after"))
	}

	var (
		conv types.Conversation
		msgs []types.Message
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		conv, err = h.Service.Conversation(gctx, types.RetrieveConversation{
			ConversationID: conversationID,
		})
		return err
	})

	g.Go(func() error {
		var err error
		msgs, err = h.Service.Messages(gctx, in)
		return err
	})

	if err := g.Wait(); err != nil {
		h.respondErr(w, err)
		return
	}

	out := MessagesPage{
		Items:      make([]Message, len(msgs)),
		NextCursor: in.After,
	}

	for i, m := range msgs {
		out.Items[i] = h.message(m, conv, loggedInUser.ID)
	}

	if n := len(msgs); n != 0 {
		next, err := cursor.Message(msgs[n-1])
		if err != nil {
			h.respondErr(w, err)
			return
		}

		out.NextCursor = &next
	}

	h.respond(w, out, http.StatusOK)
}

func (h *Handler) createMessage(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in types.CreateMessage
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	ctx := r.Context()
	in.ConversationID = way.Param(ctx, "conversation_id")

	msg, err := h.Service.CreateMessage(ctx, in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	loggedInUser, _ := auth.UserFromContext(ctx)
	h.respond(w, Message{
		Message:       msg,
		SenderName:    service.SenderLabel(loggedInUser, loggedInUser.ID),
		AttachmentURL: h.attachmentURL(msg.Attachment),
	}, http.StatusCreated)
}

func (h *Handler) message(m types.Message, conv types.Conversation, viewerID string) Message {
	sender := types.User{ID: m.SenderID}
	if m.SenderID != viewerID && conv.OtherParticipant != nil {
		sender = *conv.OtherParticipant
	}

	return Message{
		Message:       m,
		SenderName:    service.SenderLabel(sender, viewerID),
		AttachmentURL: h.attachmentURL(m.Attachment),
	}
}

func (h *Handler) attachmentURL(ref *types.AttachmentRef) string {
	if ref == nil {
		return ""
	}

	return h.Service.AttachmentURL(*ref)
}
