package http

import (
	"net/http"

	"github.com/matryer/way"
	"github.com/nakamauwu/casa/types"
)

type UnreadCount struct {
	UnreadCount int `json:"unreadCount"`
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.UnreadCount(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, UnreadCount{UnreadCount: n}, http.StatusOK)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.MarkRead(r.Context()); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markConversationRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := h.Service.MarkConversationRead(ctx, types.RetrieveConversation{
		ConversationID: way.Param(ctx, "conversation_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
