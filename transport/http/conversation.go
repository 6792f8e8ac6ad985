package http

import (
	"encoding/json"
	"net/http"

	"github.com/matryer/way"
	"github.com/nakamauwu/casa/types"
)

func (h *Handler) resolveConversation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in types.ResolveConversation
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.respondErr(w, errBadRequest)
		return
	}

	conv, err := h.Service.ResolveConversation(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, conv, http.StatusOK)
}

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	page, err := h.Service.Conversations(r.Context(), types.ListConversations{
		PageArgs: pageArgs,
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	if page.Items == nil {
		page.Items = []types.Conversation{} // non null array
	}

	h.respond(w, page, http.StatusOK)
}

func (h *Handler) conversation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conv, err := h.Service.Conversation(ctx, types.RetrieveConversation{
		ConversationID: way.Param(ctx, "conversation_id"),
	})
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, conv, http.StatusOK)
}

type supportConversationInput struct {
	Subject string `json:"subject"`
}

func (h *Handler) supportConversation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var in supportConversationInput
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			h.respondErr(w, errBadRequest)
			return
		}
	}

	out, err := h.Service.SupportConversation(r.Context(), in.Subject)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	statusCode := http.StatusOK
	if !out.Existing {
		statusCode = http.StatusCreated
	}

	h.respond(w, out, statusCode)
}
