package http

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/matryer/way"
	"github.com/nakamauwu/casa/auth"
	"github.com/nakamauwu/casa/service"
	"github.com/nakamauwu/casa/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Identity headers set by the trusted gateway in front of this API.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

type Handler struct {
	Service *service.Service
	Logger  *slog.Logger
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	handler http.Handler
	once    sync.Once
}

func (h *Handler) init() {
	if h.Logger == nil {
		h.Logger = slog.New(slog.DiscardHandler)
	}

	r := way.NewRouter()

	r.HandleFunc("POST", "/api/conversations", h.resolveConversation)
	r.HandleFunc("GET", "/api/conversations", h.conversations)
	r.HandleFunc("GET", "/api/conversations/:conversation_id", h.conversation)
	r.HandleFunc("GET", "/api/conversations/:conversation_id/messages", h.messages)
	r.HandleFunc("POST", "/api/conversations/:conversation_id/messages", h.createMessage)
	r.HandleFunc("POST", "/api/conversations/:conversation_id/read", h.markConversationRead)
	r.HandleFunc("POST", "/api/support_conversation", h.supportConversation)
	r.HandleFunc("POST", "/api/attachments", h.uploadAttachment)
	r.HandleFunc("GET", "/api/attachments/download", h.downloadAttachment)
	r.HandleFunc("GET", "/api/unread_count", h.unreadCount)
	r.HandleFunc("POST", "/api/mark_read", h.markRead)

	if h.Gatherer != nil {
		r.Handle("GET", "/metrics", promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		h.respondErr(w, errNotFound)
	})

	h.handler = h.withUser(r)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.init)
	h.handler.ServeHTTP(w, r)
}

// withUser mirrors the gateway identity into the users table and
// puts it in the request context. Requests without it stay anonymous.
func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user := types.User{
			ID:       userID,
			Role:     types.Role(strings.TrimSpace(r.Header.Get(HeaderUserRole))),
			FullName: emptyStrPtr(strings.TrimSpace(r.Header.Get(HeaderUserName))),
			Email:    emptyStrPtr(strings.TrimSpace(r.Header.Get(HeaderUserEmail))),
		}
		if user.Role == "" {
			user.Role = types.RoleRegular
		}

		ctx := r.Context()
		if err := h.Service.SyncUser(ctx, user); err != nil {
			h.respondErr(w, err)
			return
		}

		ctx = auth.ContextWithUser(ctx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
