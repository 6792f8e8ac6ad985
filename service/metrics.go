package service

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are optional; a nil *Metrics records nothing.
type Metrics struct {
	ConversationsResolved   prometheus.Counter
	MessagesAppended        *prometheus.CounterVec
	AttachmentBytesUploaded prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ConversationsResolved: factory.NewCounter(prometheus.CounterOpts{
			Name: "casa_conversations_resolved_total",
			Help: "Conversations returned by the resolver, created or reused.",
		}),
		MessagesAppended: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "casa_messages_appended_total",
			Help: "Messages appended to conversations.",
		}, []string{"with_attachment"}),
		AttachmentBytesUploaded: factory.NewCounter(prometheus.CounterOpts{
			Name: "casa_attachment_bytes_uploaded_total",
			Help: "Bytes uploaded to the attachment storage.",
		}),
	}
}

func (m *Metrics) conversationResolved() {
	if m == nil {
		return
	}
	m.ConversationsResolved.Inc()
}

func (m *Metrics) messageAppended(withAttachment bool) {
	if m == nil {
		return
	}
	m.MessagesAppended.WithLabelValues(strconv.FormatBool(withAttachment)).Inc()
}

func (m *Metrics) attachmentUploaded(size int64) {
	if m == nil {
		return
	}
	m.AttachmentBytesUploaded.Add(float64(size))
}
