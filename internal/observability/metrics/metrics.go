package metrics

import "github.com/prometheus/client_golang/prometheus"

// MessagingMetrics exposes counters for WhatsApp dispatch flows.
type MessagingMetrics struct {
	outboundTotal   *prometheus.CounterVec
	bulkRecipients  *prometheus.CounterVec
	inboundTotal    *prometheus.CounterVec
	renderLeftovers prometheus.Counter
}

func NewMessagingMetrics(reg prometheus.Registerer) *MessagingMetrics {
	m := &MessagingMetrics{
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aaraconnect",
			Subsystem: "whatsapp",
			Name:      "outbound_total",
			Help:      "Total outbound WhatsApp sends",
		}, []string{"status"}),
		bulkRecipients: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aaraconnect",
			Subsystem: "whatsapp",
			Name:      "bulk_recipients_total",
			Help:      "Per-recipient outcomes of bulk sends",
		}, []string{"result"}),
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aaraconnect",
			Subsystem: "whatsapp",
			Name:      "inbound_webhook_total",
			Help:      "Total inbound WhatsApp webhooks",
		}, []string{"status"}),
		renderLeftovers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aaraconnect",
			Subsystem: "whatsapp",
			Name:      "render_leftover_total",
			Help:      "Renders that left positional placeholders unresolved",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outboundTotal, m.bulkRecipients, m.inboundTotal, m.renderLeftovers)
	return m
}

func (m *MessagingMetrics) ObserveOutbound(status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(status).Inc()
}

func (m *MessagingMetrics) ObserveBulkRecipient(result string) {
	if m == nil {
		return
	}
	m.bulkRecipients.WithLabelValues(result).Inc()
}

func (m *MessagingMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *MessagingMetrics) ObserveRenderLeftover() {
	if m == nil {
		return
	}
	m.renderLeftovers.Inc()
}
