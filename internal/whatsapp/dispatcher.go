package whatsapp

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aaraconnect/whatsapp-platform/internal/observability/metrics"
	"github.com/aaraconnect/whatsapp-platform/pkg/logging"
)

var dispatchTracer = otel.Tracer("aaraconnect.internal.whatsapp.dispatcher")

// OutboundMessage is a single submission, built just before the send.
type OutboundMessage struct {
	To       string
	Body     string
	MediaURL string
}

// BulkFailure records one recipient that could not be served.
type BulkFailure struct {
	Phone string `json:"phone"`
	Error string `json:"error"`
}

// DispatchResult partitions a bulk recipient list: every input number ends
// up in exactly one of the two slices, in input order.
type DispatchResult struct {
	Succeeded []string      `json:"success"`
	Failed    []BulkFailure `json:"failed"`
}

// DelayFunc paces consecutive bulk sends. It should return early when ctx
// is done.
type DelayFunc func(ctx context.Context)

// SleepDelay waits the fixed duration or until ctx is cancelled.
func SleepDelay(d time.Duration) DelayFunc {
	return func(ctx context.Context) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}
}

// NoDelay skips pacing. Tests use it to stay off the wall clock.
func NoDelay(context.Context) {}

// Dispatcher orchestrates single and bulk template sends.
type Dispatcher struct {
	factory  *ClientFactory
	catalog  *Catalog
	renderer *Renderer
	delay    DelayFunc
	metrics  *metrics.MessagingMetrics
	logger   *logging.Logger
}

// NewDispatcher wires a dispatcher. delay defaults to a 1s pause, the
// provider-side rate-limit mitigation the platform has always used.
func NewDispatcher(factory *ClientFactory, catalog *Catalog, delay DelayFunc, m *metrics.MessagingMetrics, logger *logging.Logger) *Dispatcher {
	if factory == nil {
		panic("whatsapp: dispatcher requires a client factory")
	}
	if catalog == nil {
		panic("whatsapp: dispatcher requires a catalog")
	}
	if delay == nil {
		delay = SleepDelay(time.Second)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		factory:  factory,
		catalog:  catalog,
		renderer: NewRenderer(catalog),
		delay:    delay,
		metrics:  m,
		logger:   logger,
	}
}

// Send validates the recipient, builds a credential-scoped client and
// submits one message. It returns the provider-assigned message id.
func (d *Dispatcher) Send(ctx context.Context, msg OutboundMessage, creds Credentials) (string, error) {
	ctx, span := dispatchTracer.Start(ctx, "whatsapp.send", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	normalized, err := NormalizeNumber(msg.To)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if len(normalized) < 11 || len(normalized) > 15 {
		err := &InvalidPhoneError{Raw: msg.To}
		span.RecordError(err)
		return "", err
	}
	span.SetAttributes(attribute.String("aaraconnect.to", normalized))

	client, err := d.factory.Build(creds)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	sid, err := client.Send(ctx, ProviderMessage{
		From:     SchemePrefix + creds.PhoneNumber,
		To:       SchemePrefix + normalized,
		Body:     msg.Body,
		MediaURL: msg.MediaURL,
	})
	if err != nil {
		sendErr := &SendError{Recipient: msg.To, Err: err}
		d.logger.Error("whatsapp message send failed", "to", normalized, "error", err)
		d.metrics.ObserveOutbound("failed")
		span.RecordError(sendErr)
		return "", sendErr
	}

	d.logger.Info("whatsapp message sent", "to", normalized, "message_id", sid)
	d.metrics.ObserveOutbound("sent")
	return sid, nil
}

// SendTemplate renders a catalog template and sends it. Unresolved
// placeholders are logged and counted but do not block the send.
func (d *Dispatcher) SendTemplate(ctx context.Context, to, templateName string, variables []string, creds Credentials) (string, error) {
	body, leftover, err := d.renderer.Render(templateName, variables)
	if err != nil {
		return "", err
	}
	if len(leftover) > 0 {
		d.logger.Warn("template has unreplaced variables", "template", templateName, "placeholders", leftover)
		d.metrics.ObserveRenderLeftover()
	}
	return d.Send(ctx, OutboundMessage{To: to, Body: body}, creds)
}

// SendBulk sends the same template to every recipient, strictly in input
// order and one at a time. Per-recipient errors are recorded and never
// abort the batch; the result is a strict partition of the input list.
// A cancelled ctx stops dispatching and records the untried recipients as
// failed so the partition invariant still holds.
func (d *Dispatcher) SendBulk(ctx context.Context, recipients []string, templateName string, variables []string, creds Credentials) (DispatchResult, error) {
	if len(recipients) == 0 {
		return DispatchResult{}, ErrNoRecipients
	}

	ctx, span := dispatchTracer.Start(ctx, "whatsapp.send_bulk")
	defer span.End()
	span.SetAttributes(
		attribute.Int("aaraconnect.recipients", len(recipients)),
		attribute.String("aaraconnect.template", templateName),
	)

	result := DispatchResult{
		Succeeded: make([]string, 0, len(recipients)),
		Failed:    make([]BulkFailure, 0),
	}
	d.logger.Info("starting bulk send", "recipients", len(recipients), "template", templateName)

	for i, recipient := range recipients {
		if err := ctx.Err(); err != nil {
			for _, remaining := range recipients[i:] {
				result.Failed = append(result.Failed, BulkFailure{Phone: remaining, Error: err.Error()})
				d.metrics.ObserveBulkRecipient("cancelled")
			}
			break
		}

		if !ValidNumber(recipient) {
			invalidErr := &InvalidPhoneError{Raw: recipient}
			d.logger.Error("bulk send skipped invalid recipient",
				"position", i+1, "total", len(recipients), "phone", recipient)
			result.Failed = append(result.Failed, BulkFailure{Phone: recipient, Error: invalidErr.Error()})
			d.metrics.ObserveBulkRecipient("invalid")
			continue
		}

		if _, err := d.SendTemplate(ctx, recipient, templateName, variables, creds); err != nil {
			d.logger.Error("bulk send failed for recipient",
				"position", i+1, "total", len(recipients), "phone", recipient, "error", err)
			result.Failed = append(result.Failed, BulkFailure{Phone: recipient, Error: err.Error()})
			d.metrics.ObserveBulkRecipient("failed")
			continue
		}

		result.Succeeded = append(result.Succeeded, recipient)
		d.metrics.ObserveBulkRecipient("sent")
		d.logger.Info("bulk message sent", "position", i+1, "total", len(recipients), "phone", recipient)

		if i < len(recipients)-1 {
			d.delay(ctx)
		}
	}

	d.logger.Info("bulk send completed",
		"succeeded", len(result.Succeeded), "failed", len(result.Failed))
	return result, nil
}
