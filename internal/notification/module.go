// Package notification turns order lifecycle events into push and email
// deliveries. It subscribes to the event bus so the orders module never
// touches delivery providers directly.
package notification

import (
	"context"
	"fmt"

	"freshr_backend/internal/events"
	"freshr_backend/platform/logger"
)

// Dispatcher hands rendered messages to a delivery path. The scheduler client
// enqueues them for the worker; DirectDispatcher sends inline when no Redis
// queue is configured.
type Dispatcher interface {
	DispatchPush(ctx context.Context, token, title, body string, data map[string]string) error
	DispatchEmail(ctx context.Context, to, subject, body string) error
}

// PushSender delivers one push notification inline.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// EmailSender delivers one email inline.
type EmailSender interface {
	Send(ctx context.Context, toEmail, subject, body string) error
}

// DirectDispatcher sends without a queue. Either sender may be nil when the
// corresponding provider is not configured.
type DirectDispatcher struct {
	push  PushSender
	email EmailSender
}

// NewDirectDispatcher wraps the inline senders.
func NewDirectDispatcher(push PushSender, email EmailSender) *DirectDispatcher {
	return &DirectDispatcher{push: push, email: email}
}

// DispatchPush sends the push notification immediately.
func (d *DirectDispatcher) DispatchPush(ctx context.Context, token, title, body string, data map[string]string) error {
	if d.push == nil {
		return fmt.Errorf("push sender not configured")
	}
	return d.push.Send(ctx, token, title, body, data)
}

// DispatchEmail sends the email immediately.
func (d *DirectDispatcher) DispatchEmail(ctx context.Context, to, subject, body string) error {
	if d.email == nil {
		return fmt.Errorf("email sender not configured")
	}
	return d.email.Send(ctx, to, subject, body)
}

// Module handles all notification-related event subscriptions.
type Module struct {
	dispatcher Dispatcher
	templates  *Templates
	log        *logger.Logger
}

// NewModule creates the notification module.
func NewModule(dispatcher Dispatcher, templates *Templates, log *logger.Logger) *Module {
	return &Module{
		dispatcher: dispatcher,
		templates:  templates,
		log:        log,
	}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.OrderQueued{}.EventName(), m)
	bus.Subscribe(events.OrderAccepted{}.EventName(), m)
	bus.Subscribe(events.OrderStarted{}.EventName(), m)
	bus.Subscribe(events.OrderCompleted{}.EventName(), m)
	bus.Subscribe(events.OrderCancelled{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.OrderQueued:
		return m.handleOrderQueued(ctx, e)
	case events.OrderAccepted:
		return m.handleOrderAccepted(ctx, e)
	case events.OrderStarted:
		return m.handleOrderStarted(ctx, e)
	case events.OrderCompleted:
		return m.handleOrderCompleted(ctx, e)
	case events.OrderCancelled:
		return m.handleOrderCancelled(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleOrderQueued(ctx context.Context, e events.OrderQueued) error {
	data := map[string]string{"orderId": e.OrderID.String()}

	m.pushTo(ctx, e.Specialist, "order_queued_specialist", struct {
		FacilityAddress string
	}{e.FacilityAddress}, data)

	// Position is zero at the front; people count from one.
	m.pushTo(ctx, e.Client, "order_queued_client", struct {
		Position int
	}{e.Position + 1}, data)

	return nil
}

func (m *Module) handleOrderAccepted(ctx context.Context, e events.OrderAccepted) error {
	m.pushTo(ctx, e.Client, "order_accepted_client", struct {
		FacilityAddress string
	}{e.FacilityAddress}, map[string]string{"orderId": e.OrderID.String()})
	return nil
}

func (m *Module) handleOrderStarted(ctx context.Context, e events.OrderStarted) error {
	m.pushTo(ctx, e.Client, "order_started_client", nil, map[string]string{"orderId": e.OrderID.String()})
	return nil
}

func (m *Module) handleOrderCompleted(ctx context.Context, e events.OrderCompleted) error {
	data := map[string]string{"orderId": e.OrderID.String()}
	price := formatPrice(e.PriceCents)

	m.pushTo(ctx, e.Client, "order_completed_client", nil, data)

	m.pushTo(ctx, e.Specialist, "order_completed_specialist", struct {
		Price string
	}{price}, data)

	if e.Client.Email != "" {
		subject, body, err := m.templates.RenderEmail("order_receipt", struct {
			Price string
		}{price})
		if err != nil {
			return err
		}
		if err := m.dispatcher.DispatchEmail(ctx, e.Client.Email, subject, body); err != nil {
			m.log.NotifyDropped("email", e.Client.Email, err)
		}
	}

	return nil
}

func (m *Module) handleOrderCancelled(ctx context.Context, e events.OrderCancelled) error {
	data := map[string]string{"orderId": e.OrderID.String()}
	m.pushTo(ctx, e.Client, "order_cancelled_client", nil, data)
	m.pushTo(ctx, e.Specialist, "order_cancelled_specialist", nil, data)
	return nil
}

// pushTo renders and dispatches one push notification. Missing tokens are
// skipped; dispatch failures are logged and never propagate to the bus.
func (m *Module) pushTo(ctx context.Context, contact events.Contact, templateName string, tmplData any, data map[string]string) {
	if contact.PushToken == "" {
		return
	}

	title, body, err := m.templates.RenderPush(templateName, tmplData)
	if err != nil {
		m.log.NotifyDropped("push", contact.UserID.String(), err)
		return
	}

	if err := m.dispatcher.DispatchPush(ctx, contact.PushToken, title, body, data); err != nil {
		m.log.NotifyDropped("push", contact.UserID.String(), err)
	}
}

func formatPrice(cents int64) string {
	return fmt.Sprintf("€%d.%02d", cents/100, cents%100)
}

// Compile-time check that Module can subscribe to the bus.
var _ events.Handler = (*Module)(nil)
