package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"freshr_backend/internal/events"
	"freshr_backend/platform/logger"
)

type recordedPush struct {
	token string
	title string
	body  string
	data  map[string]string
}

type recordedEmail struct {
	to      string
	subject string
	body    string
}

type fakeDispatcher struct {
	pushes []recordedPush
	emails []recordedEmail
}

func (d *fakeDispatcher) DispatchPush(_ context.Context, token, title, body string, data map[string]string) error {
	d.pushes = append(d.pushes, recordedPush{token: token, title: title, body: body, data: data})
	return nil
}

func (d *fakeDispatcher) DispatchEmail(_ context.Context, to, subject, body string) error {
	d.emails = append(d.emails, recordedEmail{to: to, subject: subject, body: body})
	return nil
}

func newTestModule(t *testing.T) (*Module, *fakeDispatcher) {
	t.Helper()

	raw := `
push:
  order_queued_specialist:
    title: "New order"
    body: "You have a new order at {{.FacilityAddress}}"
  order_queued_client:
    title: "Order confirmed"
    body: "You are number {{.Position}} in the queue"
  order_accepted_client:
    title: "Order accepted"
    body: "Meet your specialist at {{.FacilityAddress}}"
  order_started_client:
    title: "Order started"
    body: "Your order has started"
  order_completed_client:
    title: "Order completed"
    body: "Thanks for your visit"
  order_completed_specialist:
    title: "Order completed"
    body: "{{.Price}} earned"
  order_cancelled_client:
    title: "Order cancelled"
    body: "Your order was cancelled"
  order_cancelled_specialist:
    title: "Order cancelled"
    body: "An order left your queue"
email:
  order_receipt:
    subject: "Your receipt"
    body: "Total charged: {{.Price}}."
`
	tmpls, err := ParseTemplates([]byte(raw))
	if err != nil {
		t.Fatalf("ParseTemplates: %v", err)
	}

	dispatcher := &fakeDispatcher{}
	return NewModule(dispatcher, tmpls, logger.New("development")), dispatcher
}

func TestOrderQueuedNotifiesBothParties(t *testing.T) {
	m, dispatcher := newTestModule(t)

	orderID := uuid.New()
	event := events.OrderQueued{
		BaseEvent:       events.NewBaseEvent(),
		OrderID:         orderID,
		SpecialistID:    uuid.New(),
		FacilityAddress: "12 Canal Street",
		Position:        2,
		Client:          events.Contact{UserID: uuid.New(), PushToken: "ExponentPushToken[client]"},
		Specialist:      events.Contact{UserID: uuid.New(), PushToken: "ExponentPushToken[spec]"},
	}

	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(dispatcher.pushes) != 2 {
		t.Fatalf("pushes = %d, want 2", len(dispatcher.pushes))
	}
	if dispatcher.pushes[0].token != "ExponentPushToken[spec]" {
		t.Fatalf("first push token = %q, want specialist", dispatcher.pushes[0].token)
	}
	if dispatcher.pushes[0].body != "You have a new order at 12 Canal Street" {
		t.Fatalf("specialist body = %q", dispatcher.pushes[0].body)
	}
	if dispatcher.pushes[1].body != "You are number 3 in the queue" {
		t.Fatalf("client body = %q", dispatcher.pushes[1].body)
	}
	if dispatcher.pushes[0].data["orderId"] != orderID.String() {
		t.Fatalf("push data = %v", dispatcher.pushes[0].data)
	}
}

func TestOrderQueuedSkipsMissingTokens(t *testing.T) {
	m, dispatcher := newTestModule(t)

	event := events.OrderQueued{
		BaseEvent:    events.NewBaseEvent(),
		OrderID:      uuid.New(),
		SpecialistID: uuid.New(),
		Position:     1,
		Client:       events.Contact{UserID: uuid.New()},
		Specialist:   events.Contact{UserID: uuid.New(), PushToken: "ExponentPushToken[spec]"},
	}

	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(dispatcher.pushes) != 1 {
		t.Fatalf("pushes = %d, want 1", len(dispatcher.pushes))
	}
}

func TestOrderCompletedSendsReceiptEmail(t *testing.T) {
	m, dispatcher := newTestModule(t)

	event := events.OrderCompleted{
		BaseEvent:    events.NewBaseEvent(),
		OrderID:      uuid.New(),
		SpecialistID: uuid.New(),
		PriceCents:   2550,
		Client:       events.Contact{UserID: uuid.New(), PushToken: "ExponentPushToken[client]", Email: "client@example.com"},
		Specialist:   events.Contact{UserID: uuid.New(), PushToken: "ExponentPushToken[spec]"},
	}

	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(dispatcher.pushes) != 2 {
		t.Fatalf("pushes = %d, want 2", len(dispatcher.pushes))
	}
	if dispatcher.pushes[1].body != "€25.50 earned" {
		t.Fatalf("specialist body = %q", dispatcher.pushes[1].body)
	}

	if len(dispatcher.emails) != 1 {
		t.Fatalf("emails = %d, want 1", len(dispatcher.emails))
	}
	email := dispatcher.emails[0]
	if email.to != "client@example.com" {
		t.Fatalf("email to = %q", email.to)
	}
	if email.body != "Total charged: €25.50." {
		t.Fatalf("email body = %q", email.body)
	}
}

func TestOrderCompletedWithoutEmailSkipsReceipt(t *testing.T) {
	m, dispatcher := newTestModule(t)

	event := events.OrderCompleted{
		BaseEvent:    events.NewBaseEvent(),
		OrderID:      uuid.New(),
		SpecialistID: uuid.New(),
		PriceCents:   2550,
		Client:       events.Contact{UserID: uuid.New(), PushToken: "ExponentPushToken[client]"},
		Specialist:   events.Contact{UserID: uuid.New()},
	}

	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(dispatcher.emails) != 0 {
		t.Fatalf("emails = %d, want 0", len(dispatcher.emails))
	}
}

func TestUnhandledEventIgnored(t *testing.T) {
	m, dispatcher := newTestModule(t)

	event := events.ChatSessionClosed{
		BaseEvent: events.NewBaseEvent(),
		SessionID: uuid.New(),
		OrderID:   uuid.New(),
	}

	if err := m.Handle(context.Background(), event); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(dispatcher.pushes) != 0 || len(dispatcher.emails) != 0 {
		t.Fatal("unexpected deliveries for unhandled event")
	}
}
