package notification

import (
	"os"
	"strings"
	"testing"
)

const testYAML = `
push:
  order_queued_specialist:
    title: "New order"
    body: "You have a new order at {{.FacilityAddress}}"
  order_queued_client:
    title: "Order confirmed"
    body: "You are number {{.Position}} in the queue"
email:
  order_receipt:
    subject: "Your receipt"
    body: "Total charged: {{.Price}}."
`

func TestRenderPush(t *testing.T) {
	tmpls, err := ParseTemplates([]byte(testYAML))
	if err != nil {
		t.Fatalf("ParseTemplates: %v", err)
	}

	title, body, err := tmpls.RenderPush("order_queued_specialist", struct {
		FacilityAddress string
	}{"12 Canal Street"})
	if err != nil {
		t.Fatalf("RenderPush: %v", err)
	}
	if title != "New order" {
		t.Fatalf("title = %q", title)
	}
	if body != "You have a new order at 12 Canal Street" {
		t.Fatalf("body = %q", body)
	}
}

func TestRenderPushUnknownTemplate(t *testing.T) {
	tmpls, err := ParseTemplates([]byte(testYAML))
	if err != nil {
		t.Fatalf("ParseTemplates: %v", err)
	}

	if _, _, err := tmpls.RenderPush("does_not_exist", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRenderEmail(t *testing.T) {
	tmpls, err := ParseTemplates([]byte(testYAML))
	if err != nil {
		t.Fatalf("ParseTemplates: %v", err)
	}

	subject, body, err := tmpls.RenderEmail("order_receipt", struct {
		Price string
	}{"€25.00"})
	if err != nil {
		t.Fatalf("RenderEmail: %v", err)
	}
	if subject != "Your receipt" {
		t.Fatalf("subject = %q", subject)
	}
	if body != "Total charged: €25.00." {
		t.Fatalf("body = %q", body)
	}
}

func TestParseTemplatesRejectsEmptyBody(t *testing.T) {
	broken := `
push:
  something:
    title: "Title only"
`
	if _, err := ParseTemplates([]byte(broken)); err == nil {
		t.Fatal("expected error for empty template body")
	}
}

// The shipped template file must parse and cover every template name the
// module renders.
func TestShippedTemplatesComplete(t *testing.T) {
	raw, err := os.ReadFile("../../config/notifications.yaml")
	if err != nil {
		t.Fatalf("read shipped templates: %v", err)
	}

	tmpls, err := ParseTemplates(raw)
	if err != nil {
		t.Fatalf("ParseTemplates: %v", err)
	}

	pushNames := []string{
		"order_queued_specialist",
		"order_queued_client",
		"order_accepted_client",
		"order_started_client",
		"order_completed_client",
		"order_completed_specialist",
		"order_cancelled_client",
		"order_cancelled_specialist",
	}
	for _, name := range pushNames {
		if _, ok := tmpls.push[name]; !ok {
			t.Fatalf("shipped templates missing push template %q", name)
		}
	}
	if _, ok := tmpls.email["order_receipt"]; !ok {
		t.Fatal("shipped templates missing email template order_receipt")
	}

	_, body, err := tmpls.RenderPush("order_queued_client", struct {
		Position int
	}{3})
	if err != nil {
		t.Fatalf("render shipped template: %v", err)
	}
	if !strings.Contains(body, "3") {
		t.Fatalf("queued client body does not mention position: %q", body)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{2500, "€25.00"},
		{2505, "€25.05"},
		{99, "€0.99"},
		{0, "€0.00"},
	}
	for _, tc := range cases {
		if got := formatPrice(tc.cents); got != tc.want {
			t.Fatalf("formatPrice(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}
