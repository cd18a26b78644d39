package scheduler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testConfig struct {
	redisURL string
}

func (c testConfig) GetRedisURL() string       { return c.redisURL }
func (c testConfig) GetRedisTLSInsecure() bool { return false }
func (c testConfig) GetAsynqQueueName() string { return "notifications" }
func (c testConfig) GetAsynqConcurrency() int  { return 1 }

func TestDispatchPushEnqueuesTask(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig{redisURL: "redis://" + mr.Addr()}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.DispatchPush(context.Background(), "ExponentPushToken[abc]", "New order", "You have a new order", map[string]string{"orderId": "o-1"})
	if err != nil {
		t.Fatalf("DispatchPush: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("notifications")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(pending))
	}
	if pending[0].Type != TaskPushDelivery {
		t.Fatalf("task type = %q, want %q", pending[0].Type, TaskPushDelivery)
	}

	payload, err := ParsePushDeliveryPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("ParsePushDeliveryPayload: %v", err)
	}
	if payload.Token != "ExponentPushToken[abc]" {
		t.Fatalf("token = %q", payload.Token)
	}
	if payload.Data["orderId"] != "o-1" {
		t.Fatalf("data = %v", payload.Data)
	}
}

func TestDispatchEmailEnqueuesTask(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig{redisURL: "redis://" + mr.Addr()}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.DispatchEmail(context.Background(), "client@example.com", "Receipt", "Thanks for your order")
	if err != nil {
		t.Fatalf("DispatchEmail: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("notifications")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(pending))
	}

	payload, err := ParseEmailDeliveryPayload(asynq.NewTask(pending[0].Type, pending[0].Payload))
	if err != nil {
		t.Fatalf("ParseEmailDeliveryPayload: %v", err)
	}
	if payload.To != "client@example.com" || payload.Subject != "Receipt" {
		t.Fatalf("payload = %+v", payload)
	}
}

func TestNilClientDispatchIsNoop(t *testing.T) {
	var client *Client
	if err := client.DispatchPush(context.Background(), "ExponentPushToken[x]", "t", "b", nil); err != nil {
		t.Fatalf("nil client DispatchPush: %v", err)
	}
	if err := client.DispatchEmail(context.Background(), "a@b.c", "s", "b"); err != nil {
		t.Fatalf("nil client DispatchEmail: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("nil client Close: %v", err)
	}
}

func TestRedisClientOptRejectsBadURL(t *testing.T) {
	if _, err := redisClientOpt("not-a-url", false); err == nil {
		t.Fatal("expected error for malformed redis url")
	}
}
