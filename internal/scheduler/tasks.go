package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskPushDelivery = "notifications.push.deliver"

const TaskEmailDelivery = "notifications.email.deliver"

// PushDeliveryPayload is one push notification bound for a device token.
type PushDeliveryPayload struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// EmailDeliveryPayload is one email bound for a recipient.
type EmailDeliveryPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func NewPushDeliveryTask(payload PushDeliveryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPushDelivery, data), nil
}

func ParsePushDeliveryPayload(task *asynq.Task) (PushDeliveryPayload, error) {
	var payload PushDeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return PushDeliveryPayload{}, err
	}
	return payload, nil
}

func NewEmailDeliveryTask(payload EmailDeliveryPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskEmailDelivery, data), nil
}

func ParseEmailDeliveryPayload(task *asynq.Task) (EmailDeliveryPayload, error) {
	var payload EmailDeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return EmailDeliveryPayload{}, err
	}
	return payload, nil
}
