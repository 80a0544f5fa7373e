package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSafetyIDIssued notifies a holder about a freshly issued identifier.
	TaskTypeSafetyIDIssued = "safetyid:issued"
	// TaskTypeOrphanScan looks for users left without relationship rows.
	TaskTypeOrphanScan = "users:orphan-scan"
	// TaskTypeUserCreated sends the welcome notification for a new account.
	TaskTypeUserCreated = "users:created"
)

// UserCreatedPayload describes the welcome notification for a new account.
type UserCreatedPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// NewUserCreatedTask constructs an Asynq task.
func NewUserCreatedTask(payload UserCreatedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeUserCreated, data), nil
}

// HandleUserCreatedTask processes TaskTypeUserCreated tasks.
func HandleUserCreatedTask(ctx context.Context, t *asynq.Task) error {
	var payload UserCreatedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: deliver through the notification gateway once it lands.
	fmt.Printf("[jobs] welcome notification for %s\n", payload.Email)
	return nil
}

// SafetyIDIssuedPayload describes a freshly issued identifier notification.
type SafetyIDIssuedPayload struct {
	SafetyID  string `json:"safety_id"`
	UserID    string `json:"user_id"`
	EditionID string `json:"edition_id"`
	Code      string `json:"code"`
}

// NewSafetyIDIssuedTask constructs an Asynq task.
func NewSafetyIDIssuedTask(payload SafetyIDIssuedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSafetyIDIssued, data), nil
}

// HandleSafetyIDIssuedTask processes TaskTypeSafetyIDIssued tasks.
func HandleSafetyIDIssuedTask(ctx context.Context, t *asynq.Task) error {
	var payload SafetyIDIssuedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: deliver through the notification gateway once it lands.
	fmt.Printf("[jobs] safety id %s issued to user %s\n", payload.Code, payload.UserID)
	return nil
}

// OrphanScanPayload configures one orphan scan run.
type OrphanScanPayload struct {
	OlderThanMinutes int `json:"older_than_minutes"`
}

// NewOrphanScanTask constructs an Asynq task.
func NewOrphanScanTask(payload OrphanScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeOrphanScan, data), nil
}
