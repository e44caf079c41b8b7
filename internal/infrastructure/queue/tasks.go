package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"blog-backend/internal/infrastructure/email"
	"blog-backend/internal/shared"

	"github.com/hibiken/asynq"
)

// NewActivationEmailTask wraps msg as an at-most-once task.
func NewActivationEmailTask(msg email.Message) (*asynq.Task, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal email payload: %w", err)
	}

	return asynq.NewTask(
		shared.TypeSendActivationEmail,
		payload,
		asynq.Queue(shared.QueueDefault),
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Second),
	), nil
}
