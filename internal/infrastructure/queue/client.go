package queue

import (
	"context"
	"fmt"

	"blog-backend/internal/infrastructure/email"
	"blog-backend/pkg/metrics"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Client enqueues tasks for cmd/worker.
type Client struct {
	client  *asynq.Client
	metrics *metrics.Metrics
}

// NewClient connects to the broker at redisAddr. m may be nil.
func NewClient(redisAddr, password string, db int, m *metrics.Metrics) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		}),
		metrics: m,
	}
}

// EnqueueEmail hands msg to the worker. Delivery is fire-and-forget.
func (c *Client) EnqueueEmail(ctx context.Context, msg email.Message) error {
	task, err := NewActivationEmailTask(msg)
	if err != nil {
		c.observe("invalid")
		return err
	}

	info, err := c.client.EnqueueContext(ctx, task, asynq.TaskID(uuid.NewString()))
	if err != nil {
		c.observe("error")
		return fmt.Errorf("enqueue email task: %w", err)
	}

	c.observe("ok")
	log.Debug().Str("task_id", info.ID).Str("queue", info.Queue).Msg("email task enqueued")
	return nil
}

func (c *Client) observe(result string) {
	if c.metrics != nil {
		c.metrics.EmailsEnqueued.WithLabelValues(result).Inc()
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}
