// Package queue implementa la cola de exportaciones CSV sobre asynq (Redis).
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/grocery-api/internal/application/ports"
	"github.com/jhoicas/grocery-api/pkg/config"
)

// TypeExportCSV tipo de tarea de la exportación del catálogo.
const TypeExportCSV = "export:csv"

// ExportPayload cuerpo de la tarea.
type ExportPayload struct {
	JobID string `json:"job_id"`
}

// RedisOpt traduce la configuración compartida de Redis al formato de asynq.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// NewExportTask construye la tarea. El TaskID es el del trabajo para que reencolar sea idempotente.
func NewExportTask(jobID, queueName string) (*asynq.Task, error) {
	payload, err := json.Marshal(ExportPayload{JobID: jobID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeExportCSV, payload, asynq.TaskID(jobID), asynq.Queue(queueName)), nil
}

// Client encola exportaciones; implementa ports.ExportQueue.
type Client struct {
	client *asynq.Client
	queue  string
}

var _ ports.ExportQueue = (*Client)(nil)

// NewClient abre el cliente de asynq.
func NewClient(redisOpt asynq.RedisConnOpt, queueName string) *Client {
	return &Client{client: asynq.NewClient(redisOpt), queue: queueName}
}

// EnqueueExport encola el trabajo. Si ya existe una tarea con el mismo ID no es un error.
func (c *Client) EnqueueExport(ctx context.Context, jobID string) error {
	task, err := NewExportTask(jobID, c.queue)
	if err != nil {
		return fmt.Errorf("export task: %w", err)
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue export %s: %w", jobID, err)
	}
	return nil
}

// Close libera la conexión con Redis.
func (c *Client) Close() error {
	return c.client.Close()
}
