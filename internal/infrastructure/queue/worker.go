package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/grocery-api/pkg/config"
	"github.com/jhoicas/grocery-api/pkg/logger"
)

// ExportProcessor ejecuta un trabajo de exportación (export.UseCase).
type ExportProcessor interface {
	Process(ctx context.Context, jobID string) error
}

// NewServer construye el servidor de asynq que consume la cola de exportaciones.
func NewServer(redisOpt asynq.RedisConnOpt, cfg config.ExportConfig, log *logger.Logger) *asynq.Server {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{cfg.Queue: 1},
		Logger:      asynqLogger{log: log},
		ErrorHandler: asynq.ErrorHandlerFunc(func(_ context.Context, task *asynq.Task, err error) {
			log.Error().Err(err).Str("type", task.Type()).Bytes("payload", task.Payload()).Msg("tarea fallida")
		}),
	})
}

// NewMux registra el handler de exportación.
func NewMux(processor ExportProcessor, log *logger.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExportCSV, ExportHandler(processor, log))
	return mux
}

// ExportHandler decodifica la tarea y delega en el procesador. El estado del trabajo ya queda
// registrado como failed, así que un error nunca se reintenta.
func ExportHandler(processor ExportProcessor, log *logger.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ExportPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("payload inválido: %v: %w", err, asynq.SkipRetry)
		}
		log.Info().Str("job_id", p.JobID).Msg("procesando exportación")
		if err := processor.Process(ctx, p.JobID); err != nil {
			return fmt.Errorf("exportación %s: %v: %w", p.JobID, err, asynq.SkipRetry)
		}
		log.Info().Str("job_id", p.JobID).Msg("exportación terminada")
		return nil
	}
}

// asynqLogger adapta el logger de la aplicación a asynq.Logger.
type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error().Msg(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Fatal().Msg(fmt.Sprint(args...)) }
