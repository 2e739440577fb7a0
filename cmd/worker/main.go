// worker procesa las exportaciones CSV encoladas por la API.
//
// Uso: go run ./cmd/worker
// Requiere DB_DRIVER=postgres: el estado de los trabajos se comparte con la API a través de la base de datos.
// EXPORT_DIR debe apuntar al mismo volumen que usa la API: los archivos se escriben aquí y se descargan allá.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/grocery-api/internal/application/export"
	"github.com/jhoicas/grocery-api/internal/infrastructure/csvexport"
	"github.com/jhoicas/grocery-api/internal/infrastructure/postgres"
	"github.com/jhoicas/grocery-api/internal/infrastructure/queue"
	"github.com/jhoicas/grocery-api/pkg/config"
	"github.com/jhoicas/grocery-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("export-worker")

	if cfg.DB.Driver == "memory" {
		log.Fatal().Msg("el worker separado necesita DB_DRIVER=postgres; use EXPORT_EMBEDDED_WORKER con el driver en memoria")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema")
	}

	redisOpt := queue.RedisOpt(cfg.Redis)
	client := queue.NewClient(redisOpt, cfg.Export.Queue)
	defer client.Close()

	exportUC := export.NewUseCase(
		postgres.NewExportJobRepository(pool),
		postgres.NewProductRepository(pool),
		client,
		csvexport.NewWriter(cfg.Export.Dir),
	)

	srv := queue.NewServer(redisOpt, cfg.Export, log)
	if err := srv.Start(queue.NewMux(exportUC, log)); err != nil {
		log.Fatal().Err(err).Msg("arrancar worker")
	}
	log.Info().
		Str("queue", cfg.Export.Queue).
		Int("concurrency", cfg.Export.Concurrency).
		Str("dir", cfg.Export.Dir).
		Msg("worker de exportación iniciado")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	srv.Shutdown()
	log.Info().Msg("worker detenido")
}
