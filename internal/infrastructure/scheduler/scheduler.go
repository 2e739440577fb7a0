// Package scheduler ejecuta los jobs periódicos (recordatorios y reporte mensual) con robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/grocery-api/pkg/logger"
)

// JobFunc job programado; devuelve cuántos elementos procesó.
type JobFunc func(ctx context.Context) (int, error)

// Scheduler envuelve cron.Cron con zona horaria, timeout por ejecución y recuperación de panics.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	log     *logger.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New construye el scheduler. Las expresiones se evalúan en loc.
func New(loc *time.Location, timeout time.Duration, log *logger.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.Recover(cron.PrintfLogger(log)),
			cron.SkipIfStillRunning(cron.PrintfLogger(log)),
		),
	)
	return &Scheduler{cron: c, timeout: timeout, log: log, ctx: ctx, cancel: cancel}
}

// Register programa fn con una expresión cron estándar de cinco campos.
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	if _, err := s.cron.AddFunc(spec, s.wrap(name, fn)); err != nil {
		return fmt.Errorf("scheduler: job %s (%q): %w", name, spec, err)
	}
	s.log.Info().Str("job", name).Str("spec", spec).Msg("job programado")
	return nil
}

// wrap aplica el timeout y registra el resultado de cada ejecución.
func (s *Scheduler) wrap(name string, fn JobFunc) func() {
	return func() {
		ctx := s.ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		start := time.Now()
		n, err := fn(ctx)
		ev := s.log.Info()
		if err != nil {
			ev = s.log.Error().Err(err)
		}
		ev.Str("job", name).Int("processed", n).Dur("elapsed", time.Since(start)).Msg("job ejecutado")
	}
}

// Start arranca el scheduler en su propia goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop deja de programar, cancela las ejecuciones en curso y espera a que terminen o a que venza ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len número de jobs registrados.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}
