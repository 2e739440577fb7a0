package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocery-api/pkg/logger"
)

// localError guarda el error interno de la petición para el log de acceso.
const localError = "internal_error"

// RequestLogger registra método, ruta, estado, latencia y usuario. Nunca registra cuerpos ni tokens.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		if internal, ok := c.Locals(localError).(error); ok {
			ev = ev.Err(internal)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("username", GetUsername(c)).
			Msg("request")
		return err
	}
}

// RequestTimeout acota la petición completa: c.UserContext() vence tras d y los casos de uso lo
// propagan a la base de datos, la caché y la cola.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
