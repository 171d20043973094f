package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/service"
)

type Options struct {
	// BodyLimit caps request bodies, CSV uploads included. Zero keeps
	// fiber's default.
	BodyLimit int
}

// NewApp builds the fiber app with middleware and all routes registered.
func NewApp(svcs *service.Services, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "sensor-readings-api",
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(fiberrecover.New())
	app.Use(requestid.New())
	app.Use(accessLog)

	Register(app, svcs)
	return app
}

// accessLog resolves handler errors itself so the logged status is the
// one the client receives.
func accessLog(c *fiber.Ctx) error {
	start := time.Now()
	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	ev := log.Info()
	if status >= fiber.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg("request")
	return nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	var (
		malformed *domain.MalformedError
		fields    domain.FieldErrors
		fiberErr  *fiber.Error
	)
	switch {
	case errors.As(err, &malformed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": malformed.Msg})
	case errors.As(err, &fields):
		return c.Status(fiber.StatusBadRequest).JSON(fields)
	case errors.Is(err, domain.ErrInvalidPeriod):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid period"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "No active account found with the given credentials"})
	case errors.Is(err, domain.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"detail": "Token is invalid or expired",
			"code":   "token_not_valid",
		})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
