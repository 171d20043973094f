package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/service"
)

const uploadField = "file"

func Register(app *fiber.App, svcs *service.Services) {
	g := app.Group("/")

	g.Get("health", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if err := svcs.Repos.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		readings, err := svcs.Repos.CountReadings(ctx)
		if err != nil {
			return err
		}
		accounts, err := svcs.Repos.CountAccounts(ctx)
		if err != nil {
			return err
		}
		return c.JSON(healthResponse{Status: "ok", Readings: readings, Accounts: accounts})
	})

	g.Post("sensor-data", func(c *fiber.Ctx) error {
		rd, err := svcs.Readings.Create(c.UserContext(), c.Body())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(newReadingResponse(rd))
	})

	g.Post("upload-csv", func(c *fiber.Ctx) error {
		fh, err := c.FormFile(uploadField)
		if err != nil {
			return domain.Malformed("no file provided")
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return err
		}

		res, err := svcs.Readings.Upload(c.UserContext(), fh.Filename, data)
		if err != nil {
			return err
		}
		if res.Accepted == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(newUploadFailedResponse(res))
		}
		return c.Status(fiber.StatusCreated).JSON(newUploadResponse(res))
	})

	g.Get("aggregated-data", func(c *fiber.Ctx) error {
		period := service.DefaultPeriod
		if c.Context().QueryArgs().Has("period") {
			period = c.Query("period")
		}
		avgs, err := svcs.Aggregates.Averages(c.UserContext(), period)
		if err != nil {
			return err
		}
		return c.JSON(newAggregateResponse(avgs))
	})

	g.Post("register", func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		pair, err := svcs.Accounts.Register(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(pair)
	})

	g.Post("token", func(c *fiber.Ctx) error {
		var req credentialsRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		pair, err := svcs.Accounts.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(pair)
	})

	g.Post("token/refresh", func(c *fiber.Ctx) error {
		var req refreshRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		access, err := svcs.Accounts.Refresh(c.UserContext(), req.Refresh)
		if err != nil {
			return err
		}
		return c.JSON(accessResponse{Access: access})
	})
}

// parseBody accepts JSON, urlencoded and multipart bodies. An empty body
// leaves out untouched so the validators report the missing fields.
func parseBody(c *fiber.Ctx, out any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return domain.Malformed(err.Error())
	}
	return nil
}
