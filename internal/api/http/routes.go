package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jiwonseo/kma-dashboard/internal/forecast"
	"github.com/jiwonseo/kma-dashboard/internal/notices"
	"github.com/jiwonseo/kma-dashboard/internal/settings"
	"github.com/jiwonseo/kma-dashboard/internal/video"
)

var validate = validator.New()

// Deps bundles everything the HTTP handlers consume.
type Deps struct {
	Forecast *forecast.Service
	Settings *settings.Settings
	Videos   *video.Rotator
	Notices  notices.Provider
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast/latest", func(c *fiber.Ctx) error {
		snapshot, err := deps.Forecast.LatestForecast(c.Context())
		if err != nil {
			if errors.Is(err, forecast.ErrNoBulletin) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast data available")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast data")
		}

		return c.JSON(snapshot)
	})

	v1.Get("/settings/refresh-interval", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"interval": int(deps.Settings.RefreshInterval().Seconds()),
		})
	})

	v1.Post("/settings/refresh-interval", func(c *fiber.Ctx) error {
		var req refreshIntervalRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := deps.Settings.SetRefreshInterval(time.Duration(req.Interval) * time.Second); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{
			"status":   "success",
			"interval": req.Interval,
		})
	})

	v1.Get("/video/current", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"videoId": deps.Videos.Current()})
	})

	v1.Get("/video/next", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"videoId": deps.Videos.Next()})
	})

	v1.Get("/video/prev", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"videoId": deps.Videos.Prev()})
	})

	v1.Get("/notices", func(c *fiber.Ctx) error {
		if deps.Notices == nil {
			return fiber.NewError(fiber.StatusNotImplemented, "no notices provider configured")
		}
		list, err := deps.Notices.Latest(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch notices")
		}
		return c.JSON(fiber.Map{"notices": list})
	})
}

// refreshIntervalRequest is the body of the set-refresh-interval endpoint.
// The interval is in seconds and must be at least 60.
type refreshIntervalRequest struct {
	Interval int `json:"interval" validate:"required,min=60"`
}
