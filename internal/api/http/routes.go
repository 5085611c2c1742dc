package httpapi

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/bom-weather-sync/internal/host"
	"github.com/i474232898/bom-weather-sync/internal/store"
	"github.com/i474232898/bom-weather-sync/internal/weather"
)

const (
	adminTokenHeader = "X-Admin-Token"
	setidrUsage      = "Usage: /setidr <product> <stationId>"
)

var validate = validator.New()

// WeatherReader exposes the pipeline's last known values.
type WeatherReader interface {
	Current() weather.LastState
	Latest() (weather.Observation, bool)
}

// StationStore holds the configured station.
type StationStore interface {
	Station() weather.Station
	SetStation(weather.Station) error
}

// Trigger starts an out-of-cycle pipeline run.
type Trigger interface {
	Trigger(reason string)
}

// EnvironmentReader exposes the host environment.
type EnvironmentReader interface {
	Snapshot() host.EnvironmentState
}

// Deps are the collaborators the routes need. Gatherer and Environment may be nil.
type Deps struct {
	Weather     WeatherReader
	Stations    StationStore
	Trigger     Trigger
	Environment EnvironmentReader
	Gatherer    prometheus.Gatherer
	AdminToken  string
	Logger      *slog.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		state := d.Weather.Current()
		if state.Category == weather.CategoryUnknown {
			return fiber.NewError(fiber.StatusNotFound, "no weather announced yet")
		}
		resp := fiber.Map{"state": state}
		if obs, ok := d.Weather.Latest(); ok {
			resp["observation"] = obs
		}
		return c.JSON(resp)
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		d.Trigger.Trigger("api")
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "refresh scheduled"})
	})

	v1.Get("/station", func(c *fiber.Ctx) error {
		return c.JSON(d.Stations.Station())
	})

	v1.Post("/commands/setidr", func(c *fiber.Ctx) error {
		if !authorized(c, d.AdminToken) {
			return fiber.NewError(fiber.StatusForbidden, "You don't have permission to run this command.")
		}

		var req setidrRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, setidrUsage)
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, setidrUsage)
		}

		st := req.toStation()
		if err := d.Stations.SetStation(st); err != nil {
			if errors.Is(err, store.ErrInvalidStation) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			logger.Error("failed to save station", "station", st.Key(), "err", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save station")
		}

		logger.Info("BOM station changed", "product", st.Product, "station_id", st.ID)
		d.Trigger.Trigger("setidr")

		return c.JSON(fiber.Map{
			"message": fmt.Sprintf("BOM station updated to: %s %s", st.Product, st.ID),
			"station": st,
		})
	})

	if d.Environment != nil {
		v1.Get("/environment", func(c *fiber.Ctx) error {
			return c.JSON(d.Environment.Snapshot())
		})
	}
}

// setidrRequest carries the two positional command arguments.
type setidrRequest struct {
	Args []string `json:"args" validate:"len=2,dive,required"`
}

func (r setidrRequest) toStation() weather.Station {
	return weather.Station{Product: r.Args[0], ID: r.Args[1]}
}

func authorized(c *fiber.Ctx, token string) bool {
	if token == "" {
		return true
	}
	got := c.Get(adminTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(token)) == 1
}
