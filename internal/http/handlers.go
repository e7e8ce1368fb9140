package http

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/mooreli104/farmtwin/internal/cloud"
	"github.com/mooreli104/farmtwin/internal/domain"
	"github.com/mooreli104/farmtwin/internal/repository"
	"github.com/mooreli104/farmtwin/internal/service"
	"github.com/mooreli104/farmtwin/internal/ws"
)

func Register(app *fiber.App, svcs *service.Services, hub *ws.Hub, reports *cloud.S3Client) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "ws_clients": hub.ClientCount()})
	})

	g := app.Group("/api")

	g.Get("sensors/current", func(c *fiber.Ctx) error {
		reading, ok := svcs.Session.CurrentReading()
		if !ok {
			return c.Status(404).JSON(fiber.Map{"error": "No sensor data yet"})
		}
		return c.JSON(reading)
	})

	g.Get("sensors/history", func(c *fiber.Ctx) error {
		history, err := svcs.Repos.SensorHistory(c.Query("timeRange"), c.Query("greenhouse_id"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if kind := domain.SensorKind(c.Query("sensor_type")); kind != "" {
			return c.JSON(projectSensor(history, kind))
		}
		return c.JSON(history)
	})

	g.Get("alerts", func(c *fiber.Ctx) error {
		var resolved *bool
		if q := c.Query("resolved"); q != "" {
			v, err := strconv.ParseBool(q)
			if err != nil {
				return c.Status(400).JSON(fiber.Map{"error": "resolved must be true or false"})
			}
			resolved = &v
		}
		limit := c.QueryInt("limit", 10)
		return c.JSON(svcs.Session.RecentAlerts(limit, c.Query("greenhouse_id"), resolved))
	})

	g.Post("alerts/:id/resolve", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(404).JSON(fiber.Map{"error": "Alert not found"})
		}
		if err := svcs.Session.ResolveAlert(id); err != nil {
			if errors.Is(err, repository.ErrAlertNotFound) {
				return c.Status(404).JSON(fiber.Map{"error": "Alert not found"})
			}
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"success": true})
	})

	g.Get("metrics/water-savings", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Session.Metrics())
	})

	g.Get("metrics/water-savings/report", func(c *fiber.Ctx) error {
		if reports == nil {
			return c.Status(503).JSON(fiber.Map{"error": "cloud services disabled"})
		}
		data, err := savingsReportCSV(svcs.Session)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		key := fmt.Sprintf("water-savings/%s.csv", time.Now().UTC().Format("2006-01-02T15-04-05"))
		url, err := reports.UploadReport(c.Context(), key, data, "text/csv")
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"url": url})
	})

	g.Post("sensors/esp32", func(c *fiber.Ctx) error {
		reading, err := svcs.Session.FromHardware(c.Body())
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"success": false, "error": err.Error()})
		}
		return c.JSON(fiber.Map{"success": true, "data": reading})
	})

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(func(conn *websocket.Conn) {
		hub.Serve(conn)
	}))
}

type sensorPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

func projectSensor(history []domain.Reading, kind domain.SensorKind) []sensorPoint {
	out := make([]sensorPoint, 0, len(history))
	for _, r := range history {
		if v, ok := r.Value(kind); ok {
			out = append(out, sensorPoint{Timestamp: r.Timestamp, Value: v})
		}
	}
	return out
}

func savingsReportCSV(session *service.Session) ([]byte, error) {
	snap := session.Metrics()
	events := session.IrrigationEvents()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"metric", "value"})
	_ = w.Write([]string{"saved_today_gal", fmt.Sprintf("%.1f", snap.Daily.Saved)})
	_ = w.Write([]string{"saved_week_gal", fmt.Sprintf("%.1f", snap.Weekly.Saved)})
	_ = w.Write([]string{"week_reduction_pct", fmt.Sprintf("%.0f", snap.Weekly.Percentage)})
	_ = w.Write([]string{})
	_ = w.Write([]string{"timestamp", "water_amount_gal", "triggered_by"})
	for _, e := range events {
		_ = w.Write([]string{e.Timestamp.Format(time.RFC3339), fmt.Sprintf("%.1f", e.WaterAmount), string(e.TriggeredBy)})
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
