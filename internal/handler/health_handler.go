package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jimmbo89/api-sweetspot/prometheus"
)

// Hello is the root endpoint
func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"hello": "World"})
}

// HealthCheck handles the health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "healthy",
		"service": "api-sweetspot",
	})
}

// MetricsHandler serves the Prometheus metrics endpoint
func MetricsHandler(c echo.Context) error {
	handler := prometheus.GetPrometheusHandler()
	handler.ServeHTTP(c.Response(), c.Request())
	return nil
}
