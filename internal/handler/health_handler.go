package handler

import (
	"net/http"

	"gestao-service/pkg/database"

	"github.com/labstack/echo/v4"
)

// Health reports service liveness and database reachability
func Health(c echo.Context) error {
	if err := database.Ping(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "degraded",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
