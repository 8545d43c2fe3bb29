package server

import (
	"net/http"

	"cartwidget/internal/handler"
	"cartwidget/internal/middleware"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, widgetH *handler.WidgetHandler, issuer *middleware.SessionIssuer, metrics http.Handler) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics))

	widgetH.RegisterRoutes(e, issuer)
}
