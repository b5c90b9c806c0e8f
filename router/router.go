package router

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"plantdoctor/config"
	"plantdoctor/docs"
)

// New wires middlewares and endpoints. analysisCtrl is nil when the audit
// store is disabled, in which case /analyses is not registered.
func New(
	e *echo.Echo,
	cfg config.AppConfig,
	diagCtrl interface {
		Root(echo.Context) error
		Analyze(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
	analysisCtrl interface {
		List(echo.Context) error
		Export(echo.Context) error
	},
) *echo.Echo {
	e.HTTPErrorHandler = detailErrorHandler
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			log.Printf("[http] %s %s %s %d %s", v.RequestID, v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))
	e.Use(echoMiddleware.BodyLimit(cfg.MaxUpload))

	e.GET("/", diagCtrl.Root)
	e.POST("/analyze-plant", diagCtrl.Analyze)
	e.GET("/health", healthCtrl.Health)

	if analysisCtrl != nil {
		g := e.Group("/analyses")
		g.GET("", analysisCtrl.List)
		g.GET("/export.xlsx", analysisCtrl.Export)
	}

	e.GET("/openapi.yaml", func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "public, max-age=60")
		return c.Blob(http.StatusOK, "application/yaml; charset=utf-8", docs.OpenAPI)
	})
	e.GET("/swagger/*", echo.WrapHandler(httpSwagger.Handler(
		httpSwagger.URL("/openapi.yaml"),
	)))
	return e
}

// detailErrorHandler renders framework errors (404, 405, 413, panics) in the
// same {"detail": ...} shape the handlers use.
func detailErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		log.Printf("[http] unhandled error: %v", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, echo.Map{"detail": msg})
	}
	if err != nil {
		log.Printf("[http] write error response: %v", err)
	}
}
