package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"shiptrack/pkg/middleware"
	"shiptrack/pkg/project/controller"
)

type Options struct {
	DefaultActor string
	BodyLimit    string
	StaticDir    string
	Log          *zap.Logger
}

func New(
	e *echo.Echo,
	opts Options,
	projectCtrl controller.ProjectController,
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Actor(opts.DefaultActor))
	e.Use(middleware.RequestLog(log))

	e.GET("/health", healthCtrl.Health)

	api := e.Group("/api/v1")
	api.GET("/projects", projectCtrl.List)
	api.GET("/projects/export", projectCtrl.Export)
	api.POST("/projects", projectCtrl.Create)
	api.POST("/projects/paste", projectCtrl.Paste)
	api.PUT("/projects/:id/pi", projectCtrl.QuickPI)
	api.GET("/projects/:id/status", projectCtrl.ListLogs)
	api.POST("/projects/:id/status", projectCtrl.AddStatus)
	api.POST("/status/bulk", projectCtrl.BulkStatus)

	limit := opts.BodyLimit
	if limit == "" {
		limit = "20M"
	}
	api.POST("/projects/import", projectCtrl.Import, echomw.BodyLimit(limit))
	api.POST("/logistics/import", projectCtrl.ImportLogistics, echomw.BodyLimit(limit))

	if opts.StaticDir != "" {
		e.Static("/", opts.StaticDir)
	}
	return e
}
