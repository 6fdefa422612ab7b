package controller

import "github.com/labstack/echo/v4"

type ProjectController interface {
	List(c echo.Context) error
	Export(c echo.Context) error
	Create(c echo.Context) error
	Paste(c echo.Context) error
	Import(c echo.Context) error
	ImportLogistics(c echo.Context) error
	QuickPI(c echo.Context) error
	ListLogs(c echo.Context) error
	AddStatus(c echo.Context) error
	BulkStatus(c echo.Context) error
}
