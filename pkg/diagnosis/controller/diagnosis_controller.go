package controller

import "github.com/labstack/echo/v4"

type DiagnosisController interface {
	Root(c echo.Context) error
	Analyze(c echo.Context) error
}
