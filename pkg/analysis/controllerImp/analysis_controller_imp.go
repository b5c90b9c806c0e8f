package controllerImp

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"plantdoctor/entities"
	"plantdoctor/pkg/analysis/repository"
)

const (
	defaultLimit = 50
	maxLimit     = 500
	sheetName    = "analyses"
)

type AnalysisCtrl struct{ repo repository.AnalysisRepository }

func New(repo repository.AnalysisRepository) *AnalysisCtrl { return &AnalysisCtrl{repo: repo} }

func (h *AnalysisCtrl) List(c echo.Context) error {
	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	rows, err := h.repo.Recent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	if rows == nil {
		rows = []entities.AnalysisLog{}
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *AnalysisCtrl) Export(c echo.Context) error {
	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"detail": err.Error()})
	}
	rows, err := h.repo.Recent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}

	f, err := Workbook(rows)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"detail": err.Error()})
	}
	defer f.Close()

	name := fmt.Sprintf("analyses-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	_, err = f.WriteTo(c.Response())
	return err
}

var header = []any{"id", "created_at", "request_id", "filename", "mime_type", "size_bytes", "backend", "model", "outcome", "detail", "latency_ms"}

// Workbook lays rows out on one sheet, header first.
func Workbook(rows []entities.AnalysisLog) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	for i, a := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		vals := []any{
			a.ID, a.CreatedAt.UTC().Format(time.RFC3339), a.RequestID, a.Filename, a.MIMEType,
			a.SizeBytes, a.Backend, a.Model, a.Outcome, a.Detail, a.LatencyMS,
		}
		if err := f.SetSheetRow(sheetName, cell, &vals); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func parseLimit(v string) (int, error) {
	if v == "" {
		return defaultLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer")
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, nil
}
