package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

type HealthCtrl struct {
	db         *gorm.DB // nil when the audit store is disabled
	configured bool
	backend    string
	model      string
}

func NewHealthCtrl(db *gorm.DB, configured bool, backend, model string) *HealthCtrl {
	return &HealthCtrl{db: db, configured: configured, backend: backend, model: model}
}

type sub struct {
	OK       bool   `json:"ok"`
	Disabled bool   `json:"disabled,omitempty"`
	Err      string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	db := h.checkDB(ctx)
	upstream := sub{OK: h.configured}
	if !h.configured {
		upstream.Err = "API key missing"
	}

	allOK := db.OK && upstream.OK
	status := http.StatusOK
	if !allOK {
		status = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": allOK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"backend":    h.backend,
		"model":      h.model,
		"checks": map[string]any{
			"upstream": upstream,
			"database": db,
		},
		"time": time.Now().Format(time.RFC3339),
	}
	return c.JSON(status, resp)
}

func (h *HealthCtrl) checkDB(ctx context.Context) sub {
	if h.db == nil {
		return sub{OK: true, Disabled: true}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return sub{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return sub{Err: "ping: " + err.Error()}
	}
	return sub{OK: true}
}
