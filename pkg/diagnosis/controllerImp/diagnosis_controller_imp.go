package controllerImp

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"plantdoctor/entities"
	"plantdoctor/pkg/analysis/repository"
	"plantdoctor/pkg/diagnosis"
	"plantdoctor/pkg/diagnosis/controller"
	"plantdoctor/pkg/diagnosis/service"
)

const (
	rootMessage = "Plant Doctor AI API is running"
	formField   = "file"
)

type DiagnosisCtrl struct {
	svc     service.DiagnosisService
	audit   repository.AnalysisRepository // nil when the audit store is off
	backend string
	model   string
}

func New(svc service.DiagnosisService, audit repository.AnalysisRepository, backend, model string) *DiagnosisCtrl {
	return &DiagnosisCtrl{svc: svc, audit: audit, backend: backend, model: model}
}

var _ controller.DiagnosisController = (*DiagnosisCtrl)(nil)

func (h *DiagnosisCtrl) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": rootMessage})
}

func (h *DiagnosisCtrl) Analyze(c echo.Context) error {
	start := time.Now()
	rec := &entities.AnalysisLog{
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		Backend:   h.backend,
		Model:     h.model,
	}

	body, err := h.analyze(c, rec)
	rec.LatencyMS = time.Since(start).Milliseconds()
	rec.Outcome = diagnosis.Outcome(err)
	if err != nil {
		rec.Detail = diagnosis.Detail(err)
	}
	h.record(c.Request().Context(), rec)

	if err != nil {
		log.Printf("[analyze] %s Error processing image: %v", rec.RequestID, err)
		return c.JSON(diagnosis.HTTPStatus(err), echo.Map{"detail": diagnosis.Detail(err)})
	}
	return c.JSONBlob(http.StatusOK, body)
}

func (h *DiagnosisCtrl) analyze(c echo.Context, rec *entities.AnalysisLog) ([]byte, error) {
	// credential first: a misconfigured server answers the same way whatever
	// was uploaded
	if !h.svc.Configured() {
		return nil, diagnosis.Misconfigured()
	}

	fh, err := c.FormFile(formField)
	if err != nil {
		return nil, diagnosis.MissingFile(err)
	}
	rec.Filename = fh.Filename
	rec.MIMEType = fh.Header.Get(echo.HeaderContentType)
	rec.SizeBytes = fh.Size

	f, err := fh.Open()
	if err != nil {
		return nil, diagnosis.Upstream(err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, diagnosis.Upstream(err)
	}

	return h.svc.Analyze(c.Request().Context(), service.Upload{
		Filename: fh.Filename,
		MIMEType: rec.MIMEType,
		Data:     data,
	})
}

func (h *DiagnosisCtrl) record(ctx context.Context, rec *entities.AnalysisLog) {
	if h.audit == nil {
		return
	}
	// the client may already be gone; the row is still worth keeping
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := h.audit.Record(ctx, rec); err != nil {
		log.Printf("[analyze] %s audit write failed: %v", rec.RequestID, err)
	}
}
