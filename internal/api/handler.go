package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/extractor"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/ledger"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/logger"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/pipeline"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/source"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/statement"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// ProcessResponse is the JSON response from the /api/process endpoint.
type ProcessResponse struct {
	Success  bool                    `json:"success"`
	Error    string                  `json:"error,omitempty"`
	ID       string                  `json:"id,omitempty"`
	Outcomes []models.Outcome        `json:"outcomes"`
	Counts   map[models.Currency]int `json:"counts"`
	Records  ledger.Snapshot         `json:"records"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Processor *statement.Processor
	Extractor extractor.Extractor
	Workers   int
	Log       zerolog.Logger

	reports *cache.Cache
}

// NewHandler returns a Handler that keeps processed reports for ttl.
func NewHandler(proc *statement.Processor, ex extractor.Extractor, ttl time.Duration, log zerolog.Logger) *Handler {
	return &Handler{
		Processor: proc,
		Extractor: ex,
		Workers:   1,
		Log:       log,
		reports:   cache.New(ttl, 2*ttl),
	}
}

// NewApp returns a fiber app with the API routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    32 << 20,
		ErrorHandler: errorHandler,
	})
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/process", h.HandleProcess)
	app.Get("/api/reports/:id", h.HandleReport)
}

// HandleHealth reports service status.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
		"layout":  h.Processor.Layout().Name,
	})
}

// HandleProcess accepts statement files (form field "files", .pdf or .txt)
// and/or a raw text dump (form field "text") and returns the parsed records by currency.
func (h *Handler) HandleProcess(c *fiber.Ctx) error {
	tmpDir, err := os.MkdirTemp("", "statements-*")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create temp dir.")
	}
	defer os.RemoveAll(tmpDir)

	docs, err := h.collectDocuments(c, tmpDir)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No statement uploaded. Use form field 'files' or 'text'.")
	}

	ctx := logger.WithContext(c.UserContext(), h.Log)
	res, err := pipeline.Run(ctx, docs, h.Extractor, h.Processor, pipeline.Options{Workers: h.Workers})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Processing failed: %v", err))
	}

	h.reports.SetDefault(res.RunID, res.Snapshot)

	counts := make(map[models.Currency]int)
	for _, cur := range res.Snapshot.Currencies() {
		counts[cur] = len(res.Snapshot[cur])
	}

	return c.JSON(ProcessResponse{
		Success:  true,
		ID:       res.RunID,
		Outcomes: res.Outcomes,
		Counts:   counts,
		Records:  res.Snapshot,
	})
}

// collectDocuments stores the uploads in dir and returns them in upload order.
func (h *Handler) collectDocuments(c *fiber.Ctx, dir string) ([]source.Document, error) {
	var docs []source.Document

	if form, err := c.MultipartForm(); err == nil {
		for i, fh := range form.File["files"] {
			ext := strings.ToLower(filepath.Ext(fh.Filename))
			if ext != ".pdf" && ext != ".txt" {
				return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Unsupported file %q: only .pdf and .txt are accepted.", fh.Filename))
			}
			path := filepath.Join(dir, fmt.Sprintf("%03d%s", i, ext))
			if err := c.SaveFile(fh, path); err != nil {
				return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to save uploaded file.")
			}
			docs = append(docs, source.Document{ID: filepath.Base(fh.Filename), Path: path})
		}
	}

	if text := c.FormValue("text"); strings.TrimSpace(text) != "" {
		path := filepath.Join(dir, "text-1.txt")
		if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
			return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to save text.")
		}
		docs = append(docs, source.Document{ID: "text-1", Path: path})
	}

	return docs, nil
}

// HandleReport downloads a processed ledger as xlsx (default) or csv.
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	v, ok := h.reports.Get(c.Params("id"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Report not found or expired.")
	}
	snap := v.(ledger.Snapshot)

	format := strings.ToLower(c.Query("format", "xlsx"))
	sink, err := writer.New(format)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var buf bytes.Buffer
	if err := sink.Write(&buf, snap); err != nil {
		if errors.Is(err, writer.ErrEmptyReport) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "No movements found in any currency.")
		}
		return fiber.NewError(fiber.StatusInternalServerError, fmt.Sprintf("Report generation failed: %v", err))
	}

	c.Attachment("movimientos_bancarios." + format)
	return c.Send(buf.Bytes())
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(ProcessResponse{
		Success: false,
		Error:   err.Error(),
	})
}
