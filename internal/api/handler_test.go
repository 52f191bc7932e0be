package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Marcotagoras/CODIGOS-POLLO/internal/extractor"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/models"
	"github.com/Marcotagoras/CODIGOS-POLLO/internal/statement"
)

func setupTestApp() *fiber.App {
	h := NewHandler(statement.NewProcessor(nil), extractor.Default(), time.Minute, zerolog.Nop())
	return NewApp(h)
}

func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/process", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) ProcessResponse {
	t.Helper()
	body, _ := io.ReadAll(resp.Body)
	var out ProcessResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("failed to decode response %s: %v", body, err)
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp()

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}
	if result["engine"] != "fiber" {
		t.Errorf("expected engine=fiber, got %q", result["engine"])
	}
}

func TestProcessEndpointRequiresInput(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, nil, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if out := decode(t, resp); out.Success || out.Error == "" {
		t.Errorf("expected error response, got %+v", out)
	}
}

func TestProcessEndpointRejectsUnsupportedFile(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, nil, map[string]string{"foto.png": "x"}))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProcessAndDownload(t *testing.T) {
	app := setupTestApp()

	files := map[string]string{
		"marzo.txt": "ESTADO DE CUENTA NEGOCIOS Mes: MARZO 2025\nMONEDA: SOLES\n01/03 02/03 ABONO TRANSFERENCIA SUNAT  1,200.00  5,400.00\n",
	}
	fields := map[string]string{"text": "MONEDA: DOLARES\n03/03 03/03 RETIRO CAJERO -20.00 80.00"}

	resp, err := app.Test(multipartRequest(t, fields, files))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	out := decode(t, resp)
	if !out.Success || out.ID == "" {
		t.Fatalf("unexpected response: %+v", out)
	}
	if len(out.Outcomes) != 2 || out.Outcomes[0].DocumentID != "marzo.txt" || out.Outcomes[1].DocumentID != "text-1" {
		t.Errorf("outcomes: got %+v", out.Outcomes)
	}
	if out.Counts[models.CurrencySoles] != 1 || out.Counts[models.CurrencyDolares] != 1 {
		t.Errorf("counts: got %v", out.Counts)
	}
	if got := out.Records[models.CurrencySoles][0].Category; got != models.CategorySUNAT {
		t.Errorf("category: got %q", got)
	}

	req := httptest.NewRequest("GET", "/api/reports/"+out.ID+"?format=csv", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "movimientos_bancarios.csv") {
		t.Errorf("Content-Disposition: got %q", cd)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "DOLARES,text-1,,03/03,RETIRO CAJERO,-20.00,80.00,RETIRO") {
		t.Errorf("unexpected CSV: %s", body)
	}

	req = httptest.NewRequest("GET", "/api/reports/"+out.ID, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("xlsx: expected 200, got %d", resp.StatusCode)
	}
}

func TestReportNotFound(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/nope", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestReportEmptyLedger(t *testing.T) {
	app := setupTestApp()

	resp, err := app.Test(multipartRequest(t, map[string]string{"text": "sin moneda"}, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	out := decode(t, resp)
	if len(out.Outcomes) != 1 || out.Outcomes[0].Currency != models.CurrencyUnknown {
		t.Fatalf("outcomes: got %+v", out.Outcomes)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/reports/"+out.ID, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", resp.StatusCode)
	}
}

func TestProcessEndpointKeepsTwoDecimals(t *testing.T) {
	app := setupTestApp()

	text := "MONEDA: SOLES\n01/03 02/03 ABONO 1,200.00 5,400.50\n"
	resp, err := app.Test(multipartRequest(t, map[string]string{"text": text}, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{`"records":{`, `"amount":"1200.00"`, `"balance":"5400.50"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("response missing %s: %s", want, body)
		}
	}
}
