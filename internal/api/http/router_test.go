package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-tickets/internal/api/http/handlers"
	"github.com/spec-kit/support-tickets/internal/classifier"
	"github.com/spec-kit/support-tickets/internal/events"
	"github.com/spec-kit/support-tickets/internal/observability"
	"github.com/spec-kit/support-tickets/internal/repository"
	"github.com/spec-kit/support-tickets/internal/service"
	"github.com/spec-kit/support-tickets/internal/validation"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	v, err := validation.New()
	require.NoError(t, err)
	deps := service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(),
		Validator:  v,
		Classifier: classifier.New(nil, logger, metrics),
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     logger,
	}
	ticketService := service.NewTicketService(deps)
	importService := service.NewImportService(deps, metrics)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:          handlers.NewHealthHandler("support-tickets", "test", nil),
		Tickets:         handlers.NewTicketsHandler(ticketService),
		Imports:         handlers.NewImportHandler(importService, 1<<20, false),
		Classifications: handlers.NewClassificationHandler(ticketService),
		Gatherer:        registry,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	decoded := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp, decoded
}

func uploadRequest(t *testing.T, filename, contentType, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/tickets/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func ticketBody() map[string]any {
	return map[string]any{
		"customer_id":    "CUST001",
		"customer_email": "jane@example.com",
		"customer_name":  "Jane Doe",
		"subject":        "Cannot login",
		"description":    "I forgot my password and I am locked out of my account",
		"metadata":       map[string]any{"source": "web_form"},
	}
}

func errorCode(body map[string]any) string {
	errBody, _ := body["error"].(map[string]any)
	code, _ := errBody["code"].(string)
	return code
}

func TestTicketCRUD(t *testing.T) {
	app := newTestApp(t)

	resp, created := doJSON(t, app, http.MethodPost, "/tickets", ticketBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "other", created["category"])
	assert.Equal(t, "medium", created["priority"])
	assert.Equal(t, "new", created["status"])
	assert.Equal(t, []any{}, created["tags"])
	assert.Nil(t, created["resolved_at"])
	assert.Nil(t, created["assigned_to"])

	resp, got := doJSON(t, app, http.MethodGet, "/tickets/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, created, got)

	resp, updated := doJSON(t, app, http.MethodPut, "/tickets/"+id, map[string]any{"status": "closed"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "closed", updated["status"])
	assert.NotNil(t, updated["resolved_at"])

	resp, list := doJSON(t, app, http.MethodGet, "/tickets?status=closed", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), list["total"])

	resp, list = doJSON(t, app, http.MethodGet, "/tickets?status=new", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), list["total"])
	assert.Equal(t, []any{}, list["tickets"])

	resp, deleted := doJSON(t, app, http.MethodDelete, "/tickets/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, id, deleted["id"])

	resp, missing := doJSON(t, app, http.MethodGet, "/tickets/"+id, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(missing))
}

func TestCreateTicketValidationError(t *testing.T) {
	app := newTestApp(t)
	body := ticketBody()
	body["customer_email"] = "nope"
	delete(body, "subject")

	resp, decoded := doJSON(t, app, http.MethodPost, "/tickets", body)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(decoded))

	details := decoded["error"].(map[string]any)["details"].(map[string]any)
	fieldErrs := details["errors"].([]any)
	require.Len(t, fieldErrs, 2)
	assert.Equal(t, "customer_email", fieldErrs[0].(map[string]any)["field"])
	assert.Equal(t, "subject", fieldErrs[1].(map[string]any)["field"])
}

func TestCreateTicketMalformedBody(t *testing.T) {
	app := newTestApp(t)
	resp, decoded := doJSON(t, app, http.MethodPost, "/tickets", `{"customer_id":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BAD_REQUEST", errorCode(decoded))
}

func TestAutoClassifyEndpoint(t *testing.T) {
	app := newTestApp(t)
	_, created := doJSON(t, app, http.MethodPost, "/tickets", ticketBody())
	id := created["id"].(string)

	resp, decoded := doJSON(t, app, http.MethodPost, "/tickets/"+id+"/auto-classify", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	ticket := decoded["ticket"].(map[string]any)
	classification := decoded["classification"].(map[string]any)
	assert.Equal(t, "account_access", ticket["category"])
	assert.Equal(t, "account_access", classification["category"])
	assert.Equal(t, []any{"login", "password", "locked out"}, classification["keywords_found"])

	resp, decoded = doJSON(t, app, http.MethodPost, "/tickets/nope/auto-classify", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(decoded))
}

func TestImportCSVUpload(t *testing.T) {
	app := newTestApp(t)
	content := "customer_id,customer_email,customer_name,subject,description\n" +
		"C1,c1@example.com,One,Cannot login,Forgot my password and I am locked out\n" +
		"C2,bad-email,Two,Hi,too short\n"

	resp, decoded := send(t, app, uploadRequest(t, "tickets.csv", "text/csv", content, map[string]string{"auto_classify": "true"}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), decoded["total"])
	assert.Equal(t, float64(1), decoded["successful"])
	assert.Equal(t, float64(1), decoded["failed"])
	errs := decoded["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, float64(3), errs[0].(map[string]any)["row"])

	_, list := doJSON(t, app, http.MethodGet, "/tickets?category=account_access", nil)
	assert.Equal(t, float64(1), list["total"])
}

func TestImportMalformedDocumentReturns400WithSummary(t *testing.T) {
	app := newTestApp(t)

	resp, decoded := send(t, app, uploadRequest(t, "tickets.json", "application/json", `{"tickets": [`, nil))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, float64(0), decoded["total"])
	assert.Equal(t, float64(1), decoded["failed"])
	errs := decoded["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, float64(0), errs[0].(map[string]any)["row"])
}

func TestImportRejectsUnsupportedAndMissingFile(t *testing.T) {
	app := newTestApp(t)

	resp, decoded := send(t, app, uploadRequest(t, "tickets.txt", "text/plain", "hello", nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UNSUPPORTED_FORMAT", errorCode(decoded))

	resp, decoded = send(t, app, uploadRequest(t, "", "", "", map[string]string{"auto_classify": "true"}))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(decoded))
}

func TestClassifyAndAuditEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, decoded := doJSON(t, app, http.MethodPost, "/classify", map[string]any{
		"subject":     "Production down",
		"description": "Critical outage for every customer",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "urgent", decoded["priority"])

	resp, decoded = doJSON(t, app, http.MethodPost, "/classify", map[string]any{})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(decoded))

	resp, decoded = doJSON(t, app, http.MethodGet, "/classifications?limit=5", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decoded["total"])

	_, decoded = doJSON(t, app, http.MethodGet, "/classifications?subject=production", nil)
	assert.Equal(t, float64(1), decoded["total"])
	_, decoded = doJSON(t, app, http.MethodGet, "/classifications?subject=billing", nil)
	assert.Equal(t, float64(0), decoded["total"])
}

func TestHealthMetricsAndUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	resp, decoded := doJSON(t, app, http.MethodGet, "/health/live", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", decoded["status"])

	resp, decoded = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "disabled", decoded["dependencies"].(map[string]any)["redis"])

	resp, decoded = doJSON(t, app, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(decoded))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "support_tickets_http_requests_total")
	assert.Contains(t, string(raw), "support_tickets_http_errors_total")
}
