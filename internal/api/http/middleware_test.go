package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maxelo/hr-portal/internal/observability"
	apperrors "github.com/maxelo/hr-portal/pkg/util"
)

func newMiddlewareApp() *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), time.Second)
	return app
}

func TestErrorResponseEnvelope(t *testing.T) {
	app := newMiddlewareApp()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return apperrors.NewInvalidCredentials()
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 401, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
}

func TestRequestCounterRecordsRenderedStatus(t *testing.T) {
	app := newMiddlewareApp()
	app.Get("/denied", func(c *fiber.Ctx) error {
		return apperrors.NewInvalidCredentials()
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/denied", nil))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 401, resp.StatusCode)

	got401 := testutil.ToFloat64(observability.RequestsTotal.WithLabelValues("/denied", "GET", "401"))
	got200 := testutil.ToFloat64(observability.RequestsTotal.WithLabelValues("/denied", "GET", "200"))
	assert.Equal(t, float64(1), got401, "the counter must carry the rendered status")
	assert.Equal(t, float64(0), got200)
}

func TestPanicRecoveredAsInternalError(t *testing.T) {
	app := newMiddlewareApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("unexpected")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, 500, resp.StatusCode)
	got500 := testutil.ToFloat64(observability.RequestsTotal.WithLabelValues("/boom", "GET", "500"))
	assert.Equal(t, float64(1), got500)
}
