package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/vitrina-api/internal/interfaces/http"
	"github.com/jhoicas/vitrina-api/pkg/logger"
)

func buildLoggedApp(out *bytes.Buffer) *fiber.App {
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.New(logger.Config{Env: "production", Level: "info", Output: out})))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(apphttp.GetRequestID(c))
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nada")
	})
	return app
}

func TestRequestLogger_GeneraID(t *testing.T) {
	var out bytes.Buffer
	app := buildLoggedApp(&out)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	id := resp.Header.Get(apphttp.HeaderRequestID)
	assert.NotEmpty(t, id)
	assert.Contains(t, out.String(), `"request_id":"`+id+`"`)
	assert.Contains(t, out.String(), `"status":200`)
}

func TestRequestLogger_RespetaIDEntranteYStatusDeError(t *testing.T) {
	var out bytes.Buffer
	app := buildLoggedApp(&out)

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(apphttp.HeaderRequestID, "abc-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(apphttp.HeaderRequestID))
	assert.Contains(t, out.String(), `"status":404`)
}
