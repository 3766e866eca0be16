package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAccountDelete_RequiresLogin(t *testing.T) {
	app := fiber.New()
	app.Post("/api/v1/account/delete", HandleAccountDelete)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/delete",
		strings.NewReader(`{"confirmationPhrase":"EXCLUIR MINHA CONTA"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHandleTrialActivate_RequiresLogin(t *testing.T) {
	app := fiber.New()
	app.Post("/api/v1/trial/activate", HandleTrialActivate)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trial/activate", nil)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDeleteConfirmationPhrase_Exact(t *testing.T) {
	// The phrase is compared verbatim; any variation must not match.
	assert.Equal(t, "EXCLUIR MINHA CONTA", DeleteConfirmationPhrase)
	assert.NotEqual(t, strings.ToLower(DeleteConfirmationPhrase), DeleteConfirmationPhrase)
}
