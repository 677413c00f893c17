package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tokobuku/internal/config"
	"tokobuku/internal/models"
	"tokobuku/internal/repositories"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:        "0",
		Env:         "test",
		JWTSecret:   "test_jwt_secret",
		CORSOrigins: "*",
		SeedItems:   true,
		Store:       config.StoreConfig{Driver: config.DriverMemory},
	}
}

func TestNewApp_ServesSeededCatalog(t *testing.T) {
	ctx := context.Background()
	a, err := newApp(ctx, testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = a.Close(ctx) }()
	assert.Nil(t, a.mq)

	resp, err := a.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = a.app.Test(httptest.NewRequest(http.MethodGet, "/api/items", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var items []models.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	assert.Len(t, items, 3)
}

func TestNewApp_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = "cassandra"

	_, err := newApp(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSeedItems_SkipsNonEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockItemRepository()
	require.NoError(t, repo.Create(ctx, &models.Item{Name: "Existing"}))

	require.NoError(t, seedItems(ctx, repo, zap.NewNop()))

	items, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Existing", items[0].Name)
}

func TestLogOrderEvent(t *testing.T) {
	handler := logOrderEvent(zap.NewNop())
	assert.NoError(t, handler(context.Background(), models.OrderEvent{Type: models.EventOrderPaid}))
}
