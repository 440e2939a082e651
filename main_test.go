package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"catalog/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func testConfig(driver, dsn string) *config.Config {
	return &config.Config{
		Region:      "us-west-2",
		TableName:   "products-table",
		Port:        8081,
		StoreDriver: driver,
		DatabaseDSN: dsn,
		BodyLimit:   1 << 20,
	}
}

func TestNewAppServesProducts(t *testing.T) {
	drivers := map[string]*config.Config{
		"memory": testConfig(config.DriverMemory, ""),
		"sqlite": testConfig(config.DriverSQLite, "file:main_test?mode=memory&cache=shared"),
	}

	for name, cfg := range drivers {
		t.Run(name, func(t *testing.T) {
			app, cleanup, err := NewApp(context.Background(), cfg)
			require.NoError(t, err)
			defer cleanup()

			req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(
				`{"product_name":"Widget","price":"9.99","brand_name":"Acme","quantity_available":5}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusCreated, resp.StatusCode)

			req = httptest.NewRequest(http.MethodGet, "/products", nil)
			resp, err = app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var products []map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
			require.Len(t, products, 1)
			assert.Equal(t, "Widget", products[0]["product_name"])
			assert.Equal(t, 9.99, products[0]["price"])
		})
	}
}

func TestNewAppWithAWSCollaborators(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg := testConfig(config.DriverDynamoDB, "")
	cfg.BucketName = "catalog-images"
	cfg.ImageMaxDimension = 512

	app, cleanup, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/form", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
