package routes

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/controllers"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/models"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/responses"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/services"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/parser"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/search"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubIndex struct {
	seeded int
}

func (s *stubIndex) BuildIndexes() error { return nil }

func (s *stubIndex) SeedData(units []models.AdminUnit) error {
	s.seeded += len(units)
	return nil
}

type testServer struct {
	router *gin.Engine
	index  *stubIndex
	units  int
}

func newTestServer(t *testing.T, checks map[string]controllers.HealthCheck) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ds, err := resources.Default(zap.NewNop())
	require.NoError(t, err)
	p, err := parser.New(ds, parser.DefaultOptions(), zap.NewNop())
	require.NoError(t, err)

	index := &stubIndex{}
	units := search.UnitsFromAliases(ds.RegionAliases(), ds.Version())
	addressService := services.NewAddressService(p, services.NewMemoryCacheService(0), nil, false, nil)
	adminService := services.NewAdminService(index, nil, nil)

	router := gin.New()
	SetupAllRoutes(router,
		controllers.NewAddressController(addressService, checks, nil),
		controllers.NewAdminController(adminService, addressService, units, nil),
		nil)
	return &testServer{router: router, index: index, units: len(units)}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestParseAddress(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/v1/addresses/parse", `{"address": "12 lê lợi, p1, q3"}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[responses.ParseAddressResponse](t, w)
	assert.False(t, resp.CacheHit)
	assert.Equal(t, models.StatusMatched, resp.Result.Status)
	assert.Equal(t, []string{"quận 3", "phường 1"}, resp.Result.AdminPath)
	assert.NotEmpty(t, resp.DictionaryVersion)

	w = s.do(http.MethodPost, "/v1/addresses/parse", `{"address": "12 lê lợi, p1, q3"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[responses.ParseAddressResponse](t, w).CacheHit)
}

func TestParseAddress_BadRequest(t *testing.T) {
	s := newTestServer(t, nil)

	testCases := []struct {
		name string
		body string
		code string
	}{
		{name: "Thiếu address", body: `{}`, code: "INVALID_REQUEST"},
		{name: "JSON hỏng", body: `{"address":`, code: "INVALID_REQUEST"},
		{name: "Chỉ có khoảng trắng", body: `{"address": "   "}`, code: "EMPTY_ADDRESS"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/v1/addresses/parse", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.code, decode[responses.ErrorResponse](t, w).Error)
		})
	}
}

func TestBatchJob(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/v1/addresses/jobs", `{"addresses": ["12 lê lợi, p1, q3", "xyz", "quận 1, tp. hồ chí minh"]}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	job := decode[responses.BatchParseResponse](t, w)
	require.NotEmpty(t, job.JobID)
	assert.Equal(t, 3, job.TotalAddresses)

	base := "/v1/addresses/jobs/" + job.JobID
	require.Eventually(t, func() bool {
		w := s.do(http.MethodGet, base+"/status", "")
		return w.Code == http.StatusOK && decode[responses.JobStatusResponse](t, w).Status == responses.JobStatusDone
	}, 5*time.Second, 10*time.Millisecond)

	t.Run("JSON", func(t *testing.T) {
		w := s.do(http.MethodGet, base+"/results", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Success bool                   `json:"success"`
			Data    []models.AddressResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.Len(t, resp.Data, 3)
		assert.Equal(t, "xyz", resp.Data[1].Raw)
	})

	t.Run("NDJSON", func(t *testing.T) {
		w := s.do(http.MethodGet, base+"/results?format=ndjson", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/x-ndjson", w.Header().Get("Content-Type"))
		assert.Equal(t, 3, countLines(t, w.Body))
	})

	t.Run("NDJSON gzip", func(t *testing.T) {
		w := s.do(http.MethodGet, base+"/results?format=ndjson&gzip=1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

		zr, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, 3, countLines(t, zr))
	})
}

func countLines(t *testing.T, r io.Reader) int {
	t.Helper()
	n := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var result models.AddressResult
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &result))
		n++
	}
	require.NoError(t, scanner.Err())
	return n
}

func TestJobNotFound(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/v1/addresses/jobs/missing/status", "/v1/addresses/jobs/missing/results"} {
		w := s.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, "JOB_NOT_FOUND", decode[responses.ErrorResponse](t, w).Error)
	}
}

func TestBatchJob_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(http.MethodPost, "/v1/addresses/jobs", `{"addresses": []}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, nil)
	s.do(http.MethodPost, "/v1/addresses/parse", `{"address": "12 lê lợi, p1, q3"}`)

	t.Run("Stats", func(t *testing.T) {
		w := s.do(http.MethodGet, "/v1/admin/stats", "")
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[responses.AdminStatsResponse](t, w)
		assert.Equal(t, int64(1), stats.TotalProcessed)
		assert.Equal(t, 1, stats.ParserCacheSize)
	})

	t.Run("Invalidate", func(t *testing.T) {
		w := s.do(http.MethodPost, "/v1/admin/cache/invalidate", `{"all": true}`)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[responses.InvalidateCacheResponse](t, w)
		assert.Equal(t, int64(1), resp.Deleted)
		assert.Equal(t, 1, resp.ParserPurged)
	})

	t.Run("Seed dry run", func(t *testing.T) {
		w := s.do(http.MethodPost, "/v1/admin/gazetteer/seed?dry_run=true", `{}`)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[responses.SeedGazetteerResponse](t, w)
		assert.True(t, resp.DryRun)
		assert.True(t, resp.ValidationPassed, resp.Warnings)
		assert.Equal(t, s.units, resp.UnitsProcessed)
		assert.Zero(t, s.index.seeded)
	})

	t.Run("Seed", func(t *testing.T) {
		w := s.do(http.MethodPost, "/v1/admin/gazetteer/seed", `{"rebuild_indexes": true}`)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[responses.SeedGazetteerResponse](t, w)
		assert.Equal(t, 2, resp.IndexesBuilt)
		assert.Equal(t, s.units, s.index.seeded)
	})

	t.Run("Seed persist không có MongoDB", func(t *testing.T) {
		w := s.do(http.MethodPost, "/v1/admin/gazetteer/seed", `{"persist": true}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("Export", func(t *testing.T) {
		w := s.do(http.MethodGet, "/v1/admin/export/admin_units", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestHealthRoutes(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		s := newTestServer(t, map[string]controllers.HealthCheck{
			"cache": func(ctx context.Context) error { return nil },
		})
		w := s.do(http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[responses.HealthCheckResponse](t, w)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "healthy", resp.Services["cache"])
	})

	t.Run("Degraded", func(t *testing.T) {
		s := newTestServer(t, map[string]controllers.HealthCheck{
			"gazetteer": func(ctx context.Context) error { return errors.New("timeout") },
		})
		w := s.do(http.MethodGet, "/v1/health", "")
		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[responses.HealthCheckResponse](t, w)
		assert.Equal(t, "degraded", resp.Status)
		assert.Contains(t, resp.Services["gazetteer"], "timeout")
	})

	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/live", "").Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/docs", "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/nope", "").Code)
}
