package api

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/shelf/pkg/catalog"
)

func TestNewMetrics_PrivateRegistries(t *testing.T) {
	// Each instance owns its registry, so creating several must not panic
	// on duplicate registration
	m1 := NewMetrics()
	m2 := NewMetrics()
	assert.NotSame(t, m1.Registry(), m2.Registry())
}

func TestMetrics_RecordCatalogOperation(t *testing.T) {
	m := NewMetrics()

	m.RecordCatalogOperation("add", true, time.Millisecond)
	m.RecordCatalogOperation("add", true, time.Millisecond)
	m.RecordCatalogOperation("add", false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.catalogOperationsTotal.WithLabelValues("add", statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogOperationsTotal.WithLabelValues("add", statusError)))
}

func TestMetrics_UpdateCatalogStats(t *testing.T) {
	m := NewMetrics()

	m.UpdateCatalogStats(catalog.Stats{DistinctTitles: 2, TotalCopies: 3, TotalValue: 40})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.catalogBooks))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.catalogCopies))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.catalogValue))
}

func TestMetrics_AuthAndHealth(t *testing.T) {
	m := NewMetrics()

	m.RecordAuthRequest(true)
	m.RecordAuthRequest(false)
	m.RecordHealthCheck(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.authRequestsTotal.WithLabelValues(statusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authRequestsTotal.WithLabelValues(statusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.healthChecksTotal.WithLabelValues(statusSuccess)))
}

func TestAPIKeyMiddleware_RecordsFailedAuth(t *testing.T) {
	m := NewMetrics()
	handler := apiKeyMiddleware("secret", m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, key := range []string{"", "wrong", "secret"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/books", nil)
		if key != "" {
			req.Header.Set("X-API-Key", key)
		}
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.authRequestsTotal.WithLabelValues(statusError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authRequestsTotal.WithLabelValues(statusSuccess)))
}

func TestMetrics_InstrumentHandler(t *testing.T) {
	m := NewMetrics()
	h := m.InstrumentHandler("GET", "/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/teapot", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/teapot", "418")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsInFlight.WithLabelValues("GET", "/teapot")))
}

func TestServer_MutationsUpdateMetrics(t *testing.T) {
	server, _ := setupTestServer(t, "")
	h := server.Router()

	code, _ := do(t, h, "POST", "/api/v1/books", bookBody("1234567890", "A", "", 12.5, 4))
	require.Equal(t, http.StatusCreated, code)

	m := server.metrics
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogBooks))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.catalogCopies))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.catalogValue))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogOperationsTotal.WithLabelValues("add", statusSuccess)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.persistenceFailuresTotal.WithLabelValues("add")))
}

func TestServer_PersistenceFailureMetric(t *testing.T) {
	server, _ := setupTestServer(t, filepath.Join(t.TempDir(), "missing", "book.txt"))

	code, _ := do(t, server.Router(), "POST", "/api/v1/books", bookBody("1234567890", "A", "", 1, 1))
	require.Equal(t, http.StatusCreated, code)

	assert.Equal(t, 1.0, testutil.ToFloat64(server.metrics.persistenceFailuresTotal.WithLabelValues("add")))
}
