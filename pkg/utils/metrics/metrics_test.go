package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/secmon-lab/eoms/pkg/utils/metrics"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Get("/api/units/{unitID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/units/{unitID}", "418"))

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/units/"+id, nil))
		gt.Value(t, rec.Code).Equal(http.StatusTeapot)
	}

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/units/{unitID}", "418"))
	gt.Value(t, after-before).Equal(float64(2))
}

func TestGauges(t *testing.T) {
	metrics.SetNonCompliantUnits(4)
	gt.Value(t, testutil.ToFloat64(metrics.NonCompliantUnits)).Equal(float64(4))

	metrics.SetCampusCompliance("main", 2025, 62.5)
	gt.Value(t, testutil.ToFloat64(metrics.CampusCompliancePercent.WithLabelValues("main", "2025"))).Equal(62.5)
}
