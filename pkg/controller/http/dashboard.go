package http

import (
	"net/http"
	"time"

	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func dashboardHandler(uc *usecase.DashboardUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := scopeFilter(r)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		d, err := uc.Build(ctx, f)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, d)
	}
}

// nonComplianceHandler lists units missing reports in cycles that have
// already ended. ?year=, ?cycle= and ?unit_id= narrow the listing.
func nonComplianceHandler(uc *usecase.DashboardUseCase, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		year, err := queryInt(r, "year")
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		cycle, err := queryEnum(r, "cycle", types.Cycle.IsValid)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		entries, err := uc.NonCompliance(ctx, now(), compliance.Filter{
			UnitID: types.UnitID(r.URL.Query().Get("unit_id")),
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		items := make([]compliance.NonComplianceEntry, 0, len(entries))
		for _, e := range entries {
			if (year == 0 || e.Year == year) && (cycle == "" || e.Cycle == cycle) {
				items = append(items, e)
			}
		}
		writeJSON(ctx, w, http.StatusOK, listResponse[compliance.NonComplianceEntry]{Items: items})
	}
}
