package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

// scopeFilter reads ?year=&cycle=&unit_id=. Dashboards and registries are per year, so year is required.
func scopeFilter(r *http.Request) (compliance.Filter, error) {
	var f compliance.Filter
	var err error

	if f.Year, err = queryInt(r, "year"); err != nil {
		return f, err
	}
	if f.Year == 0 {
		return f, &usecase.ValidationError{Fields: map[string]string{"year": "is required"}}
	}
	if f.Cycle, err = queryEnum(r, "cycle", types.Cycle.IsValid); err != nil {
		return f, err
	}
	f.UnitID = types.UnitID(r.URL.Query().Get("unit_id"))
	return f, nil
}

func listRisksHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := scopeFilter(r)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		risks, err := uc.List(ctx, f.Year, f.UnitID)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, newList(risks, toRisk))
	}
}

func registerRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req riskRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		risk, err := uc.Register(ctx, usecase.RiskInput{
			UnitID:      types.UnitID(req.UnitID),
			CampusID:    types.CampusID(req.CampusID),
			Year:        req.Year,
			Type:        types.RiskType(req.Type),
			Likelihood:  req.Likelihood,
			Consequence: req.Consequence,
			Description: req.Description,
			Treatment:   req.Treatment,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toRisk(risk))
	}
}

func getRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risk, err := uc.Get(r.Context(), model.RiskID(chi.URLParam(r, "id")))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toRisk(risk))
	}
}

func updateRiskStatusHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req riskStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		risk, err := uc.UpdateStatus(ctx, model.RiskID(chi.URLParam(r, "id")), types.RiskStatus(req.Status))
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toRisk(risk))
	}
}

func riskMatrixHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := scopeFilter(r)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		matrix, err := uc.Matrix(ctx, f)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, matrix)
	}
}

func riskFunnelHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		f, err := scopeFilter(r)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		funnel, err := uc.Funnel(ctx, f)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, listResponse[compliance.FunnelSeries]{Items: funnel})
	}
}
