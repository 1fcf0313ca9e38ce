package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func listCampusesHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campuses, err := uc.ListCampuses(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, newList(campuses, toCampus))
	}
}

func getCampusHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campus, err := uc.GetCampus(r.Context(), types.CampusID(chi.URLParam(r, "id")))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toCampus(campus))
	}
}

func putCampusHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req campusRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		campus, err := uc.PutCampus(ctx, &model.Campus{
			ID:   types.CampusID(chi.URLParam(r, "id")),
			Name: req.Name,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toCampus(campus))
	}
}

func listUnitsHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		units, err := uc.ListUnits(r.Context())
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, newList(units, toUnit))
	}
}

func getUnitHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unit, err := uc.GetUnit(r.Context(), types.UnitID(chi.URLParam(r, "id")))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toUnit(unit))
	}
}

func putUnitHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req unitRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		campusIDs := make([]types.CampusID, len(req.CampusIDs))
		for i, id := range req.CampusIDs {
			campusIDs[i] = types.CampusID(id)
		}

		unit, err := uc.PutUnit(ctx, &model.Unit{
			ID:        types.UnitID(chi.URLParam(r, "id")),
			Name:      req.Name,
			CampusIDs: campusIDs,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toUnit(unit))
	}
}

func listCyclesHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		year, err := queryInt(r, "year")
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		cycles, err := uc.ListCycles(ctx, year)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, newList(cycles, toCycle))
	}
}

func getCycleHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cycle, err := uc.GetCycle(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toCycle(cycle))
	}
}

func putCycleHandler(uc *usecase.MasterDataUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req cycleRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		cycle, err := uc.PutCycle(ctx, &model.Cycle{
			Year:    req.Year,
			Cycle:   types.Cycle(req.Cycle),
			Name:    req.Name,
			StartAt: req.StartAt,
			EndAt:   req.EndAt,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toCycle(cycle))
	}
}
