package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func listFindingsHandler(uc *usecase.FindingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		findings, err := uc.ListFindings(r.Context(), types.UnitID(r.URL.Query().Get("unit_id")))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, newList(findings, toFinding))
	}
}

func raiseFindingHandler(uc *usecase.FindingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req findingRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		finding, err := uc.RaiseFinding(ctx, usecase.FindingInput{
			UnitID:      types.UnitID(req.UnitID),
			CampusID:    types.CampusID(req.CampusID),
			Year:        req.Year,
			Kind:        types.FindingKind(req.Kind),
			Clause:      req.Clause,
			Description: req.Description,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toFinding(finding))
	}
}

func getFindingHandler(uc *usecase.FindingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		finding, err := uc.GetFinding(r.Context(), model.FindingID(chi.URLParam(r, "id")))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toFinding(finding))
	}
}

func listCAPsHandler(uc *usecase.FindingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caps, err := uc.ListCAPs(r.Context(), model.FindingID(chi.URLParam(r, "id")))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, newList(caps, toCAP))
	}
}

func submitCAPHandler(uc *usecase.FindingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req capRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		plan, err := uc.SubmitCAP(ctx, model.FindingID(chi.URLParam(r, "id")), usecase.CAPInput{
			RootCause:        req.RootCause,
			Correction:       req.Correction,
			CorrectiveAction: req.CorrectiveAction,
			TargetDate:       req.TargetDate,
		})
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toCAP(plan))
	}
}

func reviewCAPHandler(uc *usecase.FindingUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req capReviewRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		plan, err := uc.ReviewCAP(ctx, model.CAPID(chi.URLParam(r, "id")), req.Approve, req.Comment)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toCAP(plan))
	}
}
