package http

import (
	"net/http"

	"github.com/secmon-lab/eoms/pkg/usecase"
)

func requestDeletionHandler(uc *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req deletionRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		dr, err := uc.RequestDeletion(ctx, usecase.DeletionKind(req.Kind), req.ID)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, dr)
	}
}

func confirmDeletionHandler(uc *usecase.AdminUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req deletionConfirmRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		if err := uc.ConfirmDeletion(ctx, usecase.DeletionKind(req.Kind), req.ID, req.Phrase); err != nil {
			handleError(ctx, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
