package http

import (
	"net/http"

	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

const defaultHistoryLimit = 50

func chatHandler(uc *usecase.ChatUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req chatRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		// A model failure is not an error here: the answer carries the fallback message
		answer, err := uc.Ask(ctx, req.Query)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, answer)
	}
}

func chatHistoryHandler(uc *usecase.ChatUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit, err := queryInt(r, "limit")
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		if limit <= 0 {
			limit = defaultHistoryLimit
		}

		logs, err := uc.History(ctx, limit)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, newList(logs, toChatLog))
	}
}

func validateLinkHandler(uc *usecase.LinkUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req linkRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		check, err := uc.Validate(ctx, req.URL, types.ReportType(req.ReportType), req.Title)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, check)
	}
}
