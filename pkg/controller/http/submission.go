package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func listSubmissionsHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := submissionQuery(r)
		if err != nil {
			handleError(ctx, w, err)
			return
		}

		submissions, err := uc.List(ctx, q)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, newList(submissions, toSubmission))
	}
}

func submissionQuery(r *http.Request) (usecase.SubmissionQuery, error) {
	var q usecase.SubmissionQuery
	var err error

	if q.Year, err = queryInt(r, "year"); err != nil {
		return q, err
	}
	if q.Cycle, err = queryEnum(r, "cycle", types.Cycle.IsValid); err != nil {
		return q, err
	}
	if q.ReportType, err = queryEnum(r, "report_type", types.ReportType.IsValid); err != nil {
		return q, err
	}
	if q.Status, err = queryEnum(r, "status", types.SubmissionStatus.IsValid); err != nil {
		return q, err
	}
	q.UnitID = types.UnitID(r.URL.Query().Get("unit_id"))
	return q, nil
}

// createSubmissionHandler submits a new report, or stores it as pending when draft is set
func createSubmissionHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req submissionRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		in := usecase.SubmissionInput{
			UnitID:     types.UnitID(req.UnitID),
			CampusID:   types.CampusID(req.CampusID),
			Year:       req.Year,
			Cycle:      types.Cycle(req.Cycle),
			ReportType: types.ReportType(req.ReportType),
			RiskRating: types.RiskRating(req.RiskRating),
			Link:       req.Link,
			Title:      req.Title,
		}

		var (
			s   *model.Submission
			err error
		)
		if req.Draft {
			s, err = uc.SaveDraft(ctx, in)
		} else {
			s, err = uc.Submit(ctx, in)
		}
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toSubmission(s))
	}
}

func getSubmissionHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.Get(r.Context(), model.SubmissionID(chi.URLParam(r, "id")))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSubmission(s))
	}
}

func submitDraftHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := uc.SubmitDraft(r.Context(), model.SubmissionID(chi.URLParam(r, "id")))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSubmission(s))
	}
}

func approveSubmissionHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req reviewRequest
		if r.ContentLength != 0 {
			if err := decodeJSON(r, &req); err != nil {
				handleError(ctx, w, err)
				return
			}
		}

		s, err := uc.Approve(ctx, model.SubmissionID(chi.URLParam(r, "id")), req.Comment)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toSubmission(s))
	}
}

func rejectSubmissionHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req rejectRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		s, err := uc.Reject(ctx, model.SubmissionID(chi.URLParam(r, "id")), req.Comment)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toSubmission(s))
	}
}

func resubmitHandler(uc *usecase.SubmissionUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req resubmitRequest
		if err := decodeJSON(r, &req); err != nil {
			handleError(ctx, w, err)
			return
		}

		s, err := uc.Resubmit(ctx, model.SubmissionID(chi.URLParam(r, "id")), req.Link, req.Title)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toSubmission(s))
	}
}
