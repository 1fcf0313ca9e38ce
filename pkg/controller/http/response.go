package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/secmon-lab/eoms/pkg/utils/errutil"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/secmon-lab/eoms/pkg/utils/safe"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report JSON field names rather than Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	enums := map[string]func(string) bool{
		"cycle":        func(s string) bool { return types.Cycle(s).IsValid() },
		"report_type":  func(s string) bool { return types.ReportType(s).IsValid() },
		"risk_rating":  func(s string) bool { return types.RiskRating(s).IsValid() },
		"risk_type":    func(s string) bool { return types.RiskType(s).IsValid() },
		"risk_status":  func(s string) bool { return types.RiskStatus(s).IsValid() },
		"finding_kind": func(s string) bool { return types.FindingKind(s).IsValid() },
	}
	for tag, ok := range enums {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return ok(fl.Field().String())
		}); err != nil {
			panic(err)
		}
	}
	return v
}

// decodeJSON reads the request body into dst and runs struct validation.
// The returned error is a *usecase.ValidationError for malformed input.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return goerr.Wrap(&usecase.ValidationError{
			Fields: map[string]string{"body": "must be a valid JSON object"},
		}, "failed to decode request body", goerr.V("cause", err.Error()))
	}

	if err := validate.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return goerr.Wrap(err, "failed to validate request")
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return &usecase.ValidationError{Fields: fields}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	case "url":
		return "must be a URL"
	case "cycle":
		return "must be first or final"
	case "report_type", "risk_rating", "risk_type", "risk_status", "finding_kind":
		return "is not a known value"
	default:
		return "is invalid"
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		logging.From(ctx).Error("failed to encode response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(ctx, w, append(body, '\n'))
}

// handleError maps use case errors to HTTP responses
func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve *usecase.ValidationError
	switch {
	case errors.As(err, &ve):
		logging.From(ctx).Warn("validation failed", "fields", ve.Fields)
		writeJSON(ctx, w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: ve.Fields})

	case errors.Is(err, model.ErrInvalidEntity), errors.Is(err, usecase.ErrValidation):
		fields := map[string]string{}
		var ge *goerr.Error
		if errors.As(err, &ge) {
			if f, ok := ge.Values()[model.FieldKey].(string); ok && f != "" {
				fields[f] = "is invalid"
			}
		}
		logging.From(ctx).Warn("invalid input", "error", err.Error())
		writeJSON(ctx, w, http.StatusBadRequest, validationResponse{Error: "validation failed", Fields: fields})

	case errors.Is(err, usecase.ErrUnauthenticated):
		errutil.HandleHTTP(ctx, w, err, http.StatusUnauthorized, "authentication required")

	case errors.Is(err, usecase.ErrPermissionDenied):
		errutil.HandleHTTP(ctx, w, err, http.StatusForbidden, usecase.ErrPermissionDenied.Error())

	case errors.Is(err, model.ErrNotFound):
		errutil.HandleHTTP(ctx, w, err, http.StatusNotFound, "not found")

	case errors.Is(err, usecase.ErrInvalidTransition):
		errutil.HandleHTTP(ctx, w, err, http.StatusConflict, "invalid status transition")

	case errors.Is(err, usecase.ErrConfirmationMismatch), errors.Is(err, usecase.ErrConfirmationExpired):
		errutil.HandleHTTP(ctx, w, err, http.StatusConflict, "confirmation phrase mismatch or expired")

	default:
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError, "internal server error")
	}
}

// queryInt parses an optional integer query parameter. Missing yields 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &usecase.ValidationError{Fields: map[string]string{name: "must be a number"}}
	}
	return n, nil
}

// queryEnum reads an optional enumerated query parameter
func queryEnum[T ~string](r *http.Request, name string, valid func(T) bool) (T, error) {
	v := T(r.URL.Query().Get(name))
	if v != "" && !valid(v) {
		return "", &usecase.ValidationError{Fields: map[string]string{name: "is not a known value"}}
	}
	return v, nil
}
