package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrPermissionDenied", usecase.ErrPermissionDenied},
		{"ErrUnauthenticated", usecase.ErrUnauthenticated},
		{"ErrInvalidTransition", usecase.ErrInvalidTransition},
		{"ErrValidation", usecase.ErrValidation},
		{"ErrConfirmationMismatch", usecase.ErrConfirmationMismatch},
		{"ErrConfirmationExpired", usecase.ErrConfirmationExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_PermissionDeniedMessage(t *testing.T) {
	gt.Value(t, usecase.ErrPermissionDenied.Error()).Equal("could not save")
}

func TestValidationError(t *testing.T) {
	err := &usecase.ValidationError{Fields: map[string]string{
		"year": "must be between 2000 and 9999",
		"link": "is required",
	}}

	gt.Bool(t, errors.Is(err, usecase.ErrValidation)).True()
	gt.Bool(t, errors.Is(err, usecase.ErrInvalidTransition)).False()
	gt.Value(t, err.Error()).Equal("validation failed: link: is required, year: must be between 2000 and 9999")

	wrapped := goerr.Wrap(err, "failed to save draft")
	gt.Bool(t, errors.Is(wrapped, usecase.ErrValidation)).True()

	var ve *usecase.ValidationError
	gt.Bool(t, errors.As(wrapped, &ve)).True()
	gt.Value(t, ve.Fields["link"]).Equal("is required")
}
