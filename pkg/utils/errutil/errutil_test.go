package errutil_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/utils/errutil"
)

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("nil error stays nil", func(t *testing.T) {
		gt.NoError(t, errutil.Handle(ctx, nil, "nothing"))
	})

	t.Run("returns the same error", func(t *testing.T) {
		base := errors.New("boom")
		err := goerr.Wrap(base, "failed to save", goerr.V("unit_id", "u-1"))
		got := errutil.Handle(ctx, err, "failed")
		gt.Bool(t, errors.Is(got, base)).True()
	})
}

func TestHandleHTTP(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		message string
		want    string
	}{
		{"custom message", http.StatusForbidden, "could not save", "could not save"},
		{"default status text", http.StatusInternalServerError, "", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			errutil.HandleHTTP(context.Background(), rec, goerr.New("denied"), tt.status, tt.message)

			gt.Value(t, rec.Code).Equal(tt.status)
			gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/json")

			var body map[string]string
			gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
			gt.Value(t, body["error"]).Equal(tt.want)
		})
	}
}
