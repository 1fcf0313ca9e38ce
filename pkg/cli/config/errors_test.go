package config_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/cli/config"
)

func TestConfigErrors_SentinelIdentification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		sentinelError error
		wantMatch     bool
	}{
		{
			name:          "ErrConfigNotFound can be identified",
			err:           goerr.Wrap(config.ErrConfigNotFound, "failed to load config"),
			sentinelError: config.ErrConfigNotFound,
			wantMatch:     true,
		},
		{
			name:          "ErrDuplicateID can be identified",
			err:           goerr.Wrap(config.ErrDuplicateID, "found duplicate", goerr.V(config.IDKey, "cs")),
			sentinelError: config.ErrDuplicateID,
			wantMatch:     true,
		},
		{
			name:          "ErrUnknownCampus can be identified",
			err:           goerr.Wrap(config.ErrUnknownCampus, "bad reference"),
			sentinelError: config.ErrUnknownCampus,
			wantMatch:     true,
		},
		{
			name:          "Different sentinel errors do not match",
			err:           goerr.Wrap(config.ErrConfigNotFound, "failed to load config"),
			sentinelError: config.ErrInvalidConfig,
			wantMatch:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched := errors.Is(tt.err, tt.sentinelError)
			gt.Value(t, matched).Equal(tt.wantMatch)
		})
	}
}

func TestConfigErrors_ContextExtraction(t *testing.T) {
	err := goerr.Wrap(config.ErrDuplicateID, "duplicate unit",
		goerr.V(config.SectionKey, "unit"),
		goerr.V(config.IDKey, "cs"))

	var ge *goerr.Error
	gt.Bool(t, errors.As(err, &ge)).True()
	gt.Value(t, ge.Values()[config.IDKey]).Equal(any("cs"))
	gt.Value(t, ge.Values()[config.SectionKey]).Equal(any("unit"))
}
