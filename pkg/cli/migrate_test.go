package cli

import (
	"testing"

	"github.com/m-mizutani/gt"
)

func TestGetIndexConfig(t *testing.T) {
	t.Run("validates for fireconf", func(t *testing.T) {
		cfg := getIndexConfig("")
		gt.NoError(t, cfg.Validate())
		gt.A(t, cfg.Collections).Length(4)
	})

	t.Run("prefixes every collection", func(t *testing.T) {
		cfg := getIndexConfig("staging")
		gt.NoError(t, cfg.Validate())
		for _, col := range cfg.Collections {
			gt.S(t, col.Name).HasPrefix("staging_")
			gt.A(t, col.Indexes).Length(1)
		}
	})
}
