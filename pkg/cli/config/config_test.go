package config_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/cli/config"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func TestAuth_Configure(t *testing.T) {
	t.Run("no-auth mode", func(t *testing.T) {
		cfg := config.NewAuthForTest("", "qa", "")
		uc, err := cfg.Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.Bool(t, uc.IsNoAuthn()).True()

		p, err := uc.Authenticate(t.Context(), "")
		gt.NoError(t, err).Required()
		gt.Value(t, p.Role).Equal(auth.RoleQA)
	})

	t.Run("no-auth unit role needs a unit", func(t *testing.T) {
		cfg := config.NewAuthForTest("", "unit", "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err)
	})

	t.Run("no-auth unit role", func(t *testing.T) {
		cfg := config.NewAuthForTest("", "unit", "ccs")
		uc, err := cfg.Configure(t.Context())
		gt.NoError(t, err).Required()

		p, err := uc.Authenticate(t.Context(), "")
		gt.NoError(t, err).Required()
		gt.Value(t, string(p.UnitID)).Equal("ccs")
	})

	t.Run("unknown role", func(t *testing.T) {
		cfg := config.NewAuthForTest("", "root", "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err)
	})

	t.Run("project is required without no-auth", func(t *testing.T) {
		cfg := config.NewAuthForTest("", "", "")
		_, err := cfg.Configure(t.Context())
		gt.Error(t, err)
	})
}

func TestSlack_Configure(t *testing.T) {
	t.Run("disabled without token", func(t *testing.T) {
		opt, err := config.NewSlackForTest("", "C0123").Configure()
		gt.NoError(t, err)
		gt.Bool(t, opt == nil).True()
	})

	t.Run("disabled without channel", func(t *testing.T) {
		opt, err := config.NewSlackForTest("xoxb-test", "").Configure()
		gt.NoError(t, err)
		gt.Bool(t, opt == nil).True()
	})

	t.Run("enabled", func(t *testing.T) {
		opt, err := config.NewSlackForTest("xoxb-test", "C0123").Configure()
		gt.NoError(t, err)
		gt.Bool(t, opt != nil).True()
	})
}

func TestChat_Options(t *testing.T) {
	gt.Array(t, config.NewChatForTest(0, "", nil).Options()).Length(0)

	opts := config.NewChatForTest(5*time.Second, "ask QA office", []string{"drive.google.com"}).Options()
	gt.Array(t, opts).Length(3)

	// options must apply cleanly to the use case set
	uc := usecase.New(nil, opts...)
	gt.Value(t, uc.Chat).NotNil()
}

func TestRepository_Configure(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest("memory", "").Configure(t.Context())
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Close())
	})

	t.Run("firestore requires project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("firestore", "").Configure(t.Context())
		gt.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("mysql", "").Configure(t.Context())
		gt.Error(t, err)
	})
}
