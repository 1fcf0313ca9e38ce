package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Auth holds CLI flags for identity token verification
type Auth struct {
	projectID  string
	jwksURL    string
	skew       time.Duration
	noAuthRole string
	noAuthUnit string
}

func (x *Auth) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firebase-project-id",
			Usage:       "Firebase project ID that issues the identity tokens",
			Category:    "Auth",
			Sources:     cli.EnvVars("EOMS_FIREBASE_PROJECT_ID"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "jwks-url",
			Usage:       "Override the JWKS location used to verify identity tokens",
			Category:    "Auth",
			Sources:     cli.EnvVars("EOMS_JWKS_URL"),
			Destination: &x.jwksURL,
		},
		&cli.DurationFlag{
			Name:        "token-skew",
			Usage:       "Accepted clock skew for token lifetime checks",
			Category:    "Auth",
			Value:       10 * time.Second,
			Sources:     cli.EnvVars("EOMS_TOKEN_SKEW"),
			Destination: &x.skew,
		},
		&cli.StringFlag{
			Name:        "no-auth",
			Usage:       "Skip token verification and act as this role (admin, qa, unit, viewer). Development only",
			Category:    "Auth",
			Sources:     cli.EnvVars("EOMS_NO_AUTH"),
			Destination: &x.noAuthRole,
		},
		&cli.StringFlag{
			Name:        "no-auth-unit",
			Usage:       "Unit ID for --no-auth=unit",
			Category:    "Auth",
			Sources:     cli.EnvVars("EOMS_NO_AUTH_UNIT"),
			Destination: &x.noAuthUnit,
		},
	}
}

func (x Auth) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("jwks_url", x.jwksURL),
		slog.Duration("skew", x.skew),
		slog.String("no_auth", x.noAuthRole),
	)
}

// IsNoAuthMode returns true if token verification is skipped
func (x *Auth) IsNoAuthMode() bool {
	return x.noAuthRole != ""
}

// Configure returns the no-auth use case when --no-auth is set, otherwise a
// token verifying one.
func (x *Auth) Configure(ctx context.Context) (usecase.AuthUseCaseInterface, error) {
	if x.noAuthRole != "" {
		role, err := auth.ParseRole(x.noAuthRole)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid --no-auth role")
		}
		unitID := types.UnitID(x.noAuthUnit)
		if role == auth.RoleUnit {
			if err := unitID.Validate(); err != nil {
				return nil, goerr.Wrap(err, "--no-auth=unit requires a valid --no-auth-unit")
			}
		}
		if x.projectID != "" {
			slog.Warn("--no-auth is set, ignoring --firebase-project-id")
		}
		return usecase.NewNoAuthnUseCase(role, unitID), nil
	}

	if x.projectID == "" {
		return nil, goerr.New("--firebase-project-id is required unless --no-auth is set")
	}

	var opts []usecase.AuthOption
	if x.jwksURL != "" {
		opts = append(opts, usecase.WithJWKSURL(x.jwksURL))
	}
	if x.skew > 0 {
		opts = append(opts, usecase.WithAcceptableSkew(x.skew))
	}

	uc, err := usecase.NewAuthUseCase(ctx, x.projectID, opts...)
	if err != nil {
		return nil, err
	}
	return uc, nil
}
