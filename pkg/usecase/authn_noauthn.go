package usecase

import (
	"context"

	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// NoAuthnUseCase runs every request as a fixed principal (for development/testing)
type NoAuthnUseCase struct {
	role   auth.Role
	unitID types.UnitID
}

// NewNoAuthnUseCase creates a new NoAuthnUseCase acting with role, bound to unitID for the unit role
func NewNoAuthnUseCase(role auth.Role, unitID types.UnitID) *NoAuthnUseCase {
	return &NoAuthnUseCase{
		role:   role,
		unitID: unitID,
	}
}

// Authenticate ignores the token and returns the development principal
func (uc *NoAuthnUseCase) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	return auth.NewAnonymousPrincipal(uc.role, uc.unitID), nil
}

// IsNoAuthn returns true for NoAuthnUseCase
func (uc *NoAuthnUseCase) IsNoAuthn() bool {
	return true
}
