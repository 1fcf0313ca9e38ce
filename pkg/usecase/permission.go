package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func requirePrincipal(ctx context.Context) (*auth.Principal, error) {
	p := auth.PrincipalFromContext(ctx)
	if p == nil || !p.Role.IsValid() {
		return nil, goerr.Wrap(ErrUnauthenticated, "no principal in context")
	}
	return p, nil
}

func requireStaff(ctx context.Context) (*auth.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsStaff() {
		return nil, goerr.Wrap(ErrPermissionDenied, "staff role required", goerr.V(RoleKey, p.Role))
	}
	return p, nil
}

func requireAdmin(ctx context.Context) (*auth.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if p.Role != auth.RoleAdmin {
		return nil, goerr.Wrap(ErrPermissionDenied, "admin role required", goerr.V(RoleKey, p.Role))
	}
	return p, nil
}

func requireUnitAccess(ctx context.Context, unitID types.UnitID) (*auth.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !p.CanActForUnit(unitID) {
		return nil, goerr.Wrap(ErrPermissionDenied, "principal cannot act for unit",
			goerr.V(RoleKey, p.Role), goerr.V(UnitIDKey, unitID))
	}
	return p, nil
}

func requireUnitRead(ctx context.Context, unitID types.UnitID) (*auth.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !p.CanReadUnit(unitID) {
		return nil, goerr.Wrap(ErrPermissionDenied, "principal cannot read unit",
			goerr.V(RoleKey, p.Role), goerr.V(UnitIDKey, unitID))
	}
	return p, nil
}
