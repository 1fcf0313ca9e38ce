package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Role is the authorization role carried in the identity token custom claims
type Role string

const (
	// RoleAdmin manages master data and may delete any entity
	RoleAdmin Role = "admin"
	// RoleQA reviews submissions and raises audit findings
	RoleQA Role = "qa"
	// RoleUnit is a unit coordinator bound to one unit
	RoleUnit Role = "unit"
	// RoleViewer can only read dashboards
	RoleViewer Role = "viewer"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleQA, RoleUnit, RoleViewer:
		return true
	default:
		return false
	}
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return r, nil
}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   Role
	// UnitID is set only for RoleUnit
	UnitID types.UnitID
}

// NewAnonymousPrincipal returns the principal used when authentication is
// disabled for local development
func NewAnonymousPrincipal(role Role, unitID types.UnitID) *Principal {
	return &Principal{
		UserID: "anonymous",
		Email:  "anonymous@localhost",
		Name:   "Anonymous",
		Role:   role,
		UnitID: unitID,
	}
}

// IsStaff reports whether the principal is admin or QA
func (p *Principal) IsStaff() bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleQA)
}

// CanActForUnit reports whether the principal may write data owned by unitID.
// Staff may act for any unit, coordinators only for their own.
func (p *Principal) CanActForUnit(unitID types.UnitID) bool {
	if p == nil {
		return false
	}
	if p.IsStaff() {
		return true
	}
	return p.Role == RoleUnit && p.UnitID != "" && p.UnitID == unitID
}

// CanReadUnit reports whether the principal may read data owned by unitID.
// Coordinators are limited to their own unit; other roles read every unit.
func (p *Principal) CanReadUnit(unitID types.UnitID) bool {
	if p == nil || !p.Role.IsValid() {
		return false
	}
	if p.Role == RoleUnit {
		return p.UnitID != "" && p.UnitID == unitID
	}
	return true
}

// LogValue hides the email address in logs
func (p *Principal) LogValue() slog.Value {
	if p == nil {
		return slog.StringValue("<nil>")
	}
	return slog.GroupValue(
		slog.String("user_id", p.UserID),
		slog.String("role", string(p.Role)),
		slog.String("unit_id", string(p.UnitID)),
	)
}

type ctxPrincipalKey struct{}

// ContextWithPrincipal stores the principal in ctx
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxPrincipalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, or nil
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(ctxPrincipalKey{}).(*Principal)
	return p
}
