package auth_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
)

func TestPrincipal_CanActForUnit(t *testing.T) {
	admin := &auth.Principal{UserID: "a", Role: auth.RoleAdmin}
	qa := &auth.Principal{UserID: "q", Role: auth.RoleQA}
	coord := &auth.Principal{UserID: "c", Role: auth.RoleUnit, UnitID: "registrar"}
	unbound := &auth.Principal{UserID: "u", Role: auth.RoleUnit}
	viewer := &auth.Principal{UserID: "v", Role: auth.RoleViewer}

	gt.Bool(t, admin.CanActForUnit("library")).True()
	gt.Bool(t, qa.CanActForUnit("library")).True()
	gt.Bool(t, coord.CanActForUnit("registrar")).True()
	gt.Bool(t, coord.CanActForUnit("library")).False()
	gt.Bool(t, unbound.CanActForUnit("")).False()
	gt.Bool(t, viewer.CanActForUnit("registrar")).False()

	var nilPrincipal *auth.Principal
	gt.Bool(t, nilPrincipal.CanActForUnit("registrar")).False()
}

func TestPrincipal_CanReadUnit(t *testing.T) {
	qa := &auth.Principal{UserID: "q", Role: auth.RoleQA}
	coord := &auth.Principal{UserID: "c", Role: auth.RoleUnit, UnitID: "registrar"}
	unbound := &auth.Principal{UserID: "u", Role: auth.RoleUnit}
	viewer := &auth.Principal{UserID: "v", Role: auth.RoleViewer}
	unknown := &auth.Principal{UserID: "x", Role: auth.Role("root")}

	gt.Bool(t, qa.CanReadUnit("library")).True()
	gt.Bool(t, viewer.CanReadUnit("library")).True()
	gt.Bool(t, coord.CanReadUnit("registrar")).True()
	gt.Bool(t, coord.CanReadUnit("library")).False()
	gt.Bool(t, unbound.CanReadUnit("")).False()
	gt.Bool(t, unknown.CanReadUnit("library")).False()

	var nilPrincipal *auth.Principal
	gt.Bool(t, nilPrincipal.CanReadUnit("registrar")).False()
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	gt.Value(t, auth.PrincipalFromContext(ctx)).Nil()

	p := auth.NewAnonymousPrincipal(auth.RoleQA, "")
	ctx = auth.ContextWithPrincipal(ctx, p)
	got := auth.PrincipalFromContext(ctx)
	gt.Value(t, got).NotNil()
	gt.Value(t, got.Role).Equal(auth.RoleQA)
}

func TestParseRole(t *testing.T) {
	r, err := auth.ParseRole("viewer")
	gt.NoError(t, err)
	gt.Value(t, r).Equal(auth.RoleViewer)

	_, err = auth.ParseRole("root")
	gt.Error(t, err)
}
