package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func TestCampusID_Validate(t *testing.T) {
	gt.NoError(t, types.CampusID("main").Validate())
	gt.NoError(t, types.CampusID("north-2").Validate())
	gt.Error(t, types.CampusID("").Validate())
	gt.Error(t, types.CampusID("Main Campus").Validate())
}

func TestUnitID_Validate(t *testing.T) {
	gt.NoError(t, types.UnitID("registrar").Validate())
	gt.Error(t, types.UnitID("-registrar").Validate())
	gt.Error(t, types.UnitID("reg_office").Validate())
}
