package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

// MasterDataFile is the TOML layout of the campus, unit and cycle master data
//
//	[[campus]]
//	id = "main"
//	name = "Main Campus"
//
//	[[unit]]
//	id = "cs"
//	name = "College of Computer Studies"
//	campuses = ["main"]
//
//	[[cycle]]
//	year = 2025
//	cycle = "first"
//	start = 2025-01-01
//	end = 2025-06-30
type MasterDataFile struct {
	Campuses []Campus `toml:"campus"`
	Units    []Unit   `toml:"unit"`
	Cycles   []Cycle  `toml:"cycle"`
}

// Campus represents a campus entry
type Campus struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Unit represents an organizational unit entry
type Unit struct {
	ID       string   `toml:"id"`
	Name     string   `toml:"name"`
	Campuses []string `toml:"campuses"`
}

// Cycle represents a submission window. end is inclusive: the cycle closes
// at the end of that day (UTC).
type Cycle struct {
	Year  int             `toml:"year"`
	Cycle string          `toml:"cycle"`
	Name  string          `toml:"name"`
	Start *toml.LocalDate `toml:"start"`
	End   *toml.LocalDate `toml:"end"`
}

func (c *Campus) toModel() *model.Campus {
	return &model.Campus{ID: types.CampusID(c.ID), Name: c.Name}
}

func (u *Unit) toModel() *model.Unit {
	ids := make([]types.CampusID, len(u.Campuses))
	for i, id := range u.Campuses {
		ids[i] = types.CampusID(id)
	}
	return &model.Unit{ID: types.UnitID(u.ID), Name: u.Name, CampusIDs: ids}
}

func (c *Cycle) toModel() *model.Cycle {
	m := &model.Cycle{
		Year:  c.Year,
		Cycle: types.Cycle(c.Cycle),
		Name:  c.Name,
	}
	if c.Start != nil {
		m.StartAt = c.Start.AsTime(time.UTC)
	}
	if c.End != nil {
		m.EndAt = c.End.AsTime(time.UTC).Add(24*time.Hour - time.Second)
	}
	return m
}

// Validate checks entries and cross references
func (f *MasterDataFile) Validate() error {
	campusIDs := make(map[string]bool)
	for i, c := range f.Campuses {
		if err := c.toModel().Validate(); err != nil {
			return goerr.Wrap(err, "invalid campus", goerr.V(SectionKey, "campus"), goerr.V(IndexKey, i))
		}
		if campusIDs[c.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate campus ID", goerr.V(SectionKey, "campus"), goerr.V(IDKey, c.ID))
		}
		campusIDs[c.ID] = true
	}

	unitIDs := make(map[string]bool)
	for i, u := range f.Units {
		if u.Name == "" {
			return goerr.Wrap(ErrMissingName, "unit name is required", goerr.V(SectionKey, "unit"), goerr.V(IDKey, u.ID))
		}
		if err := u.toModel().Validate(); err != nil {
			return goerr.Wrap(err, "invalid unit", goerr.V(SectionKey, "unit"), goerr.V(IndexKey, i))
		}
		if unitIDs[u.ID] {
			return goerr.Wrap(ErrDuplicateID, "duplicate unit ID", goerr.V(SectionKey, "unit"), goerr.V(IDKey, u.ID))
		}
		unitIDs[u.ID] = true

		for _, cid := range u.Campuses {
			if !campusIDs[cid] {
				return goerr.Wrap(ErrUnknownCampus, "unit refers to a campus not in the file",
					goerr.V(IDKey, u.ID), goerr.V("campus_id", cid))
			}
		}
	}

	cycleIDs := make(map[string]bool)
	for i, c := range f.Cycles {
		m := c.toModel()
		if err := m.Validate(); err != nil {
			return goerr.Wrap(err, "invalid cycle", goerr.V(SectionKey, "cycle"), goerr.V(IndexKey, i))
		}
		id := model.CycleID(m.Year, m.Cycle)
		if cycleIDs[id] {
			return goerr.Wrap(ErrDuplicateID, "duplicate cycle", goerr.V(SectionKey, "cycle"), goerr.V(IDKey, id))
		}
		cycleIDs[id] = true
	}

	return nil
}

// ToMasterData converts the file to the entities the seed import takes
func (f *MasterDataFile) ToMasterData() *usecase.MasterData {
	data := &usecase.MasterData{
		Campuses: make([]*model.Campus, len(f.Campuses)),
		Units:    make([]*model.Unit, len(f.Units)),
		Cycles:   make([]*model.Cycle, len(f.Cycles)),
	}
	for i := range f.Campuses {
		data.Campuses[i] = f.Campuses[i].toModel()
	}
	for i := range f.Units {
		data.Units[i] = f.Units[i].toModel()
	}
	for i := range f.Cycles {
		data.Cycles[i] = f.Cycles[i].toModel()
	}
	return data
}

// LoadMasterData loads and validates master data from a TOML file
func LoadMasterData(path string) (*MasterDataFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "master data file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read master data file", goerr.V(ConfigPathKey, path))
	}

	var file MasterDataFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML master data",
			goerr.V(ConfigPathKey, path), goerr.V("cause", err.Error()))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "master data validation failed", goerr.V(ConfigPathKey, path))
	}

	return &file, nil
}
