package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type campusDocument struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type unitDocument struct {
	ID        string    `firestore:"id"`
	Name      string    `firestore:"name"`
	CampusIDs []string  `firestore:"campus_ids"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type cycleDocument struct {
	ID        string    `firestore:"id"`
	Year      int       `firestore:"year"`
	Cycle     string    `firestore:"cycle"`
	Name      string    `firestore:"name"`
	StartAt   time.Time `firestore:"start_at"`
	EndAt     time.Time `firestore:"end_at"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

func toCampusDocument(c *model.Campus) *campusDocument {
	return &campusDocument{
		ID:        string(c.ID),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCampusModel(doc *campusDocument) *model.Campus {
	return &model.Campus{
		ID:        types.CampusID(doc.ID),
		Name:      doc.Name,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func toUnitDocument(u *model.Unit) *unitDocument {
	campusIDs := make([]string, len(u.CampusIDs))
	for i, id := range u.CampusIDs {
		campusIDs[i] = string(id)
	}
	return &unitDocument{
		ID:        string(u.ID),
		Name:      u.Name,
		CampusIDs: campusIDs,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUnitModel(doc *unitDocument) *model.Unit {
	campusIDs := make([]types.CampusID, len(doc.CampusIDs))
	for i, id := range doc.CampusIDs {
		campusIDs[i] = types.CampusID(id)
	}
	return &model.Unit{
		ID:        types.UnitID(doc.ID),
		Name:      doc.Name,
		CampusIDs: campusIDs,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func toCycleDocument(c *model.Cycle) *cycleDocument {
	return &cycleDocument{
		ID:        c.ID,
		Year:      c.Year,
		Cycle:     string(c.Cycle),
		Name:      c.Name,
		StartAt:   c.StartAt,
		EndAt:     c.EndAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCycleModel(doc *cycleDocument) *model.Cycle {
	return &model.Cycle{
		ID:        doc.ID,
		Year:      doc.Year,
		Cycle:     types.Cycle(doc.Cycle),
		Name:      doc.Name,
		StartAt:   doc.StartAt,
		EndAt:     doc.EndAt,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// createdAt returns the stored creation time of a document, or now when it
// does not exist yet
func createdAt(ctx context.Context, ref *firestore.DocumentRef, now time.Time) (time.Time, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return now, nil
		}
		return time.Time{}, goerr.Wrap(err, "failed to get document", goerr.V("path", ref.Path))
	}
	v, err := snap.DataAt("created_at")
	if err != nil {
		return now, nil
	}
	if t, ok := v.(time.Time); ok && !t.IsZero() {
		return t, nil
	}
	return now, nil
}

type campusRepository struct {
	base
}

func (r *campusRepository) Put(ctx context.Context, campus *model.Campus) (*model.Campus, error) {
	ref := r.col(CampusesCollection).Doc(string(campus.ID))
	now := time.Now().UTC()
	created, err := createdAt(ctx, ref, now)
	if err != nil {
		return nil, err
	}

	stored := *campus
	stored.CreatedAt = created
	stored.UpdatedAt = now
	if _, err := ref.Set(ctx, toCampusDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to put campus", goerr.V("id", campus.ID))
	}
	return &stored, nil
}

func (r *campusRepository) Get(ctx context.Context, id types.CampusID) (*model.Campus, error) {
	snap, err := r.col(CampusesCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "campus not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get campus", goerr.V("id", id))
	}

	var doc campusDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal campus", goerr.V("id", id))
	}
	return toCampusModel(&doc), nil
}

func (r *campusRepository) List(ctx context.Context) ([]*model.Campus, error) {
	iter := r.col(CampusesCollection).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var campuses []*model.Campus
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate campuses")
		}

		var doc campusDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal campus", goerr.V("id", snap.Ref.ID))
		}
		campuses = append(campuses, toCampusModel(&doc))
	}
	return campuses, nil
}

func (r *campusRepository) Delete(ctx context.Context, id types.CampusID) error {
	return deleteExisting(ctx, r.col(CampusesCollection).Doc(string(id)), "campus")
}

type unitRepository struct {
	base
}

func (r *unitRepository) Put(ctx context.Context, unit *model.Unit) (*model.Unit, error) {
	ref := r.col(UnitsCollection).Doc(string(unit.ID))
	now := time.Now().UTC()
	created, err := createdAt(ctx, ref, now)
	if err != nil {
		return nil, err
	}

	stored := unit.Clone()
	stored.CreatedAt = created
	stored.UpdatedAt = now
	if _, err := ref.Set(ctx, toUnitDocument(stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to put unit", goerr.V("id", unit.ID))
	}
	return stored, nil
}

func (r *unitRepository) Get(ctx context.Context, id types.UnitID) (*model.Unit, error) {
	snap, err := r.col(UnitsCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "unit not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get unit", goerr.V("id", id))
	}

	var doc unitDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal unit", goerr.V("id", id))
	}
	return toUnitModel(&doc), nil
}

func (r *unitRepository) List(ctx context.Context) ([]*model.Unit, error) {
	iter := r.col(UnitsCollection).OrderBy("id", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var units []*model.Unit
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate units")
		}

		var doc unitDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal unit", goerr.V("id", snap.Ref.ID))
		}
		units = append(units, toUnitModel(&doc))
	}
	return units, nil
}

func (r *unitRepository) Delete(ctx context.Context, id types.UnitID) error {
	return deleteExisting(ctx, r.col(UnitsCollection).Doc(string(id)), "unit")
}

type cycleRepository struct {
	base
}

func (r *cycleRepository) Put(ctx context.Context, cycle *model.Cycle) (*model.Cycle, error) {
	stored := *cycle
	stored.ID = model.CycleID(cycle.Year, cycle.Cycle)

	ref := r.col(CyclesCollection).Doc(stored.ID)
	now := time.Now().UTC()
	created, err := createdAt(ctx, ref, now)
	if err != nil {
		return nil, err
	}
	stored.CreatedAt = created
	stored.UpdatedAt = now

	if _, err := ref.Set(ctx, toCycleDocument(&stored)); err != nil {
		return nil, goerr.Wrap(err, "failed to put cycle", goerr.V("id", stored.ID))
	}
	return &stored, nil
}

func (r *cycleRepository) Get(ctx context.Context, id string) (*model.Cycle, error) {
	snap, err := r.col(CyclesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "cycle not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get cycle", goerr.V("id", id))
	}

	var doc cycleDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal cycle", goerr.V("id", id))
	}
	return toCycleModel(&doc), nil
}

func (r *cycleRepository) List(ctx context.Context) ([]*model.Cycle, error) {
	return r.query(ctx, r.col(CyclesCollection).OrderBy("id", firestore.Asc))
}

func (r *cycleRepository) ListByYear(ctx context.Context, year int) ([]*model.Cycle, error) {
	return r.query(ctx, r.col(CyclesCollection).Where("year", "==", year))
}

func (r *cycleRepository) query(ctx context.Context, q firestore.Query) ([]*model.Cycle, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var cycles []*model.Cycle
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cycles")
		}

		var doc cycleDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal cycle", goerr.V("id", snap.Ref.ID))
		}
		cycles = append(cycles, toCycleModel(&doc))
	}
	return cycles, nil
}

func (r *cycleRepository) Delete(ctx context.Context, id string) error {
	return deleteExisting(ctx, r.col(CyclesCollection).Doc(id), "cycle")
}

// deleteExisting deletes a document and returns ErrNotFound when it is absent
func deleteExisting(ctx context.Context, ref *firestore.DocumentRef, entity string) error {
	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, entity+" not found", goerr.V("id", ref.ID))
		}
		return goerr.Wrap(err, "failed to delete "+entity, goerr.V("id", ref.ID))
	}
	return nil
}

// ImportMasterData writes campuses, units and cycles in transactions of at
// most maxWritesPerTransaction documents. Existing documents are replaced.
func (f *Firestore) ImportMasterData(ctx context.Context, campuses []*model.Campus, units []*model.Unit, cycles []*model.Cycle) error {
	type write struct {
		ref *firestore.DocumentRef
		doc any
	}

	now := time.Now().UTC()
	var writes []write
	for _, c := range campuses {
		stored := *c
		stored.CreatedAt, stored.UpdatedAt = now, now
		writes = append(writes, write{f.campus.col(CampusesCollection).Doc(string(c.ID)), toCampusDocument(&stored)})
	}
	for _, u := range units {
		stored := u.Clone()
		stored.CreatedAt, stored.UpdatedAt = now, now
		writes = append(writes, write{f.unit.col(UnitsCollection).Doc(string(u.ID)), toUnitDocument(stored)})
	}
	for _, c := range cycles {
		stored := *c
		stored.ID = model.CycleID(c.Year, c.Cycle)
		stored.CreatedAt, stored.UpdatedAt = now, now
		writes = append(writes, write{f.cycle.col(CyclesCollection).Doc(stored.ID), toCycleDocument(&stored)})
	}

	for start := 0; start < len(writes); start += maxWritesPerTransaction {
		end := min(start+maxWritesPerTransaction, len(writes))
		chunk := writes[start:end]

		err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			for _, w := range chunk {
				if err := tx.Set(w.ref, w.doc); err != nil {
					return goerr.Wrap(err, "failed to set document", goerr.V("path", w.ref.Path))
				}
			}
			return nil
		})
		if err != nil {
			return goerr.Wrap(err, "failed to import master data", goerr.V("offset", start), goerr.V("count", len(chunk)))
		}
	}

	return nil
}
