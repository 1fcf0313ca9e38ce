package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type findingDocument struct {
	ID          string    `firestore:"id"`
	UnitID      string    `firestore:"unit_id"`
	CampusID    string    `firestore:"campus_id"`
	Year        int       `firestore:"year"`
	Kind        string    `firestore:"kind"`
	Clause      string    `firestore:"clause"`
	Description string    `firestore:"description"`
	Status      string    `firestore:"status"`
	RaisedBy    string    `firestore:"raised_by"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

type capDocument struct {
	ID               string    `firestore:"id"`
	FindingID        string    `firestore:"finding_id"`
	UnitID           string    `firestore:"unit_id"`
	RootCause        string    `firestore:"root_cause"`
	Correction       string    `firestore:"correction"`
	CorrectiveAction string    `firestore:"corrective_action"`
	TargetDate       time.Time `firestore:"target_date"`
	Status           string    `firestore:"status"`
	SubmittedBy      string    `firestore:"submitted_by"`
	ReviewedBy       string    `firestore:"reviewed_by"`
	ReviewerComment  string    `firestore:"reviewer_comment"`
	CreatedAt        time.Time `firestore:"created_at"`
	UpdatedAt        time.Time `firestore:"updated_at"`
}

func toFindingDocument(f *model.AuditFinding) *findingDocument {
	return &findingDocument{
		ID:          string(f.ID),
		UnitID:      string(f.UnitID),
		CampusID:    string(f.CampusID),
		Year:        f.Year,
		Kind:        string(f.Kind),
		Clause:      f.Clause,
		Description: f.Description,
		Status:      string(f.Status),
		RaisedBy:    f.RaisedBy,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func toFindingModel(doc *findingDocument) *model.AuditFinding {
	return &model.AuditFinding{
		ID:          model.FindingID(doc.ID),
		UnitID:      types.UnitID(doc.UnitID),
		CampusID:    types.CampusID(doc.CampusID),
		Year:        doc.Year,
		Kind:        types.FindingKind(doc.Kind),
		Clause:      doc.Clause,
		Description: doc.Description,
		Status:      types.FindingStatus(doc.Status),
		RaisedBy:    doc.RaisedBy,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

func toCAPDocument(c *model.CorrectiveActionPlan) *capDocument {
	return &capDocument{
		ID:               string(c.ID),
		FindingID:        string(c.FindingID),
		UnitID:           string(c.UnitID),
		RootCause:        c.RootCause,
		Correction:       c.Correction,
		CorrectiveAction: c.CorrectiveAction,
		TargetDate:       c.TargetDate,
		Status:           string(c.Status),
		SubmittedBy:      c.SubmittedBy,
		ReviewedBy:       c.ReviewedBy,
		ReviewerComment:  c.ReviewerComment,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func toCAPModel(doc *capDocument) *model.CorrectiveActionPlan {
	return &model.CorrectiveActionPlan{
		ID:               model.CAPID(doc.ID),
		FindingID:        model.FindingID(doc.FindingID),
		UnitID:           types.UnitID(doc.UnitID),
		RootCause:        doc.RootCause,
		Correction:       doc.Correction,
		CorrectiveAction: doc.CorrectiveAction,
		TargetDate:       doc.TargetDate,
		Status:           types.CAPStatus(doc.Status),
		SubmittedBy:      doc.SubmittedBy,
		ReviewedBy:       doc.ReviewedBy,
		ReviewerComment:  doc.ReviewerComment,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

type findingRepository struct {
	base
}

func (r *findingRepository) Create(ctx context.Context, finding *model.AuditFinding) (*model.AuditFinding, error) {
	now := time.Now().UTC()
	created := finding.Clone()
	created.ID = model.NewFindingID()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.col(FindingsCollection).Doc(string(created.ID)).Create(ctx, toFindingDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create finding", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *findingRepository) Get(ctx context.Context, id model.FindingID) (*model.AuditFinding, error) {
	snap, err := r.col(FindingsCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get finding", goerr.V("id", id))
	}

	var doc findingDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal finding", goerr.V("id", id))
	}
	return toFindingModel(&doc), nil
}

func (r *findingRepository) List(ctx context.Context, unitID types.UnitID) ([]*model.AuditFinding, error) {
	q := r.col(FindingsCollection).Query
	if unitID != "" {
		q = q.Where("unit_id", "==", string(unitID))
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var findings []*model.AuditFinding
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate findings")
		}

		var doc findingDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal finding", goerr.V("id", snap.Ref.ID))
		}
		findings = append(findings, toFindingModel(&doc))
	}

	sort.Slice(findings, func(i, j int) bool { return findings[i].ID < findings[j].ID })
	return findings, nil
}

func (r *findingRepository) Update(ctx context.Context, finding *model.AuditFinding) (*model.AuditFinding, error) {
	existing, err := r.Get(ctx, finding.ID)
	if err != nil {
		return nil, err
	}

	updated := finding.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := r.col(FindingsCollection).Doc(string(finding.ID)).Set(ctx, toFindingDocument(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update finding", goerr.V("id", finding.ID))
	}
	return updated, nil
}

func (r *findingRepository) Delete(ctx context.Context, id model.FindingID) error {
	return deleteExisting(ctx, r.col(FindingsCollection).Doc(string(id)), "finding")
}

type capRepository struct {
	base
}

func (r *capRepository) Create(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error) {
	now := time.Now().UTC()
	created := plan.Clone()
	created.ID = model.NewCAPID()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.col(CAPsCollection).Doc(string(created.ID)).Create(ctx, toCAPDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create corrective action plan", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *capRepository) Get(ctx context.Context, id model.CAPID) (*model.CorrectiveActionPlan, error) {
	snap, err := r.col(CAPsCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "corrective action plan not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get corrective action plan", goerr.V("id", id))
	}

	var doc capDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal corrective action plan", goerr.V("id", id))
	}
	return toCAPModel(&doc), nil
}

func (r *capRepository) ListByFinding(ctx context.Context, findingID model.FindingID) ([]*model.CorrectiveActionPlan, error) {
	iter := r.col(CAPsCollection).
		Where("finding_id", "==", string(findingID)).
		OrderBy("created_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var plans []*model.CorrectiveActionPlan
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate corrective action plans")
		}

		var doc capDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal corrective action plan", goerr.V("id", snap.Ref.ID))
		}
		plans = append(plans, toCAPModel(&doc))
	}
	return plans, nil
}

func (r *capRepository) Update(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error) {
	existing, err := r.Get(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	updated := plan.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := r.col(CAPsCollection).Doc(string(plan.ID)).Set(ctx, toCAPDocument(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update corrective action plan", goerr.V("id", plan.ID))
	}
	return updated, nil
}

func (r *capRepository) Submit(ctx context.Context, plan *model.CorrectiveActionPlan) (*model.CorrectiveActionPlan, error) {
	now := time.Now().UTC()
	created := plan.Clone()
	created.ID = model.NewCAPID()
	created.CreatedAt = now
	created.UpdatedAt = now

	findingRef := r.col(FindingsCollection).Doc(string(plan.FindingID))
	capRef := r.col(CAPsCollection).Doc(string(created.ID))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		finding, err := getFindingInTx(tx, findingRef)
		if err != nil {
			return err
		}
		if finding.Status != string(types.FindingStatusOpen) {
			return goerr.Wrap(model.ErrConflict, "finding is not open",
				goerr.V("id", plan.FindingID), goerr.V("status", finding.Status))
		}

		if err := tx.Create(capRef, toCAPDocument(created)); err != nil {
			return goerr.Wrap(err, "failed to create corrective action plan", goerr.V("id", created.ID))
		}
		return tx.Update(findingRef, []firestore.Update{
			{Path: "status", Value: string(types.FindingStatusCAPSubmitted)},
			{Path: "updated_at", Value: now},
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to submit corrective action plan", goerr.V("finding_id", plan.FindingID))
	}
	return created, nil
}

func (r *capRepository) Review(ctx context.Context, plan *model.CorrectiveActionPlan, findingStatus types.FindingStatus) (*model.CorrectiveActionPlan, error) {
	now := time.Now().UTC()
	capRef := r.col(CAPsCollection).Doc(string(plan.ID))

	var updated *model.CorrectiveActionPlan
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(capRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "corrective action plan not found", goerr.V("id", plan.ID))
			}
			return goerr.Wrap(err, "failed to get corrective action plan", goerr.V("id", plan.ID))
		}
		var existing capDocument
		if err := snap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to unmarshal corrective action plan", goerr.V("id", plan.ID))
		}
		if existing.Status != string(types.CAPStatusSubmitted) {
			return goerr.Wrap(model.ErrConflict, "corrective action plan is not awaiting review",
				goerr.V("id", plan.ID), goerr.V("status", existing.Status))
		}

		findingRef := r.col(FindingsCollection).Doc(existing.FindingID)
		if _, err := getFindingInTx(tx, findingRef); err != nil {
			return err
		}

		updated = plan.Clone()
		updated.FindingID = model.FindingID(existing.FindingID)
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = now
		if err := tx.Set(capRef, toCAPDocument(updated)); err != nil {
			return goerr.Wrap(err, "failed to update corrective action plan", goerr.V("id", plan.ID))
		}
		return tx.Update(findingRef, []firestore.Update{
			{Path: "status", Value: string(findingStatus)},
			{Path: "updated_at", Value: now},
		})
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to review corrective action plan", goerr.V("id", plan.ID))
	}
	return updated, nil
}

func getFindingInTx(tx *firestore.Transaction, ref *firestore.DocumentRef) (*findingDocument, error) {
	snap, err := tx.Get(ref)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "finding not found", goerr.V("id", ref.ID))
		}
		return nil, goerr.Wrap(err, "failed to get finding", goerr.V("id", ref.ID))
	}
	var doc findingDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal finding", goerr.V("id", ref.ID))
	}
	return &doc, nil
}
