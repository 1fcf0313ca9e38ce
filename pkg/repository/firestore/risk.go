package firestore

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type riskDocument struct {
	ID          string    `firestore:"id"`
	UnitID      string    `firestore:"unit_id"`
	CampusID    string    `firestore:"campus_id"`
	Year        int       `firestore:"year"`
	Type        string    `firestore:"type"`
	Status      string    `firestore:"status"`
	Likelihood  int       `firestore:"likelihood"`
	Consequence int       `firestore:"consequence"`
	Rating      string    `firestore:"rating"`
	Description string    `firestore:"description"`
	Treatment   string    `firestore:"treatment"`
	CreatedAt   time.Time `firestore:"created_at"`
	UpdatedAt   time.Time `firestore:"updated_at"`
}

func toRiskDocument(r *model.Risk) *riskDocument {
	return &riskDocument{
		ID:          string(r.ID),
		UnitID:      string(r.UnitID),
		CampusID:    string(r.CampusID),
		Year:        r.Year,
		Type:        string(r.Type),
		Status:      string(r.Status),
		Likelihood:  r.Likelihood,
		Consequence: r.Consequence,
		Rating:      string(r.Rating),
		Description: r.Description,
		Treatment:   r.Treatment,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRiskModel(doc *riskDocument) *model.Risk {
	return &model.Risk{
		ID:          model.RiskID(doc.ID),
		UnitID:      types.UnitID(doc.UnitID),
		CampusID:    types.CampusID(doc.CampusID),
		Year:        doc.Year,
		Type:        types.RiskType(doc.Type),
		Status:      types.RiskStatus(doc.Status),
		Likelihood:  doc.Likelihood,
		Consequence: doc.Consequence,
		Rating:      types.RiskRating(doc.Rating),
		Description: doc.Description,
		Treatment:   doc.Treatment,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

type riskRepository struct {
	base
}

func (r *riskRepository) Create(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	now := time.Now().UTC()
	created := risk.Clone()
	created.ID = model.NewRiskID()
	created.CreatedAt = now
	created.UpdatedAt = now

	if _, err := r.col(RisksCollection).Doc(string(created.ID)).Create(ctx, toRiskDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create risk", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.Risk, error) {
	snap, err := r.col(RisksCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "risk not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V("id", id))
	}

	var doc riskDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", id))
	}
	return toRiskModel(&doc), nil
}

func (r *riskRepository) ListByYear(ctx context.Context, year int) ([]*model.Risk, error) {
	iter := r.col(RisksCollection).Where("year", "==", year).Documents(ctx)
	defer iter.Stop()

	var risks []*model.Risk
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate risks")
		}

		var doc riskDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal risk", goerr.V("id", snap.Ref.ID))
		}
		risks = append(risks, toRiskModel(&doc))
	}
	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.Risk) (*model.Risk, error) {
	existing, err := r.Get(ctx, risk.ID)
	if err != nil {
		return nil, err
	}

	updated := risk.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := r.col(RisksCollection).Doc(string(risk.ID)).Set(ctx, toRiskDocument(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V("id", risk.ID))
	}
	return updated, nil
}

func (r *riskRepository) Delete(ctx context.Context, id model.RiskID) error {
	return deleteExisting(ctx, r.col(RisksCollection).Doc(string(id)), "risk")
}
