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

type submissionDocument struct {
	ID              string    `firestore:"id"`
	UnitID          string    `firestore:"unit_id"`
	CampusID        string    `firestore:"campus_id"`
	Year            int       `firestore:"year"`
	Cycle           string    `firestore:"cycle"`
	ReportType      string    `firestore:"report_type"`
	Status          string    `firestore:"status"`
	RiskRating      string    `firestore:"risk_rating,omitempty"`
	Link            string    `firestore:"link"`
	Title           string    `firestore:"title"`
	SubmittedBy     string    `firestore:"submitted_by"`
	ReviewedBy      string    `firestore:"reviewed_by"`
	ReviewerComment string    `firestore:"reviewer_comment"`
	SubmittedAt     time.Time `firestore:"submitted_at"`
	ReviewedAt      time.Time `firestore:"reviewed_at"`
	CreatedAt       time.Time `firestore:"created_at"`
	UpdatedAt       time.Time `firestore:"updated_at"`
}

func toSubmissionDocument(s *model.Submission) *submissionDocument {
	return &submissionDocument{
		ID:              string(s.ID),
		UnitID:          string(s.UnitID),
		CampusID:        string(s.CampusID),
		Year:            s.Year,
		Cycle:           string(s.Cycle),
		ReportType:      string(s.ReportType),
		Status:          string(s.Status),
		RiskRating:      string(s.RiskRating),
		Link:            s.Link,
		Title:           s.Title,
		SubmittedBy:     s.SubmittedBy,
		ReviewedBy:      s.ReviewedBy,
		ReviewerComment: s.ReviewerComment,
		SubmittedAt:     s.SubmittedAt,
		ReviewedAt:      s.ReviewedAt,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toSubmissionModel(doc *submissionDocument) *model.Submission {
	return &model.Submission{
		ID:              model.SubmissionID(doc.ID),
		UnitID:          types.UnitID(doc.UnitID),
		CampusID:        types.CampusID(doc.CampusID),
		Year:            doc.Year,
		Cycle:           types.Cycle(doc.Cycle),
		ReportType:      types.ReportType(doc.ReportType),
		Status:          types.SubmissionStatus(doc.Status),
		RiskRating:      types.RiskRating(doc.RiskRating),
		Link:            doc.Link,
		Title:           doc.Title,
		SubmittedBy:     doc.SubmittedBy,
		ReviewedBy:      doc.ReviewedBy,
		ReviewerComment: doc.ReviewerComment,
		SubmittedAt:     doc.SubmittedAt,
		ReviewedAt:      doc.ReviewedAt,
		CreatedAt:       doc.CreatedAt,
		UpdatedAt:       doc.UpdatedAt,
	}
}

type submissionRepository struct {
	base
}

func (r *submissionRepository) Create(ctx context.Context, submission *model.Submission) (*model.Submission, error) {
	now := time.Now().UTC()
	created := submission.Clone()
	created.ID = model.NewSubmissionID()
	created.CreatedAt = now
	created.UpdatedAt = now

	ref := r.col(SubmissionsCollection).Doc(string(created.ID))
	if _, err := ref.Create(ctx, toSubmissionDocument(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create submission", goerr.V("id", created.ID))
	}
	return created, nil
}

func (r *submissionRepository) Get(ctx context.Context, id model.SubmissionID) (*model.Submission, error) {
	snap, err := r.col(SubmissionsCollection).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get submission", goerr.V("id", id))
	}

	var doc submissionDocument
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal submission", goerr.V("id", id))
	}
	return toSubmissionModel(&doc), nil
}

func (r *submissionRepository) List(ctx context.Context) ([]*model.Submission, error) {
	return r.query(ctx, r.col(SubmissionsCollection).Query)
}

func (r *submissionRepository) ListByYear(ctx context.Context, year int) ([]*model.Submission, error) {
	return r.query(ctx, r.col(SubmissionsCollection).Where("year", "==", year))
}

func (r *submissionRepository) ListByUnit(ctx context.Context, unitID types.UnitID, year int) ([]*model.Submission, error) {
	q := r.col(SubmissionsCollection).
		Where("unit_id", "==", string(unitID)).
		Where("year", "==", year)
	return r.query(ctx, q)
}

func (r *submissionRepository) query(ctx context.Context, q firestore.Query) ([]*model.Submission, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var submissions []*model.Submission
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate submissions")
		}

		var doc submissionDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal submission", goerr.V("id", snap.Ref.ID))
		}
		submissions = append(submissions, toSubmissionModel(&doc))
	}
	return submissions, nil
}

func (r *submissionRepository) Update(ctx context.Context, submission *model.Submission) (*model.Submission, error) {
	ref := r.col(SubmissionsCollection).Doc(string(submission.ID))

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "submission not found", goerr.V("id", submission.ID))
		}
		return nil, goerr.Wrap(err, "failed to get submission", goerr.V("id", submission.ID))
	}
	var existing submissionDocument
	if err := snap.DataTo(&existing); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal submission", goerr.V("id", submission.ID))
	}

	updated := submission.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if _, err := ref.Set(ctx, toSubmissionDocument(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update submission", goerr.V("id", submission.ID))
	}
	return updated, nil
}

func (r *submissionRepository) Delete(ctx context.Context, id model.SubmissionID) error {
	return deleteExisting(ctx, r.col(SubmissionsCollection).Doc(string(id)), "submission")
}
