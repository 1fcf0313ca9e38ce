package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = model.ErrNotFound

// Collection names without prefix. The migrate command builds its index
// configuration from the same names.
const (
	CampusesCollection    = "campuses"
	UnitsCollection       = "units"
	CyclesCollection      = "cycles"
	SubmissionsCollection = "submissions"
	RisksCollection       = "risks"
	FindingsCollection    = "findings"
	CAPsCollection        = "corrective_action_plans"
	ChatLogsCollection    = "chat_logs"
)

// maxWritesPerTransaction is the Firestore limit of writes in one commit
const maxWritesPerTransaction = 500

type Firestore struct {
	client     *firestore.Client
	campus     *campusRepository
	unit       *unitRepository
	cycle      *cycleRepository
	submission *submissionRepository
	risk       *riskRepository
	finding    *findingRepository
	cap        *capRepository
	chatLog    *chatLogRepository
}

var _ interfaces.Repository = &Firestore{}
var _ interfaces.MasterDataImporter = &Firestore{}

// base holds what every entity repository needs
type base struct {
	client           *firestore.Client
	collectionPrefix string
}

func (b *base) col(name string) *firestore.CollectionRef {
	return b.client.Collection(CollectionName(b.collectionPrefix, name))
}

// CollectionName applies the optional prefix to a collection name
func CollectionName(prefix, name string) string {
	if prefix != "" {
		return prefix + "_" + name
	}
	return name
}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		for _, b := range f.bases() {
			b.collectionPrefix = prefix
		}
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:     client,
		campus:     &campusRepository{base: base{client: client}},
		unit:       &unitRepository{base: base{client: client}},
		cycle:      &cycleRepository{base: base{client: client}},
		submission: &submissionRepository{base: base{client: client}},
		risk:       &riskRepository{base: base{client: client}},
		finding:    &findingRepository{base: base{client: client}},
		cap:        &capRepository{base: base{client: client}},
		chatLog:    &chatLogRepository{base: base{client: client}},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) bases() []*base {
	return []*base{
		&f.campus.base,
		&f.unit.base,
		&f.cycle.base,
		&f.submission.base,
		&f.risk.base,
		&f.finding.base,
		&f.cap.base,
		&f.chatLog.base,
	}
}

func (f *Firestore) Campus() interfaces.CampusRepository {
	return f.campus
}

func (f *Firestore) Unit() interfaces.UnitRepository {
	return f.unit
}

func (f *Firestore) Cycle() interfaces.CycleRepository {
	return f.cycle
}

func (f *Firestore) Submission() interfaces.SubmissionRepository {
	return f.submission
}

func (f *Firestore) Risk() interfaces.RiskRepository {
	return f.risk
}

func (f *Firestore) Finding() interfaces.FindingRepository {
	return f.finding
}

func (f *Firestore) CAP() interfaces.CAPRepository {
	return f.cap
}

func (f *Firestore) ChatLog() interfaces.ChatLogRepository {
	return f.chatLog
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
