package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/model/auth"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/repository/memory"
	"github.com/secmon-lab/eoms/pkg/service/assistant"
	"github.com/slack-go/slack"
)

const (
	testYear   = 2025
	unitCS     = types.UnitID("cs")
	unitEng    = types.UnitID("eng")
	campusMain = types.CampusID("main")
	campusWest = types.CampusID("west")
)

// newSeededRepo returns a memory repository with two campuses, two units and
// both cycles of testYear. The first cycle ended on 2025-06-30.
func newSeededRepo(t *testing.T) *memory.Repository {
	t.Helper()
	repo := memory.New()
	ctx := context.Background()

	for _, c := range []*model.Campus{
		{ID: campusMain, Name: "Main Campus"},
		{ID: campusWest, Name: "West Campus"},
	} {
		_, err := repo.Campus().Put(ctx, c)
		gt.NoError(t, err).Required()
	}
	for _, u := range []*model.Unit{
		{ID: unitCS, Name: "Computer Science", CampusIDs: []types.CampusID{campusMain}},
		{ID: unitEng, Name: "Engineering", CampusIDs: []types.CampusID{campusMain, campusWest}},
	} {
		_, err := repo.Unit().Put(ctx, u)
		gt.NoError(t, err).Required()
	}
	for _, c := range []*model.Cycle{
		{
			Year: testYear, Cycle: types.CycleFirst, Name: "First Cycle 2025",
			StartAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			Year: testYear, Cycle: types.CycleFinal, Name: "Final Cycle 2025",
			StartAt: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	} {
		_, err := repo.Cycle().Put(ctx, c)
		gt.NoError(t, err).Required()
	}
	return repo
}

func ctxAs(role auth.Role, unitID types.UnitID) context.Context {
	p := &auth.Principal{
		UserID: string(role) + "-user",
		Email:  string(role) + "@example.edu",
		Role:   role,
		UnitID: unitID,
	}
	return auth.ContextWithPrincipal(context.Background(), p)
}

func adminCtx() context.Context  { return ctxAs(auth.RoleAdmin, "") }
func qaCtx() context.Context     { return ctxAs(auth.RoleQA, "") }
func viewerCtx() context.Context { return ctxAs(auth.RoleViewer, "") }
func unitCtx(id types.UnitID) context.Context {
	return ctxAs(auth.RoleUnit, id)
}

type slackPost struct {
	channelID string
	text      string
	blocks    []slack.Block
}

type mockSlack struct {
	mu    sync.Mutex
	posts []slackPost
	err   error
}

func (m *mockSlack) PostMessage(ctx context.Context, channelID string, blocks []slack.Block, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.posts = append(m.posts, slackPost{channelID: channelID, text: text, blocks: blocks})
	return "1700000000.000100", nil
}

func (m *mockSlack) AuthTest(ctx context.Context) (string, error) {
	return "UBOT", nil
}

func (m *mockSlack) Posts() []slackPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]slackPost(nil), m.posts...)
}

type mockAssistant struct {
	answerFunc func(ctx context.Context, query string) (string, error)
	judgeFunc  func(ctx context.Context, input assistant.LinkInput) (*assistant.LinkVerdict, error)
}

func (m *mockAssistant) Answer(ctx context.Context, query string) (string, error) {
	return m.answerFunc(ctx, query)
}

func (m *mockAssistant) JudgeLink(ctx context.Context, input assistant.LinkInput) (*assistant.LinkVerdict, error) {
	return m.judgeFunc(ctx, input)
}
