package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/service/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token is provided", func(t *testing.T) {
		svc, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func TestPostMessage_WithFakeAPI(t *testing.T) {
	var gotChannel, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.NoError(t, r.ParseForm())
		gotChannel = r.PostForm.Get("channel")
		gotText = r.PostForm.Get("text")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "channel": gotChannel, "ts": "1700000000.000100"})
	}))
	defer srv.Close()

	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	blocks, text := slack.NonComplianceBlocks(nil)
	ts, err := svc.PostMessage(context.Background(), "C123", blocks, text)
	gt.NoError(t, err).Required()
	gt.Value(t, ts).Equal("1700000000.000100")
	gt.Value(t, gotChannel).Equal("C123")
	gt.String(t, gotText).Contains("All units")
}

func TestNonComplianceBlocks(t *testing.T) {
	entries := []compliance.NonComplianceEntry{
		{
			Year: 2025, Cycle: types.CycleFirst, CycleName: "First Cycle 2025",
			EndedAt: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			UnitID:  "library", UnitName: "University Library",
			Missing: []types.ReportType{types.ReportTypeSWOT, types.ReportTypeActionPlan},
		},
	}

	blocks, text := slack.NonComplianceBlocks(entries)
	gt.Array(t, blocks).Length(4)
	gt.String(t, text).Contains("1 unit-cycle")

	raw, err := json.Marshal(blocks)
	gt.NoError(t, err).Required()
	gt.String(t, string(raw)).Contains("University Library")
	gt.String(t, string(raw)).Contains("SWOT Analysis, Risk and Opportunity Action Plan")
}

func TestNonComplianceBlocks_Capped(t *testing.T) {
	var entries []compliance.NonComplianceEntry
	for i := 0; i < 50; i++ {
		entries = append(entries, compliance.NonComplianceEntry{UnitName: "unit", Cycle: types.CycleFinal, Missing: []types.ReportType{types.ReportTypeSWOT}})
	}
	blocks, _ := slack.NonComplianceBlocks(entries)
	// header, summary, divider, 40 units and the remainder line
	gt.Array(t, blocks).Length(44)
}

func TestSubmissionStatusBlocks(t *testing.T) {
	s := &model.Submission{
		Year: 2025, Cycle: types.CycleFinal, ReportType: types.ReportTypeOperationalPlan,
		Status: types.SubmissionStatusRejected, ReviewedBy: "qa@example.edu",
		ReviewerComment: "Signature page is missing",
	}
	blocks, text := slack.SubmissionStatusBlocks(s, "Registrar")
	gt.Array(t, blocks).Length(3)
	gt.String(t, text).Contains("Operational Plan for Registrar")
	gt.String(t, text).Contains("rejected")
}

func TestTruncateToMaxBytes(t *testing.T) {
	gt.Value(t, slack.TruncateToMaxBytes("short", 10)).Equal("short")

	long := strings.Repeat("あ", 10) // 30 bytes
	got := slack.TruncateToMaxBytes(long, 10)
	gt.Bool(t, len(got) <= 10).True()
	gt.String(t, got).Contains("…")
	gt.Bool(t, strings.HasPrefix(long, strings.TrimSuffix(got, "…"))).True()
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	if token == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN is not set")
	}
	channelID := os.Getenv("TEST_SLACK_CHANNEL_ID")
	if channelID == "" {
		t.Skip("TEST_SLACK_CHANNEL_ID is not set")
	}

	ctx := context.Background()
	svc, err := slack.New(token)
	gt.NoError(t, err).Required()

	botID, err := svc.AuthTest(ctx)
	gt.NoError(t, err).Required()
	gt.String(t, botID).NotEqual("")

	blocks, text := slack.NonComplianceBlocks(nil)
	ts, err := svc.PostMessage(ctx, channelID, blocks, text)
	gt.NoError(t, err).Required()
	gt.String(t, ts).NotEqual("")
}
