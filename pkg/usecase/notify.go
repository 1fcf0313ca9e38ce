package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/service/slack"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

// NotifyUseCase posts compliance events to a Slack channel. Every method is
// a no-op when Slack is not configured.
type NotifyUseCase struct {
	repo         interfaces.Repository
	slackService slack.Service
	channelID    string
}

func NewNotifyUseCase(repo interfaces.Repository, slackService slack.Service, channelID string) *NotifyUseCase {
	return &NotifyUseCase{
		repo:         repo,
		slackService: slackService,
		channelID:    channelID,
	}
}

// Enabled reports whether notifications are delivered anywhere
func (uc *NotifyUseCase) Enabled() bool {
	return uc != nil && uc.slackService != nil && uc.channelID != ""
}

// NonComplianceDigest posts the list of units missing reports in ended cycles
func (uc *NotifyUseCase) NonComplianceDigest(ctx context.Context, entries []compliance.NonComplianceEntry) error {
	if !uc.Enabled() {
		return nil
	}

	blocks, text := slack.NonComplianceBlocks(entries)
	ts, err := uc.slackService.PostMessage(ctx, uc.channelID, blocks, text)
	if err != nil {
		return goerr.Wrap(err, "failed to post non-compliance digest", goerr.V("channel_id", uc.channelID))
	}

	logging.From(ctx).Info("non-compliance digest posted",
		"channel_id", uc.channelID, "entries", len(entries), "ts", ts)
	return nil
}

// SubmissionStatusChanged posts a review decision
func (uc *NotifyUseCase) SubmissionStatusChanged(ctx context.Context, s *model.Submission) error {
	if !uc.Enabled() {
		return nil
	}

	unitName := string(s.UnitID)
	if unit, err := uc.repo.Unit().Get(ctx, s.UnitID); err == nil {
		unitName = unit.Name
	} else {
		logging.From(ctx).Warn("unit lookup failed, using unit ID in notification",
			"unit_id", s.UnitID, "error", err.Error())
	}

	blocks, text := slack.SubmissionStatusBlocks(s, unitName)
	if _, err := uc.slackService.PostMessage(ctx, uc.channelID, blocks, text); err != nil {
		return goerr.Wrap(err, "failed to post submission status",
			goerr.V(SubmissionIDKey, s.ID), goerr.V("channel_id", uc.channelID))
	}
	return nil
}
