package slack

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/slack-go/slack"
)

// maxSectionTextBytes is the Slack limit for a section text object
const maxSectionTextBytes = 3000

// maxDigestUnits caps the number of unit sections in one digest message
const maxDigestUnits = 40

// truncateToMaxBytes cuts s to at most maxBytes without splitting a rune
func truncateToMaxBytes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	const ellipsis = "…"
	limit := maxBytes - len(ellipsis)
	if limit <= 0 {
		return ""
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit] + ellipsis
}

func section(text string) *slack.SectionBlock {
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, truncateToMaxBytes(text, maxSectionTextBytes), false, false),
		nil, nil,
	)
}

// NonComplianceBlocks renders the non-compliance digest
func NonComplianceBlocks(entries []compliance.NonComplianceEntry) ([]slack.Block, string) {
	if len(entries) == 0 {
		text := "All units have submitted every required report for the ended cycles."
		return []slack.Block{section(":white_check_mark: " + text)}, text
	}

	text := fmt.Sprintf("%d unit-cycle(s) are missing required reports", len(entries))
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "Non-compliance digest", false, false)),
		section(":warning: " + text),
		slack.NewDividerBlock(),
	}

	for i, e := range entries {
		if i == maxDigestUnits {
			blocks = append(blocks, section(fmt.Sprintf("…and %d more", len(entries)-maxDigestUnits)))
			break
		}
		labels := make([]string, 0, len(e.Missing))
		for _, rt := range e.Missing {
			labels = append(labels, rt.Label())
		}
		cycleName := e.CycleName
		if cycleName == "" {
			cycleName = e.Cycle.Label()
		}
		blocks = append(blocks, section(fmt.Sprintf("*%s* (%d %s)\nMissing: %s",
			e.UnitName, e.Year, cycleName, strings.Join(labels, ", "))))
	}

	return blocks, text
}

// SubmissionStatusBlocks renders a review decision on a submission
func SubmissionStatusBlocks(s *model.Submission, unitName string) ([]slack.Block, string) {
	icon := ":information_source:"
	switch s.Status {
	case types.SubmissionStatusApproved:
		icon = ":white_check_mark:"
	case types.SubmissionStatusRejected:
		icon = ":x:"
	}

	text := fmt.Sprintf("%s %s for %s (%d %s) was %s",
		icon, s.ReportType.Label(), unitName, s.Year, s.Cycle.Label(), s.Status)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, "*Report*\n"+s.ReportType.Label(), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Status*\n"+string(s.Status), false, false),
	}
	if s.Title != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, "*Title*\n"+truncateToMaxBytes(s.Title, 1900), false, false))
	}
	if s.ReviewedBy != "" {
		fields = append(fields, slack.NewTextBlockObject(slack.MarkdownType, "*Reviewer*\n"+s.ReviewedBy, false, false))
	}

	blocks := []slack.Block{
		section(text),
		slack.NewSectionBlock(nil, fields, nil),
	}
	if s.ReviewerComment != "" {
		blocks = append(blocks, section("> "+s.ReviewerComment))
	}
	return blocks, text
}
