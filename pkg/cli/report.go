package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/cli/config"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdReport() *cli.Command {
	var year int
	var cycle string
	var unitID string
	var asJSON bool
	var repoCfg config.Repository
	var storageCfg config.Storage

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "year",
			Aliases:     []string{"y"},
			Usage:       "Reporting year",
			Value:       time.Now().Year(),
			Sources:     cli.EnvVars("EOMS_REPORT_YEAR"),
			Destination: &year,
		},
		&cli.StringFlag{
			Name:        "cycle",
			Usage:       "Restrict to one cycle (first, final)",
			Destination: &cycle,
		},
		&cli.StringFlag{
			Name:        "unit",
			Usage:       "Restrict to one unit ID",
			Destination: &unitID,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the dashboard as JSON instead of tables",
			Destination: &asJSON,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)

	return &cli.Command{
		Name:  "report",
		Usage: "Print the compliance dashboard of a year",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			filter := compliance.Filter{
				Year:   year,
				Cycle:  types.Cycle(cycle),
				UnitID: types.UnitID(unitID),
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			dashboard, err := uc.Dashboard.Build(ctx, filter)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(dashboard); err != nil {
					return goerr.Wrap(err, "failed to encode dashboard")
				}
			} else {
				printDashboard(color.Output, dashboard)
			}

			store, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure export storage")
			}
			if store == nil {
				return nil
			}
			defer func() {
				if err := store.Close(); err != nil {
					logging.Default().Error("failed to close storage client", "error", err.Error())
				}
			}()

			data, err := json.Marshal(dashboard)
			if err != nil {
				return goerr.Wrap(err, "failed to encode dashboard")
			}
			url, err := store.Put(ctx, exportObjectName(filter, time.Now()), "application/json", data)
			if err != nil {
				return err
			}
			logging.Default().Info("Dashboard exported", "url", url)
			return nil
		},
	}
}

// exportObjectName returns e.g. dashboard-2025-first-20250801T120000Z.json
func exportObjectName(f compliance.Filter, now time.Time) string {
	parts := []string{"dashboard", fmt.Sprintf("%d", f.Year)}
	if f.Cycle != "" {
		parts = append(parts, string(f.Cycle))
	}
	if f.UnitID != "" {
		parts = append(parts, string(f.UnitID))
	}
	parts = append(parts, now.UTC().Format("20060102T150405Z"))
	return strings.Join(parts, "-") + ".json"
}

var (
	headerColor = color.New(color.Bold, color.Underline)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	badColor    = color.New(color.FgRed)
)

// percentColor picks green for complete, yellow for half or more, red otherwise
func percentColor(p float64) *color.Color {
	switch {
	case p >= 100:
		return goodColor
	case p >= 50:
		return warnColor
	default:
		return badColor
	}
}

func printDashboard(w io.Writer, d *compliance.Dashboard) {
	title := fmt.Sprintf("Compliance %d", d.Year)
	if d.Cycle != "" {
		title += " (" + d.Cycle.Label() + ")"
	}
	_, _ = headerColor.Fprintln(w, title)
	_, _ = fmt.Fprintln(w)

	_, _ = headerColor.Fprintln(w, "Units")
	for _, u := range d.Units {
		c := percentColor(u.ProgressPercent)
		_, _ = fmt.Fprintf(w, "  %-24s %3d/%-3d %s\n", u.UnitID, u.ApprovedCount, u.TotalRequired,
			c.Sprintf("%5.1f%%", u.ProgressPercent))
	}
	_, _ = fmt.Fprintln(w)

	_, _ = headerColor.Fprintln(w, "Campuses")
	for _, cp := range d.Campuses {
		c := percentColor(cp.ProgressPercent)
		_, _ = fmt.Fprintf(w, "  %-24s units=%-3d compliant=%-3d %s\n", cp.CampusID, cp.Units, cp.CompliantUnits,
			c.Sprintf("%5.1f%%", cp.ProgressPercent))
	}
	_, _ = fmt.Fprintln(w)

	_, _ = headerColor.Fprintln(w, "Report types")
	for _, rt := range d.Coverage {
		line := fmt.Sprintf("  %-36s %3d/%-3d", rt.Label, rt.UnitsSubmittedCount, rt.TotalUnits)
		if rt.NotApplicableCount > 0 {
			line += fmt.Sprintf(" (N/A %d)", rt.NotApplicableCount)
		}
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = headerColor.Fprintln(w, "Cycles")
	for _, cy := range d.Cycles {
		c := percentColor(cy.ProgressPercent)
		_, _ = fmt.Fprintf(w, "  %d %-8s %3d/%-3d %s\n", cy.Year, cy.Cycle, cy.CompliantUnits, cy.TotalUnits,
			c.Sprintf("%5.1f%%", cy.ProgressPercent))
	}
}

func printNonCompliance(w io.Writer, entries []compliance.NonComplianceEntry) {
	if len(entries) == 0 {
		_, _ = goodColor.Fprintln(w, "All units submitted every required report for ended cycles")
		return
	}

	_, _ = headerColor.Fprintf(w, "Non-compliant units (%d)\n", len(entries))
	for _, e := range entries {
		missing := make([]string, len(e.Missing))
		for i, rt := range e.Missing {
			missing[i] = rt.Label()
		}
		_, _ = fmt.Fprintf(w, "  %d %-8s %-24s %s\n", e.Year, e.Cycle, e.UnitID,
			badColor.Sprint(strings.Join(missing, ", ")))
	}
}
