package cli

import (
	"context"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/repository/firestore"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// defaultDatabaseID is the Firestore database used when none is configured.
const defaultDatabaseID = "(default)"

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var prefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Migrate Firestore indexes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("EOMS_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("EOMS_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix for every Firestore collection name",
				Sources:     cli.EnvVars("EOMS_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &prefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Preview changes without applying",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			logger.Info("Migrate configuration",
				"projectID", projectID,
				"databaseID", databaseID,
				"prefix", prefix,
				"dryRun", dryRun)

			indexConfig := getIndexConfig(prefix)

			if databaseID == "" {
				databaseID = defaultDatabaseID
			}

			client, err := fireconf.New(ctx, projectID, databaseID, indexConfig,
				fireconf.WithLogger(logger),
				fireconf.WithDryRun(dryRun),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client")
			}
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("failed to close fireconf client", "error", err.Error())
				}
			}()

			if dryRun {
				logger.Info("Dry run mode - previewing changes")
			} else {
				logger.Info("Applying migrations")
			}
			if err := client.Migrate(ctx); err != nil {
				return goerr.Wrap(err, "failed to apply migrations")
			}
			if dryRun {
				logger.Info("Dry run completed")
				return nil
			}
			logger.Info("Migrations applied successfully")
			return nil
		},
	}
}

func compositeIndex(fields ...fireconf.IndexField) fireconf.Index {
	return fireconf.Index{Fields: fields}
}

func asc(path string) fireconf.IndexField {
	return fireconf.IndexField{Path: path, Order: fireconf.OrderAscending}
}

func desc(path string) fireconf.IndexField {
	return fireconf.IndexField{Path: path, Order: fireconf.OrderDescending}
}

// getIndexConfig returns the composite indexes the repository queries need.
// Single-field queries (chat logs by created_at, cycles by year) use the
// automatic indexes.
func getIndexConfig(prefix string) *fireconf.Config {
	name := func(c string) string { return firestore.CollectionName(prefix, c) }

	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				// ListByUnit: unit_id ==, year ==
				Name:    name(firestore.SubmissionsCollection),
				Indexes: []fireconf.Index{compositeIndex(asc("unit_id"), asc("year"))},
			},
			{
				Name:    name(firestore.RisksCollection),
				Indexes: []fireconf.Index{compositeIndex(asc("year"), asc("unit_id"))},
			},
			{
				Name:    name(firestore.FindingsCollection),
				Indexes: []fireconf.Index{compositeIndex(asc("unit_id"), desc("created_at"))},
			},
			{
				// ListCAPs: finding_id ==, ORDER BY created_at
				Name:    name(firestore.CAPsCollection),
				Indexes: []fireconf.Index{compositeIndex(asc("finding_id"), asc("created_at"))},
			},
		},
	}
}
