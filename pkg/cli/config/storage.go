package config

import (
	"context"
	"log/slog"

	"github.com/secmon-lab/eoms/pkg/service/storage"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for the report export bucket
type Storage struct {
	bucket string
	prefix string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "export-bucket",
			Usage:       "Cloud Storage bucket that receives exported compliance reports",
			Category:    "Export",
			Destination: &x.bucket,
			Sources:     cli.EnvVars("EOMS_EXPORT_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "export-prefix",
			Usage:       "Object name prefix for exported reports",
			Category:    "Export",
			Value:       "reports",
			Destination: &x.prefix,
			Sources:     cli.EnvVars("EOMS_EXPORT_PREFIX"),
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
	)
}

// Configure returns nil when no bucket is set
func (x *Storage) Configure(ctx context.Context) (storage.Service, error) {
	if x.bucket == "" {
		return nil, nil
	}
	return storage.New(ctx, x.bucket, storage.WithPrefix(x.prefix))
}
