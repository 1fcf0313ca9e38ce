package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/cli/config"
	"github.com/secmon-lab/eoms/pkg/usecase"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var path string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "file",
			Aliases:     []string{"f"},
			Usage:       "Master data TOML file (campuses, units and cycles)",
			Required:    true,
			Sources:     cli.EnvVars("EOMS_MASTER_DATA"),
			Destination: &path,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load campuses, units and cycles from a master data file",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			file, err := config.LoadMasterData(path)
			if err != nil {
				return err
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
			if err := uc.MasterData.Import(ctx, file.ToMasterData()); err != nil {
				return goerr.Wrap(err, "failed to import master data")
			}

			logging.Default().Info("Master data imported",
				"path", path,
				"campuses", len(file.Campuses),
				"units", len(file.Units),
				"cycles", len(file.Cycles),
			)
			return nil
		},
	}
}
