package main

import (
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"bannercms/app/internal/app/bootstrap"
	"bannercms/app/internal/app/seed"
	"bannercms/app/internal/data/database"
	"bannercms/app/internal/data/migrations"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.flush()

			db, err := bootstrap.OpenDatabase(*rt.cfg)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := database.Close(db); closeErr != nil {
					rt.logger.WithError(closeErr).Error("closing database")
				}
			}()

			if err := migrations.Apply(cmd.Context(), db, rt.logger); err != nil {
				return eris.Wrap(err, "running migrations")
			}

			rt.logger.Info("migrations applied")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load YAML fixtures into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixtures, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			rt, err := setup()
			if err != nil {
				return err
			}
			defer rt.flush()

			app, err := bootstrap.Build(cmd.Context(), bootstrap.Dependencies{
				Config:    *rt.cfg,
				Logger:    rt.logger,
				SentryHub: rt.sentryHub,
			})
			if err != nil {
				return eris.Wrap(err, "bootstrapping application")
			}
			defer func() {
				if closeErr := app.Cleanup(); closeErr != nil {
					rt.logger.WithError(closeErr).Error("closing application resources")
				}
			}()

			result, err := app.Seeder.Apply(cmd.Context(), fixtures)
			if err != nil {
				return eris.Wrap(err, "applying fixtures")
			}

			rt.logger.WithFields(logrus.Fields{
				"file":          file,
				"images":        result.Images,
				"organizations": result.Organizations,
				"plugins":       result.Plugins,
			}).Info("seed complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a YAML fixtures file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
