package migrations

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration is one named schema change. Up runs inside a transaction.
type Migration struct {
	Name string
	Up   func(tx *gorm.DB) error
}

// AppliedMigration records a migration that has already run.
type AppliedMigration struct {
	Name      string `gorm:"primaryKey;size:255"`
	AppliedAt time.Time
}

// TableName defines the table name for the AppliedMigration model.
func (AppliedMigration) TableName() string {
	return "schema_migrations"
}

// Apply runs every pending migration in order.
func Apply(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	return Run(ctx, db, logger, All())
}

// Run applies the pending subset of migrations in the given order. Migrations
// already recorded in schema_migrations are skipped.
func Run(ctx context.Context, db *gorm.DB, logger *logrus.Logger, migrations []Migration) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "migrations"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying schema migrations")
	}

	conn := db.WithContext(ctx)
	if err := conn.AutoMigrate(&AppliedMigration{}); err != nil {
		return eris.Wrap(err, "preparing schema_migrations table")
	}

	applied, err := appliedNames(conn)
	if err != nil {
		return err
	}

	count := 0
	for _, migration := range migrations {
		if _, done := applied[migration.Name]; done {
			continue
		}

		fields := logrus.Fields{"component": "migrations", "migration": migration.Name}
		err := conn.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&AppliedMigration{Name: migration.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			if logger != nil {
				logger.WithFields(fields).WithField("error", err.Error()).Error("schema migration failed")
			}
			return eris.Wrapf(err, "applying migration %s", migration.Name)
		}

		count++
		if logger != nil {
			logger.WithFields(fields).Info("schema migration applied")
		}
	}

	if logger != nil {
		logger.WithFields(logFields).WithField("applied", count).Info("schema migrations complete")
	}

	return nil
}

func appliedNames(db *gorm.DB) (map[string]struct{}, error) {
	var rows []AppliedMigration
	if err := db.Find(&rows).Error; err != nil {
		return nil, eris.Wrap(err, "listing applied migrations")
	}

	names := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		names[row.Name] = struct{}{}
	}
	return names, nil
}
