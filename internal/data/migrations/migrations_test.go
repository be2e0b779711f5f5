package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	bannerdata "bannercms/app/internal/data/banner"
	"bannercms/app/internal/data/cms"
	"bannercms/app/internal/data/database"
	mediadata "bannercms/app/internal/data/media"
	organizationdata "bannercms/app/internal/data/organization"
	applog "bannercms/app/internal/platform/log"
)

func TestApplyCreatesSchema(t *testing.T) {
	t.Parallel()

	db := openDatabase(t)
	ctx := context.Background()

	if err := Apply(ctx, db, applog.Discard()); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	migrator := db.Migrator()
	for _, model := range []any{
		&mediadata.ImageRecord{},
		&cms.PlaceholderRecord{},
		&cms.PluginRecord{},
		&bannerdata.LargeBannerRecord{},
		&organizationdata.OrganizationRecord{},
		&organizationdata.GlimpseRecord{},
	} {
		if !migrator.HasTable(model) {
			t.Fatalf("expected table for %T to exist", model)
		}
	}

	if !migrator.HasColumn(&organizationdata.GlimpseRecord{}, "Variant") {
		t.Fatalf("expected organization_plugins.variant column")
	}

	var applied int64
	if err := db.Model(&AppliedMigration{}).Count(&applied).Error; err != nil {
		t.Fatalf("counting applied migrations failed: %v", err)
	}
	if int(applied) != len(All()) {
		t.Fatalf("expected %d applied migrations, got %d", len(All()), applied)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openDatabase(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := Apply(ctx, db, applog.Discard()); err != nil {
			t.Fatalf("Apply run %d returned error: %v", i+1, err)
		}
	}

	var applied int64
	if err := db.Model(&AppliedMigration{}).Count(&applied).Error; err != nil {
		t.Fatalf("counting applied migrations failed: %v", err)
	}
	if int(applied) != len(All()) {
		t.Fatalf("expected each migration recorded once, got %d rows", applied)
	}
}

func TestVariantMigrationUpgradesExistingSchema(t *testing.T) {
	t.Parallel()

	db := openDatabase(t)
	ctx := context.Background()

	all := All()
	legacy := all[:len(all)-1]
	if err := Run(ctx, db, applog.Discard(), legacy); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if db.Migrator().HasColumn(&organizationdata.GlimpseRecord{}, "Variant") {
		t.Fatalf("expected legacy schema without variant column")
	}

	if err := Apply(ctx, db, applog.Discard()); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if !db.Migrator().HasColumn(&organizationdata.GlimpseRecord{}, "Variant") {
		t.Fatalf("expected variant column after upgrade")
	}
}

func TestRunRequiresDatabase(t *testing.T) {
	t.Parallel()

	if err := Apply(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func openDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "migrations.db")
	db, err := database.Open(database.Options{Path: path})
	if err != nil {
		t.Fatalf("database.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := database.Close(db); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	return db
}
