package banner_test

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	bannerdata "bannercms/app/internal/data/banner"
	"bannercms/app/internal/data/cms"
	"bannercms/app/internal/data/datatest"
	"bannercms/app/internal/data/factories"
	mediadata "bannercms/app/internal/data/media"
	domainbanner "bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/integrity"
	applog "bannercms/app/internal/platform/log"
)

type fixture struct {
	repo         *bannerdata.Repository
	placeholders *cms.Repository
	banners      *factories.LargeBanners
}

func setup(t *testing.T) fixture {
	t.Helper()

	db := datatest.Open(t)
	logger := applog.Discard()

	images, err := mediadata.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("media NewRepository returned error: %v", err)
	}

	repo, err := bannerdata.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	placeholders, err := cms.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("cms NewRepository returned error: %v", err)
	}

	banners, err := factories.NewLargeBanners(images, repo)
	if err != nil {
		t.Fatalf("NewLargeBanners returned error: %v", err)
	}

	return fixture{repo: repo, placeholders: placeholders, banners: banners}
}

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := bannerdata.NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	t.Parallel()

	f := setup(t)

	_, err := f.banners.Create(context.Background(), factories.WithoutTitle())
	if err == nil {
		t.Fatalf("expected integrity error for missing title")
	}

	if !integrity.IsNotNull(err, "title") {
		t.Fatalf("expected NOT NULL violation on title, got %T: %v", err, err)
	}

	if !strings.Contains(err.Error(), `null value in column "title" violates not-null constraint`) {
		t.Fatalf("unexpected error message %q", err.Error())
	}
}

func TestCreateRequiresLogo(t *testing.T) {
	t.Parallel()

	f := setup(t)

	_, err := f.banners.Create(context.Background(), factories.WithoutLogo())
	if err == nil {
		t.Fatalf("expected integrity error for missing logo")
	}

	if !strings.Contains(err.Error(), `null value in column "logo_id" violates not-null constraint`) {
		t.Fatalf("unexpected error message %q", err.Error())
	}
}

func TestCreateAllowsOptionalFieldsToBeAbsent(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()

	created, err := f.banners.Create(ctx, factories.WithoutBackgroundImage(), factories.WithoutLogoAltText())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, err := f.repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected stored banner")
	}
	if stored.BackgroundImage != nil {
		t.Fatalf("expected no background image, got %+v", stored.BackgroundImage)
	}
	if stored.LogoAltText != "" {
		t.Fatalf("expected empty alt text, got %q", stored.LogoAltText)
	}
}

func TestCreateRoundTripPreservesFields(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()

	created, err := f.banners.Create(ctx, factories.WithTitle("Welcome aboard"))
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, err := f.repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if diff := cmp.Diff(created, stored); diff != "" {
		t.Fatalf("stored banner mismatch (-want +got):\n%s", diff)
	}
}

func TestGetByIDReturnsNilForMissingBanner(t *testing.T) {
	t.Parallel()

	f := setup(t)

	stored, err := f.repo.GetByID(context.Background(), 4242)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored != nil {
		t.Fatalf("expected nil banner, got %+v", stored)
	}
}

func TestCreateInPlaceholderAppendsInstances(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()

	var pluginIDs []uint
	for i := 0; i < 2; i++ {
		built, err := f.banners.Build(ctx)
		if err != nil {
			t.Fatalf("Build returned error: %v", err)
		}

		instance, err := f.repo.CreateInPlaceholder(ctx, "homepage-header", "en", built)
		if err != nil {
			t.Fatalf("CreateInPlaceholder returned error: %v", err)
		}

		if instance.PluginType != domainbanner.PluginType || instance.Position != i {
			t.Fatalf("unexpected instance %+v", instance)
		}
		if built.PluginID != instance.ID {
			t.Fatalf("expected banner plugin id %d, got %d", instance.ID, built.PluginID)
		}
		pluginIDs = append(pluginIDs, instance.ID)
	}

	stored, err := f.repo.GetByPluginID(ctx, pluginIDs[1])
	if err != nil {
		t.Fatalf("GetByPluginID returned error: %v", err)
	}
	if stored == nil || stored.PluginID != pluginIDs[1] {
		t.Fatalf("expected banner for plugin %d, got %+v", pluginIDs[1], stored)
	}

	placeholder, err := f.placeholders.GetPlaceholder(ctx, "homepage-header")
	if err != nil || placeholder == nil {
		t.Fatalf("expected placeholder to be created, got %+v, %v", placeholder, err)
	}
	instances, err := f.placeholders.ListInstances(ctx, placeholder.ID, "en")
	if err != nil {
		t.Fatalf("ListInstances returned error: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("expected both instances in one placeholder, got %+v", instances)
	}
}

func TestCreateInPlaceholderRollsBackOnViolation(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()

	built, err := f.banners.Build(ctx, factories.WithoutTitle())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	if _, err := f.repo.CreateInPlaceholder(ctx, "sidebar", "en", built); !integrity.IsNotNull(err, "title") {
		t.Fatalf("expected title violation, got %v", err)
	}

	placeholder, err := f.placeholders.GetPlaceholder(ctx, "sidebar")
	if err != nil {
		t.Fatalf("GetPlaceholder returned error: %v", err)
	}
	if placeholder != nil {
		t.Fatalf("expected placeholder insert to be rolled back, got %+v", placeholder)
	}
}

func TestCreateInPlaceholderRollbackKeepsExistingPlaceholder(t *testing.T) {
	t.Parallel()

	f := setup(t)
	ctx := context.Background()

	existing, err := f.placeholders.GetOrCreatePlaceholder(ctx, "sidebar")
	if err != nil {
		t.Fatalf("GetOrCreatePlaceholder returned error: %v", err)
	}

	built, err := f.banners.Build(ctx, factories.WithoutTitle())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if _, err := f.repo.CreateInPlaceholder(ctx, "sidebar", "en", built); !integrity.IsNotNull(err, "title") {
		t.Fatalf("expected title violation, got %v", err)
	}

	placeholder, err := f.placeholders.GetPlaceholder(ctx, "sidebar")
	if err != nil || placeholder == nil || placeholder.ID != existing.ID {
		t.Fatalf("expected existing placeholder %d to survive, got %+v, %v", existing.ID, placeholder, err)
	}
	instances, err := f.placeholders.ListInstances(ctx, placeholder.ID, "")
	if err != nil {
		t.Fatalf("ListInstances returned error: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("expected plugin row to be rolled back, got %+v", instances)
	}
}

func TestCreateMapsPostgresNotNullViolation(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New returned error: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("gorm.Open returned error: %v", err)
	}

	repo, err := bannerdata.NewRepository(db, applog.Discard())
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	mock.ExpectQuery(`INSERT INTO "large_banner_plugins"`).
		WillReturnError(&pgconn.PgError{
			Code:       "23502",
			Message:    `null value in column "title" of relation "large_banner_plugins" violates not-null constraint`,
			TableName:  "large_banner_plugins",
			ColumnName: "title",
		})

	logoID := uint(7)
	err = repo.Create(context.Background(), &domainbanner.LargeBanner{Logo: mediadata.ToDomain(&mediadata.ImageRecord{ID: logoID, File: "logo.png"})})
	if !integrity.IsNotNull(err, "title") {
		t.Fatalf("expected title violation, got %T: %v", err, err)
	}

	if err.Error() != `null value in column "title" violates not-null constraint` {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}
