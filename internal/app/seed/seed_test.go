package seed_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"bannercms/app/internal/app/seed"
	bannerdata "bannercms/app/internal/data/banner"
	"bannercms/app/internal/data/cms"
	"bannercms/app/internal/data/datatest"
	mediadata "bannercms/app/internal/data/media"
	organizationdata "bannercms/app/internal/data/organization"
	"bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/organization"
	applog "bannercms/app/internal/platform/log"
)

type fixture struct {
	seeder        *seed.Seeder
	placeholders  *cms.Repository
	banners       *bannerdata.Repository
	organizations *organizationdata.Repository
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := datatest.Open(t)
	logger := applog.Discard()

	images, err := mediadata.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("media NewRepository returned error: %v", err)
	}
	banners, err := bannerdata.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("banner NewRepository returned error: %v", err)
	}
	organizations, err := organizationdata.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("organization NewRepository returned error: %v", err)
	}
	placeholders, err := cms.NewRepository(db, logger)
	if err != nil {
		t.Fatalf("cms NewRepository returned error: %v", err)
	}

	bannerService, err := banner.NewService(banners, logger, nil)
	if err != nil {
		t.Fatalf("banner NewService returned error: %v", err)
	}
	variants, err := organization.NewVariants("compact")
	if err != nil {
		t.Fatalf("NewVariants returned error: %v", err)
	}
	organizationService, err := organization.NewService(organizations, variants, logger, nil)
	if err != nil {
		t.Fatalf("organization NewService returned error: %v", err)
	}

	seeder, err := seed.NewSeeder(images, bannerService, organizationService, "en", logger)
	if err != nil {
		t.Fatalf("NewSeeder returned error: %v", err)
	}

	return fixture{
		seeder:        seeder,
		placeholders:  placeholders,
		banners:       banners,
		organizations: organizations,
	}
}

func TestApplyDemoFixtures(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	fixtures, err := seed.LoadFile("testdata/demo.yaml")
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}

	result, err := f.seeder.Apply(ctx, fixtures)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	if diff := cmp.Diff(seed.Result{Images: 2, Organizations: 1, Plugins: 3}, result); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}

	home, err := f.placeholders.GetPlaceholder(ctx, "home")
	if err != nil || home == nil {
		t.Fatalf("expected home placeholder, got %v (%v)", home, err)
	}

	instances, err := f.placeholders.ListInstances(ctx, home.ID, "en")
	if err != nil {
		t.Fatalf("ListInstances returned error: %v", err)
	}

	var types []string
	for _, instance := range instances {
		types = append(types, instance.PluginType)
	}
	if diff := cmp.Diff([]string{banner.PluginType, organization.PluginType}, types); diff != "" {
		t.Fatalf("unexpected plugin order (-want +got):\n%s", diff)
	}

	stored, err := f.banners.GetByPluginID(ctx, instances[0].ID)
	if err != nil || stored == nil {
		t.Fatalf("expected stored banner, got %v (%v)", stored, err)
	}
	if stored.Title != "Welcome to Acme" || stored.BackgroundImage == nil || stored.Logo == nil {
		t.Fatalf("unexpected stored banner %+v", stored)
	}
	if stored.Logo.File != "filer_public/9c/41/acme-logo.png" {
		t.Fatalf("expected logo image to resolve by key, got %q", stored.Logo.File)
	}

	partners, err := f.placeholders.GetPlaceholder(ctx, "partners")
	if err != nil || partners == nil {
		t.Fatalf("expected partners placeholder, got %v (%v)", partners, err)
	}
	glimpses, err := f.placeholders.ListInstances(ctx, partners.ID, "en")
	if err != nil || len(glimpses) != 1 {
		t.Fatalf("expected one glimpse in default language, got %v (%v)", glimpses, err)
	}

	glimpse, err := f.organizations.GetGlimpseByPluginID(ctx, glimpses[0].ID)
	if err != nil || glimpse == nil {
		t.Fatalf("expected stored glimpse, got %v (%v)", glimpse, err)
	}
	if glimpse.VariantValue() != "compact" {
		t.Fatalf("expected compact variant, got %q", glimpse.VariantValue())
	}
}

func TestApplyRejectsUnknownImageKey(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	fixtures, err := seed.Load(strings.NewReader(`
placeholders:
  - slot: home
    plugins:
      - type: LargeBannerPlugin
        title: Broken
        logo: missing
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	_, err = f.seeder.Apply(context.Background(), fixtures)
	if err == nil || !strings.Contains(err.Error(), `unknown image key "missing"`) {
		t.Fatalf("expected unknown image key error, got %v", err)
	}
}

func TestApplySurfacesIntegrityErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	fixtures, err := seed.Load(strings.NewReader(`
placeholders:
  - slot: home
    plugins:
      - type: LargeBannerPlugin
        title: No logo
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	_, err = f.seeder.Apply(context.Background(), fixtures)
	if err == nil || !strings.Contains(err.Error(), `null value in column "logo_id" violates not-null constraint`) {
		t.Fatalf("expected logo_id not-null violation, got %v", err)
	}
}

func TestApplyRejectsUnsupportedPluginType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	fixtures := &seed.Fixtures{Placeholders: []seed.PlaceholderFixture{{
		Slot:    "home",
		Plugins: []seed.PluginFixture{{Type: "TextPlugin"}},
	}}}

	_, err := f.seeder.Apply(context.Background(), fixtures)
	if err == nil || !strings.Contains(err.Error(), "unsupported plugin type") {
		t.Fatalf("expected unsupported plugin type error, got %v", err)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := seed.Load(strings.NewReader("banners: []\n"))
	if err == nil {
		t.Fatalf("expected error for unknown top-level field")
	}

	empty, err := seed.Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("expected empty document to load, got %v", err)
	}
	if empty.Images != nil || empty.Placeholders != nil {
		t.Fatalf("expected empty fixtures, got %+v", empty)
	}
}
