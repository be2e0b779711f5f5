package bootstrap

import (
	"context"
	"os"
	"path/filepath"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bannercms/app/internal/app/seed"
	bannerdata "bannercms/app/internal/data/banner"
	"bannercms/app/internal/data/cms"
	"bannercms/app/internal/data/database"
	mediadata "bannercms/app/internal/data/media"
	"bannercms/app/internal/data/migrations"
	organizationdata "bannercms/app/internal/data/organization"
	"bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/media"
	"bannercms/app/internal/domain/organization"
	"bannercms/app/internal/domain/plugin"
	"bannercms/app/internal/infrastructure/thumbnail"
	"bannercms/app/internal/platform/config"
	presentationhttp "bannercms/app/internal/presentation/http"
	"bannercms/app/internal/presentation/render"
	"bannercms/app/internal/presentation/templates"
)

type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

type Result struct {
	Database      *gorm.DB
	Banners       banner.Service
	Organizations organization.Service
	Renderer      *render.ContentRenderer
	Seeder        *seed.Seeder
	HTTPServer    *presentationhttp.Server
	Cleanup       func() error
}

// OpenDatabase connects to the configured store, creating the SQLite
// directory on first use.
func OpenDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverSQLite && cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, eris.Wrapf(err, "creating database directory for %s", cfg.DBPath)
		}
	}

	db, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DatabaseURL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "opening database")
	}
	return db, nil
}

// NewThumbnailer returns the image derivation backend selected by THUMBNAIL_BACKEND.
func NewThumbnailer(cfg config.Config) (media.Thumbnailer, error) {
	switch cfg.ThumbnailBackend {
	case "", config.ThumbnailBackendFileSystem:
		return thumbnail.NewFileSystem(thumbnail.FileSystemOptions{
			MediaURL: cfg.MediaURL,
			Prefix:   cfg.ThumbnailPrefix,
		}), nil
	case config.ThumbnailBackendCloudinary:
		cloudinary, err := thumbnail.NewCloudinary(cfg.CloudinaryURL)
		if err != nil {
			return nil, eris.Wrap(err, "configuring cloudinary thumbnailer")
		}
		return cloudinary, nil
	default:
		return nil, eris.Errorf("unsupported thumbnail backend: %s", cfg.ThumbnailBackend)
	}
}

// Build composes the banner CMS application layers and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	db, err := OpenDatabase(deps.Config)
	if err != nil {
		return Result{}, err
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := database.Close(db); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	if err := migrations.Apply(ctx, db, deps.Logger); err != nil {
		return closeOnError(eris.Wrap(err, "running migrations"))
	}

	images, err := mediadata.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating image repository"))
	}
	placeholders, err := cms.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating placeholder repository"))
	}
	bannerRepo, err := bannerdata.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating large banner repository"))
	}
	organizationRepo, err := organizationdata.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating organization repository"))
	}

	banners, err := banner.NewService(bannerRepo, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating large banner service"))
	}

	variants, err := organization.NewVariants(deps.Config.GlimpseVariants...)
	if err != nil {
		return closeOnError(eris.Wrap(err, "parsing GLIMPSE_VARIANTS"))
	}
	organizations, err := organization.NewService(organizationRepo, variants, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating organization service"))
	}

	bannerPlugin, err := banner.NewPlugin(bannerRepo)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating large banner plugin"))
	}
	organizationPlugin, err := organization.NewPlugin(organizationRepo)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating organization plugin"))
	}
	pool, err := plugin.NewPool(bannerPlugin, organizationPlugin)
	if err != nil {
		return closeOnError(eris.Wrap(err, "registering plugins"))
	}

	thumbnailer, err := NewThumbnailer(deps.Config)
	if err != nil {
		return closeOnError(err)
	}

	set, err := templates.New(thumbnailer)
	if err != nil {
		return closeOnError(eris.Wrap(err, "parsing templates"))
	}

	renderer, err := render.NewContentRenderer(render.Options{
		Pool:         pool,
		Placeholders: placeholders,
		Templates:    set,
		Logger:       deps.Logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating content renderer"))
	}

	seeder, err := seed.NewSeeder(images, banners, organizations, deps.Config.DefaultLanguage, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating seeder"))
	}

	httpServer, err := presentationhttp.NewServer(presentationhttp.Options{
		Renderer:        renderer,
		Templates:       set,
		Banners:         banners,
		Organizations:   organizations,
		Images:          images,
		Thumbnailer:     thumbnailer,
		DB:              db,
		MediaRoot:       deps.Config.MediaRoot,
		DefaultLanguage: deps.Config.DefaultLanguage,
		Logger:          deps.Logger,
		SentryHub:       deps.SentryHub,
		RateLimiter: presentationhttp.RateLimiterSettings{
			Burst:             deps.Config.RateLimit.Burst,
			RequestsPerSecond: deps.Config.RateLimit.RequestsPerSecond,
			ClientTTL:         deps.Config.RateLimit.ClientTTL,
		},
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return database.Close(db)
	}

	return Result{
		Database:      db,
		Banners:       banners,
		Organizations: organizations,
		Renderer:      renderer,
		Seeder:        seeder,
		HTTPServer:    httpServer,
		Cleanup:       cleanup,
	}, nil
}
