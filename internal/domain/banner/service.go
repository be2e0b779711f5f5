package banner

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"bannercms/app/internal/domain/plugin"
	applog "bannercms/app/internal/platform/log"
)

// Service defines large banner operations used by the API and seeding.
type Service interface {
	Create(ctx context.Context, banner *LargeBanner) error
	Get(ctx context.Context, id uint) (*LargeBanner, error)
	GetByPlugin(ctx context.Context, pluginID uint) (*LargeBanner, error)
	AddToPlaceholder(ctx context.Context, slot, language string, banner *LargeBanner) (*plugin.Instance, error)
}

type service struct {
	repo      Repository
	logger    *logrus.Entry
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the large banner service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("large banner repository is required")
	}

	return &service{
		repo:      repo,
		logger:    applog.Component(logger, "banner.service"),
		sentryHub: hub,
	}, nil
}

// Create stores a detached banner. Missing mandatory fields surface as
// integrity errors from the store, returned unwrapped.
func (s *service) Create(ctx context.Context, banner *LargeBanner) error {
	if banner == nil {
		return eris.New("large banner is nil")
	}

	normalise(banner)

	if err := s.repo.Create(ctx, banner); err != nil {
		s.recordError(logrus.Fields{"title": banner.Title}, err, "creating large banner")
		return err
	}

	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*LargeBanner, error) {
	banner, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"banner_id": id}, err, "loading large banner")
		return nil, eris.Wrapf(err, "loading large banner %d", id)
	}
	if banner == nil {
		return nil, eris.Wrapf(ErrNotFound, "loading large banner %d", id)
	}
	return banner, nil
}

func (s *service) GetByPlugin(ctx context.Context, pluginID uint) (*LargeBanner, error) {
	banner, err := s.repo.GetByPluginID(ctx, pluginID)
	if err != nil {
		s.recordError(logrus.Fields{"plugin_id": pluginID}, err, "loading large banner by plugin")
		return nil, eris.Wrapf(err, "loading large banner for plugin %d", pluginID)
	}
	if banner == nil {
		return nil, eris.Wrapf(ErrNotFound, "loading large banner for plugin %d", pluginID)
	}
	return banner, nil
}

// AddToPlaceholder attaches banner to the placeholder named slot, creating the
// placeholder on first use. A rejected banner leaves no placeholder behind.
func (s *service) AddToPlaceholder(ctx context.Context, slot, language string, banner *LargeBanner) (*plugin.Instance, error) {
	trimmedSlot := strings.TrimSpace(slot)
	if trimmedSlot == "" {
		return nil, eris.New("placeholder slot is required")
	}
	if banner == nil {
		return nil, eris.New("large banner is nil")
	}

	language = strings.TrimSpace(language)
	if language == "" {
		return nil, eris.New("language is required")
	}

	normalise(banner)

	instance, err := s.repo.CreateInPlaceholder(ctx, trimmedSlot, language, banner)
	if err != nil {
		s.recordError(logrus.Fields{"slot": trimmedSlot, "language": language}, err, "adding large banner to placeholder")
		return nil, err
	}

	return instance, nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	entry := s.logger
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	applog.CaptureError(entry, s.sentryHub, err, message)
}

// normalise trims the plain-text fields. Markup characters are kept as typed;
// templates escape them on output.
func normalise(banner *LargeBanner) {
	banner.Title = strings.TrimSpace(banner.Title)
	banner.LogoAltText = strings.TrimSpace(banner.LogoAltText)
}
