package organization

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"bannercms/app/internal/domain/plugin"
	applog "bannercms/app/internal/platform/log"
)

// Service defines organization and glimpse operations.
type Service interface {
	Create(ctx context.Context, organization *Organization) error
	Get(ctx context.Context, id uint) (*Organization, error)
	AddGlimpse(ctx context.Context, slot, language string, organizationID uint, variant *string) (*Glimpse, *plugin.Instance, error)
	Variants() Variants
}

type service struct {
	repo      Repository
	variants  Variants
	logger    *logrus.Entry
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the organization service with its dependencies.
func NewService(repo Repository, variants Variants, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("organization repository is required")
	}
	if len(variants.choices) == 0 {
		defaults, err := NewVariants()
		if err != nil {
			return nil, err
		}
		variants = defaults
	}

	return &service{
		repo:      repo,
		variants:  variants,
		logger:    applog.Component(logger, "organization.service"),
		sentryHub: hub,
	}, nil
}

func (s *service) Create(ctx context.Context, organization *Organization) error {
	if organization == nil {
		return eris.New("organization is nil")
	}

	organization.Title = strings.TrimSpace(organization.Title)
	organization.Description = strings.TrimSpace(organization.Description)

	if err := s.repo.Create(ctx, organization); err != nil {
		s.recordError(logrus.Fields{"title": organization.Title}, err, "creating organization")
		return err
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*Organization, error) {
	organization, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"organization_id": id}, err, "loading organization")
		return nil, eris.Wrapf(err, "loading organization %d", id)
	}
	if organization == nil {
		return nil, eris.Wrapf(ErrNotFound, "loading organization %d", id)
	}
	return organization, nil
}

// AddGlimpse attaches a glimpse of the organization to the placeholder named slot.
func (s *service) AddGlimpse(ctx context.Context, slot, language string, organizationID uint, variant *string) (*Glimpse, *plugin.Instance, error) {
	trimmedSlot := strings.TrimSpace(slot)
	if trimmedSlot == "" {
		return nil, nil, eris.New("placeholder slot is required")
	}

	language = strings.TrimSpace(language)
	if language == "" {
		return nil, nil, eris.New("language is required")
	}

	normalised, err := s.variants.Normalise(variant)
	if err != nil {
		return nil, nil, err
	}

	organization, err := s.Get(ctx, organizationID)
	if err != nil {
		return nil, nil, err
	}

	glimpse := &Glimpse{Organization: organization, Variant: normalised}
	instance, err := s.repo.CreateGlimpseInPlaceholder(ctx, trimmedSlot, language, glimpse)
	if err != nil {
		s.recordError(logrus.Fields{"slot": trimmedSlot, "organization_id": organizationID}, err, "adding organization glimpse")
		return nil, nil, err
	}

	return glimpse, instance, nil
}

func (s *service) Variants() Variants {
	return s.variants
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	entry := s.logger
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	applog.CaptureError(entry, s.sentryHub, err, message)
}
