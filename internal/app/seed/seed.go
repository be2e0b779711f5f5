// Package seed loads YAML fixtures and stores them through the domain services.
package seed

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/media"
	"bannercms/app/internal/domain/organization"
	applog "bannercms/app/internal/platform/log"
)

// Fixtures is the document layout of a seed file.
type Fixtures struct {
	Images        map[string]ImageFixture        `yaml:"images"`
	Organizations map[string]OrganizationFixture `yaml:"organizations"`
	Placeholders  []PlaceholderFixture           `yaml:"placeholders"`
}

// ImageFixture describes an image asset referenced by key elsewhere in the file.
type ImageFixture struct {
	File   string `yaml:"file"`
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// OrganizationFixture describes an organization; Logo is an image key.
type OrganizationFixture struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Logo        string `yaml:"logo"`
}

// PlaceholderFixture lists the plugins stored in one slot, in order.
type PlaceholderFixture struct {
	Slot     string          `yaml:"slot"`
	Language string          `yaml:"language"`
	Plugins  []PluginFixture `yaml:"plugins"`
}

// PluginFixture is one plugin instance. Type selects which fields apply.
type PluginFixture struct {
	Type string `yaml:"type"`

	Title           string `yaml:"title"`
	BackgroundImage string `yaml:"background_image"`
	Logo            string `yaml:"logo"`
	LogoAltText     string `yaml:"logo_alt_text"`

	Organization string  `yaml:"organization"`
	Variant      *string `yaml:"variant"`
}

// Result counts what Apply stored.
type Result struct {
	Images        int
	Organizations int
	Plugins       int
}

// Seeder applies fixtures through the banner and organization services.
type Seeder struct {
	images        media.Repository
	banners       banner.Service
	organizations organization.Service
	language      string
	logger        *logrus.Entry
}

// NewSeeder wires a seeder with its dependencies. Placeholders without a
// language are stored under defaultLanguage.
func NewSeeder(images media.Repository, banners banner.Service, organizations organization.Service, defaultLanguage string, logger *logrus.Logger) (*Seeder, error) {
	switch {
	case images == nil:
		return nil, eris.New("image repository is required")
	case banners == nil:
		return nil, eris.New("large banner service is required")
	case organizations == nil:
		return nil, eris.New("organization service is required")
	}

	language := strings.TrimSpace(defaultLanguage)
	if language == "" {
		language = "en"
	}

	return &Seeder{
		images:        images,
		banners:       banners,
		organizations: organizations,
		language:      language,
		logger:        applog.Component(logger, "seed"),
	}, nil
}

// LoadFile reads fixtures from path.
func LoadFile(path string) (*Fixtures, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "opening seed file %s", path)
	}
	defer file.Close()

	return Load(file)
}

// Load decodes fixtures, rejecting unknown fields.
func Load(r io.Reader) (*Fixtures, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var fixtures Fixtures
	if err := decoder.Decode(&fixtures); err != nil {
		if eris.Is(err, io.EOF) {
			return &fixtures, nil
		}
		return nil, eris.Wrap(err, "decoding seed fixtures")
	}

	return &fixtures, nil
}

// Apply stores images first, then organizations, then every placeholder's
// plugins in document order. It stops at the first error.
func (s *Seeder) Apply(ctx context.Context, fixtures *Fixtures) (Result, error) {
	var result Result
	if fixtures == nil {
		return result, nil
	}

	images := make(map[string]*media.Image, len(fixtures.Images))
	for _, key := range sortedKeys(fixtures.Images) {
		fixture := fixtures.Images[key]
		image := &media.Image{
			File:   fixture.File,
			Name:   fixture.Name,
			Width:  fixture.Width,
			Height: fixture.Height,
		}
		if err := s.images.Create(ctx, image); err != nil {
			return result, eris.Wrapf(err, "seeding image %q", key)
		}
		images[key] = image
		result.Images++
	}

	lookup := func(key string) (*media.Image, error) {
		if strings.TrimSpace(key) == "" {
			return nil, nil
		}
		image, ok := images[key]
		if !ok {
			return nil, eris.Errorf("unknown image key %q", key)
		}
		return image, nil
	}

	organizations := make(map[string]*organization.Organization, len(fixtures.Organizations))
	for _, key := range sortedKeys(fixtures.Organizations) {
		fixture := fixtures.Organizations[key]
		logo, err := lookup(fixture.Logo)
		if err != nil {
			return result, eris.Wrapf(err, "seeding organization %q", key)
		}

		record := &organization.Organization{
			Title:       fixture.Title,
			Description: fixture.Description,
			Logo:        logo,
		}
		if err := s.organizations.Create(ctx, record); err != nil {
			return result, eris.Wrapf(err, "seeding organization %q", key)
		}
		organizations[key] = record
		result.Organizations++
	}

	for _, placeholder := range fixtures.Placeholders {
		language := strings.TrimSpace(placeholder.Language)
		if language == "" {
			language = s.language
		}

		for i, fixture := range placeholder.Plugins {
			fields := logrus.Fields{"slot": placeholder.Slot, "language": language, "position": i, "plugin_type": fixture.Type}

			switch fixture.Type {
			case banner.PluginType:
				background, err := lookup(fixture.BackgroundImage)
				if err != nil {
					return result, eris.Wrapf(err, "seeding %s plugin %d", placeholder.Slot, i)
				}
				logo, err := lookup(fixture.Logo)
				if err != nil {
					return result, eris.Wrapf(err, "seeding %s plugin %d", placeholder.Slot, i)
				}

				record := &banner.LargeBanner{
					Title:           fixture.Title,
					BackgroundImage: background,
					Logo:            logo,
					LogoAltText:     fixture.LogoAltText,
				}
				if _, err := s.banners.AddToPlaceholder(ctx, placeholder.Slot, language, record); err != nil {
					return result, eris.Wrapf(err, "seeding %s plugin %d", placeholder.Slot, i)
				}

			case organization.PluginType:
				record, ok := organizations[fixture.Organization]
				if !ok {
					return result, eris.Errorf("seeding %s plugin %d: unknown organization key %q", placeholder.Slot, i, fixture.Organization)
				}
				if _, _, err := s.organizations.AddGlimpse(ctx, placeholder.Slot, language, record.ID, fixture.Variant); err != nil {
					return result, eris.Wrapf(err, "seeding %s plugin %d", placeholder.Slot, i)
				}

			default:
				return result, eris.Errorf("seeding %s plugin %d: unsupported plugin type %q", placeholder.Slot, i, fixture.Type)
			}

			s.logger.WithFields(fields).Debug("seeded plugin")
			result.Plugins++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"images":        result.Images,
		"organizations": result.Organizations,
		"plugins":       result.Plugins,
	}).Info("seed fixtures applied")

	return result, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
