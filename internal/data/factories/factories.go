// Package factories builds randomized, persisted records for tests and demo seeding.
package factories

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/media"
)

var words = []string{
	"aurora", "harbor", "meadow", "quartz", "lantern", "summit", "orchard",
	"bridge", "canyon", "ember", "glacier", "horizon", "island", "juniper",
	"kestrel", "lagoon", "marble", "nectar", "prairie", "river",
}

var extensions = []string{".jpg", ".png", ".webp"}

// Sentence returns n random words, the first one capitalised.
func Sentence(n int) string {
	if n <= 0 {
		return ""
	}

	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[rand.IntN(len(words))]
	}
	parts[0] = strings.ToUpper(parts[0][:1]) + parts[0][1:]
	return strings.Join(parts, " ")
}

// Image returns an unsaved image asset with a filer style file path.
func Image() *media.Image {
	id := uuid.NewString()
	name := words[rand.IntN(len(words))] + extensions[rand.IntN(len(extensions))]

	return &media.Image{
		File:   fmt.Sprintf("filer_public/%s/%s/%s/%s", id[0:2], id[2:4], id, name),
		Name:   name,
		Width:  800 + rand.IntN(2400),
		Height: 400 + rand.IntN(1200),
	}
}

// Images persists random image assets.
type Images struct {
	repo media.Repository
}

// NewImages constructs an image factory backed by repo.
func NewImages(repo media.Repository) (*Images, error) {
	if repo == nil {
		return nil, eris.New("image repository is required")
	}
	return &Images{repo: repo}, nil
}

// Create stores a random image.
func (f *Images) Create(ctx context.Context) (*media.Image, error) {
	image := Image()
	if err := f.repo.Create(ctx, image); err != nil {
		return nil, eris.Wrap(err, "creating factory image")
	}
	return image, nil
}

// BannerOption adjusts a generated banner before it is stored.
type BannerOption func(*bannerSettings)

type bannerSettings struct {
	title         *string
	noTitle       bool
	noLogo        bool
	noBackground  bool
	noLogoAltText bool
}

// WithTitle fixes the banner title.
func WithTitle(title string) BannerOption {
	return func(s *bannerSettings) { s.title = &title }
}

// WithoutTitle leaves the title empty so the store sees NULL.
func WithoutTitle() BannerOption {
	return func(s *bannerSettings) { s.noTitle = true }
}

// WithoutLogo leaves the logo unset.
func WithoutLogo() BannerOption {
	return func(s *bannerSettings) { s.noLogo = true }
}

// WithoutBackgroundImage leaves the background unset.
func WithoutBackgroundImage() BannerOption {
	return func(s *bannerSettings) { s.noBackground = true }
}

// WithoutLogoAltText leaves the alt text empty.
func WithoutLogoAltText() BannerOption {
	return func(s *bannerSettings) { s.noLogoAltText = true }
}

// LargeBanners persists random large banners and the images they reference.
type LargeBanners struct {
	images *Images
	repo   banner.Repository
}

// NewLargeBanners constructs a banner factory.
func NewLargeBanners(images media.Repository, banners banner.Repository) (*LargeBanners, error) {
	imageFactory, err := NewImages(images)
	if err != nil {
		return nil, err
	}
	if banners == nil {
		return nil, eris.New("large banner repository is required")
	}
	return &LargeBanners{images: imageFactory, repo: banners}, nil
}

// Build returns an unsaved banner whose images are already stored.
func (f *LargeBanners) Build(ctx context.Context, opts ...BannerOption) (*banner.LargeBanner, error) {
	var settings bannerSettings
	for _, opt := range opts {
		opt(&settings)
	}

	out := &banner.LargeBanner{}

	switch {
	case settings.noTitle:
	case settings.title != nil:
		out.Title = *settings.title
	default:
		out.Title = Sentence(3)
	}

	if !settings.noLogoAltText {
		out.LogoAltText = Sentence(2)
	}

	if !settings.noBackground {
		background, err := f.images.Create(ctx)
		if err != nil {
			return nil, err
		}
		out.BackgroundImage = background
	}

	if !settings.noLogo {
		logo, err := f.images.Create(ctx)
		if err != nil {
			return nil, err
		}
		out.Logo = logo
	}

	return out, nil
}

// Create builds and stores a detached banner. Integrity errors from the
// store are returned unwrapped.
func (f *LargeBanners) Create(ctx context.Context, opts ...BannerOption) (*banner.LargeBanner, error) {
	out, err := f.Build(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := f.repo.Create(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}
