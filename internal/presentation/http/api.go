package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/content"
	"bannercms/app/internal/domain/integrity"
	"bannercms/app/internal/domain/media"
	"bannercms/app/internal/domain/organization"
)

type imageView struct {
	ID     uint   `json:"id"`
	File   string `json:"file"`
	Name   string `json:"name,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

type renditionView struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

type bannerView struct {
	ID              uint            `json:"id"`
	PluginID        uint            `json:"plugin_id,omitempty"`
	Title           string          `json:"title"`
	LogoAltText     string          `json:"logo_alt_text"`
	BackgroundImage *imageView      `json:"background_image,omitempty"`
	Backgrounds     []renditionView `json:"backgrounds,omitempty"`
	Logo            *imageView      `json:"logo,omitempty"`
	LogoThumbnail   *renditionView  `json:"logo_thumbnail,omitempty"`
}

type organizationView struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	DescriptionHTML string     `json:"description_html,omitempty"`
	Logo            *imageView `json:"logo,omitempty"`
}

type glimpseView struct {
	ID             uint    `json:"id"`
	PluginID       uint    `json:"plugin_id"`
	OrganizationID uint    `json:"organization_id"`
	Variant        *string `json:"variant"`
}

type variantChoiceView struct {
	Value *string `json:"value"`
	Label string  `json:"label"`
}

type createImageInput struct {
	Body struct {
		File   string `json:"file" minLength:"1" maxLength:"255"`
		Name   string `json:"name,omitempty" maxLength:"255"`
		Width  int    `json:"width,omitempty" minimum:"0"`
		Height int    `json:"height,omitempty" minimum:"0"`
	}
}

type imageOutput struct {
	Body imageView
}

// Title and logo stay optional here; missing values reach the store as NULL.
type createBannerInput struct {
	Body struct {
		Title             string `json:"title,omitempty" maxLength:"255"`
		BackgroundImageID *uint  `json:"background_image_id,omitempty"`
		LogoID            *uint  `json:"logo_id,omitempty"`
		LogoAltText       string `json:"logo_alt_text,omitempty" maxLength:"255"`
		Placeholder       string `json:"placeholder,omitempty" maxLength:"255" doc:"Attach the banner to this placeholder slot"`
		Language          string `json:"language,omitempty" maxLength:"15"`
	}
}

type bannerIDInput struct {
	ID uint `path:"id"`
}

type bannerOutput struct {
	Body bannerView
}

type createOrganizationInput struct {
	Body struct {
		Title       string `json:"title,omitempty" maxLength:"255"`
		Description string `json:"description,omitempty"`
		LogoID      *uint  `json:"logo_id,omitempty"`
	}
}

type organizationIDInput struct {
	ID uint `path:"id"`
}

type organizationOutput struct {
	Body organizationView
}

type createGlimpseInput struct {
	Body struct {
		Placeholder    string  `json:"placeholder" minLength:"1" maxLength:"255"`
		Language       string  `json:"language,omitempty" maxLength:"15"`
		OrganizationID uint    `json:"organization_id"`
		Variant        *string `json:"variant,omitempty" maxLength:"50"`
	}
}

type glimpseOutput struct {
	Body glimpseView
}

type variantsOutput struct {
	Body struct {
		HelpText  string              `json:"help_text"`
		MaxLength int                 `json:"max_length"`
		Choices   []variantChoiceView `json:"choices"`
	}
}

func (s *Server) registerImageRoutes() {
	huma.Post(s.api, "/api/images", s.createImageHandler, created("Register an image asset"))
}

func (s *Server) registerBannerRoutes() {
	huma.Post(s.api, "/api/large-banners", s.createBannerHandler, created("Create a large banner"))
	huma.Get(s.api, "/api/large-banners/{id}", s.getBannerHandler, func(op *huma.Operation) {
		op.Summary = "Fetch a large banner"
	})
}

func (s *Server) registerOrganizationRoutes() {
	huma.Post(s.api, "/api/organizations", s.createOrganizationHandler, created("Create an organization"))
	huma.Get(s.api, "/api/organizations/{id}", s.getOrganizationHandler, func(op *huma.Operation) {
		op.Summary = "Fetch an organization"
	})
	huma.Post(s.api, "/api/organization-glimpses", s.createGlimpseHandler, created("Add an organization glimpse to a placeholder"))
	huma.Get(s.api, "/api/organization-glimpses/variants", s.variantsHandler, func(op *huma.Operation) {
		op.Summary = "List glimpse variants"
	})
}

func (s *Server) createImageHandler(ctx context.Context, input *createImageInput) (*imageOutput, error) {
	image := &media.Image{
		File:   input.Body.File,
		Name:   input.Body.Name,
		Width:  input.Body.Width,
		Height: input.Body.Height,
	}

	if err := s.images.Create(ctx, image); err != nil {
		return nil, s.apiError(ctx, err, "registering image", logrus.Fields{"file": input.Body.File})
	}

	return &imageOutput{Body: *s.imageView(image)}, nil
}

func (s *Server) createBannerHandler(ctx context.Context, input *createBannerInput) (*bannerOutput, error) {
	background, err := s.lookupImage(ctx, input.Body.BackgroundImageID)
	if err != nil {
		return nil, err
	}
	logo, err := s.lookupImage(ctx, input.Body.LogoID)
	if err != nil {
		return nil, err
	}

	record := &banner.LargeBanner{
		Title:           input.Body.Title,
		BackgroundImage: background,
		Logo:            logo,
		LogoAltText:     input.Body.LogoAltText,
	}

	if slot := strings.TrimSpace(input.Body.Placeholder); slot != "" {
		_, err = s.banners.AddToPlaceholder(ctx, slot, s.language(input.Body.Language), record)
	} else {
		err = s.banners.Create(ctx, record)
	}
	if err != nil {
		return nil, s.apiError(ctx, err, "creating large banner", logrus.Fields{"placeholder": input.Body.Placeholder})
	}

	view, err := s.bannerView(record)
	if err != nil {
		return nil, s.apiError(ctx, err, "deriving banner images", nil)
	}
	return &bannerOutput{Body: view}, nil
}

func (s *Server) getBannerHandler(ctx context.Context, input *bannerIDInput) (*bannerOutput, error) {
	record, err := s.banners.Get(ctx, input.ID)
	if err != nil {
		return nil, s.apiError(ctx, err, "loading large banner", logrus.Fields{"banner_id": input.ID})
	}

	view, err := s.bannerView(record)
	if err != nil {
		return nil, s.apiError(ctx, err, "deriving banner images", logrus.Fields{"banner_id": input.ID})
	}
	return &bannerOutput{Body: view}, nil
}

func (s *Server) createOrganizationHandler(ctx context.Context, input *createOrganizationInput) (*organizationOutput, error) {
	logo, err := s.lookupImage(ctx, input.Body.LogoID)
	if err != nil {
		return nil, err
	}

	record := &organization.Organization{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Logo:        logo,
	}
	if err := s.organizations.Create(ctx, record); err != nil {
		return nil, s.apiError(ctx, err, "creating organization", nil)
	}

	return &organizationOutput{Body: s.organizationView(record)}, nil
}

func (s *Server) getOrganizationHandler(ctx context.Context, input *organizationIDInput) (*organizationOutput, error) {
	record, err := s.organizations.Get(ctx, input.ID)
	if err != nil {
		return nil, s.apiError(ctx, err, "loading organization", logrus.Fields{"organization_id": input.ID})
	}
	return &organizationOutput{Body: s.organizationView(record)}, nil
}

func (s *Server) createGlimpseHandler(ctx context.Context, input *createGlimpseInput) (*glimpseOutput, error) {
	glimpse, instance, err := s.organizations.AddGlimpse(
		ctx,
		input.Body.Placeholder,
		s.language(input.Body.Language),
		input.Body.OrganizationID,
		input.Body.Variant,
	)
	if err != nil {
		return nil, s.apiError(ctx, err, "adding organization glimpse", logrus.Fields{
			"placeholder":     input.Body.Placeholder,
			"organization_id": input.Body.OrganizationID,
		})
	}

	return &glimpseOutput{Body: glimpseView{
		ID:             glimpse.ID,
		PluginID:       instance.ID,
		OrganizationID: input.Body.OrganizationID,
		Variant:        glimpse.Variant,
	}}, nil
}

func (s *Server) variantsHandler(_ context.Context, _ *struct{}) (*variantsOutput, error) {
	out := &variantsOutput{}
	out.Body.HelpText = organization.VariantHelpText
	out.Body.MaxLength = organization.VariantMaxLength

	for _, choice := range s.organizations.Variants().Choices() {
		view := variantChoiceView{Label: choice.Label}
		if choice.Value != "" {
			value := choice.Value
			view.Value = &value
		}
		out.Body.Choices = append(out.Body.Choices, view)
	}

	return out, nil
}

func (s *Server) lookupImage(ctx context.Context, id *uint) (*media.Image, error) {
	if id == nil {
		return nil, nil
	}

	image, err := s.images.GetByID(ctx, *id)
	if err != nil {
		return nil, s.apiError(ctx, err, "loading image", logrus.Fields{"image_id": *id})
	}
	if image == nil {
		return nil, huma.Error422UnprocessableEntity(fmt.Sprintf("image %d does not exist", *id))
	}
	return image, nil
}

func (s *Server) imageView(image *media.Image) *imageView {
	if image == nil {
		return nil
	}
	return &imageView{
		ID:     image.ID,
		File:   image.File,
		Name:   image.Name,
		Width:  image.Width,
		Height: image.Height,
		URL:    s.thumbnailer.SourceURL(*image),
	}
}

func (s *Server) rendition(image media.Image, opts media.ThumbnailOptions) (renditionView, error) {
	url, err := s.thumbnailer.ThumbnailURL(image, opts)
	if err != nil {
		return renditionView{}, err
	}
	return renditionView{Width: opts.Width, Height: opts.Height, URL: url}, nil
}

func (s *Server) bannerView(record *banner.LargeBanner) (bannerView, error) {
	view := bannerView{
		ID:              record.ID,
		PluginID:        record.PluginID,
		Title:           record.Title,
		LogoAltText:     record.LogoAltText,
		BackgroundImage: s.imageView(record.BackgroundImage),
		Logo:            s.imageView(record.Logo),
	}

	if record.BackgroundImage != nil {
		for _, opts := range banner.BackgroundRenditions {
			rendition, err := s.rendition(*record.BackgroundImage, opts)
			if err != nil {
				return bannerView{}, err
			}
			view.Backgrounds = append(view.Backgrounds, rendition)
		}
	}

	if record.Logo != nil {
		rendition, err := s.rendition(*record.Logo, banner.LogoRendition)
		if err != nil {
			return bannerView{}, err
		}
		view.LogoThumbnail = &rendition
	}

	return view, nil
}

func (s *Server) organizationView(record *organization.Organization) organizationView {
	return organizationView{
		ID:              record.ID,
		Title:           record.Title,
		Description:     record.Description,
		DescriptionHTML: string(content.Markdown(record.Description)),
		Logo:            s.imageView(record.Logo),
	}
}

// apiError maps domain errors onto API problem responses.
func (s *Server) apiError(ctx context.Context, err error, message string, fields logrus.Fields) error {
	if violation, ok := integrity.As(err); ok {
		return huma.Error422UnprocessableEntity(violation.Error())
	}

	switch {
	case eris.Is(err, organization.ErrInvalidVariant):
		return huma.Error422UnprocessableEntity(err.Error())
	case eris.Is(err, banner.ErrNotFound), eris.Is(err, organization.ErrNotFound), eris.Is(err, media.ErrNotFound):
		return huma.Error404NotFound(eris.Cause(err).Error())
	}

	s.recordError(ctx, err, message, fields)
	return huma.Error500InternalServerError(errorFallbackMessage)
}

func created(summary string) func(op *huma.Operation) {
	return func(op *huma.Operation) {
		op.Summary = summary
		op.DefaultStatus = stdhttp.StatusCreated
	}
}
