// Package templates renders plugin and page markup as templ components.
package templates

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/rotisserie/eris"

	"bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/media"
)

//go:embed files/*.gohtml
var files embed.FS

const (
	pageTemplate  = "page"
	errorTemplate = "error"
)

// PageData describes the document wrapping a rendered placeholder.
type PageData struct {
	Title       string
	Language    string
	Slot        string
	Stylesheets []string
	Body        template.HTML
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	StatusLabel string
	Message     string
}

// Set holds the parsed templates and the thumbnailer their helpers use.
type Set struct {
	templates   *template.Template
	thumbnailer media.Thumbnailer
}

// New parses the embedded templates.
func New(thumbnailer media.Thumbnailer) (*Set, error) {
	if thumbnailer == nil {
		return nil, eris.New("thumbnailer is required")
	}

	set := &Set{thumbnailer: thumbnailer}

	parsed, err := template.New("root").Funcs(template.FuncMap{
		"thumbnail":         set.thumbnail,
		"rendition":         set.rendition,
		"bannerBackground":  func() media.ThumbnailOptions { return banner.DefaultBackgroundRendition },
		"bannerBackgrounds": func() []media.ThumbnailOptions { return banner.BackgroundRenditions },
		"bannerLogo":        func() media.ThumbnailOptions { return banner.LogoRendition },
		"bannerLogoRetina":  func() media.ThumbnailOptions { return banner.LogoRetinaRendition },
	}).ParseFS(files, "files/*.gohtml")
	if err != nil {
		return nil, eris.Wrap(err, "parsing templates")
	}

	set.templates = parsed
	return set, nil
}

// Has reports whether a template called name is defined.
func (s *Set) Has(name string) bool {
	return s.templates.Lookup(name) != nil
}

// Component returns a component executing the named template with data.
func (s *Set) Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		tmpl := s.templates.Lookup(name)
		if tmpl == nil {
			return eris.Errorf("template %s is not defined", name)
		}

		if err := tmpl.Execute(w, data); err != nil {
			return eris.Wrapf(err, "executing template %s", name)
		}
		return nil
	})
}

// Page wraps rendered placeholder markup in the document layout.
func (s *Set) Page(data PageData) templ.Component {
	if data.Language == "" {
		data.Language = "en"
	}
	return s.Component(pageTemplate, data)
}

// ErrorPage renders an error document.
func (s *Set) ErrorPage(data ErrorPageData) templ.Component {
	return s.Component(errorTemplate, data)
}

// RawHTML returns a templ component that writes the provided HTML without escaping.
func RawHTML(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := io.WriteString(w, html)
		return err
	})
}

func (s *Set) thumbnail(image *media.Image, size string, flags ...string) (string, error) {
	opts, err := media.ParseThumbnailOptions(size, flags...)
	if err != nil {
		return "", err
	}

	return s.rendition(image, opts)
}

func (s *Set) rendition(image *media.Image, opts media.ThumbnailOptions) (string, error) {
	if image == nil {
		return "", eris.New("thumbnail of a missing image")
	}

	return s.thumbnailer.ThumbnailURL(*image, opts)
}
