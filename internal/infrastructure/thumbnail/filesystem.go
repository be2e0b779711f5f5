// Package thumbnail derives image URLs for the media service.
package thumbnail

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"bannercms/app/internal/domain/media"
)

const (
	defaultMediaURL = "/media/"
	defaultPrefix   = "filer_public_thumbnails"
	defaultExt      = ".jpg"
)

// FileSystemOptions configures the filesystem thumbnailer.
type FileSystemOptions struct {
	MediaURL string
	Prefix   string
}

// FileSystem names derived images the way the media service writes them to
// disk: <media>/<prefix>/<file>__<W>x<H>_q<Q>[_crop[-<anchor>]][_upscale]<ext>.
type FileSystem struct {
	mediaURL string
	prefix   string
}

var _ media.Thumbnailer = (*FileSystem)(nil)

// NewFileSystem constructs a filesystem thumbnailer.
func NewFileSystem(opts FileSystemOptions) *FileSystem {
	mediaURL := strings.TrimSpace(opts.MediaURL)
	if mediaURL == "" {
		mediaURL = defaultMediaURL
	}
	if !strings.HasSuffix(mediaURL, "/") {
		mediaURL += "/"
	}

	prefix := strings.Trim(strings.TrimSpace(opts.Prefix), "/")
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &FileSystem{mediaURL: mediaURL, prefix: prefix}
}

// SourceURL returns the public URL of the original file.
func (f *FileSystem) SourceURL(image media.Image) string {
	return f.mediaURL + escapePath(strings.Trim(image.File, "/"))
}

// ThumbnailURL returns the public URL of the derived image.
func (f *FileSystem) ThumbnailURL(image media.Image, opts media.ThumbnailOptions) (string, error) {
	file := strings.Trim(strings.TrimSpace(image.File), "/")
	if file == "" {
		return "", eris.New("image file is required")
	}

	opts = opts.Normalised()
	if err := opts.Validate(); err != nil {
		return "", err
	}

	ext := path.Ext(file)
	if ext == "" {
		ext = defaultExt
	}

	name := file + "__" + optionSuffix(opts) + ext
	return f.mediaURL + escapePath(f.prefix+"/"+name), nil
}

func optionSuffix(opts media.ThumbnailOptions) string {
	parts := []string{
		strconv.Itoa(opts.Width) + "x" + strconv.Itoa(opts.Height),
		"q" + strconv.Itoa(opts.Quality),
	}

	switch opts.Crop {
	case media.NoCrop:
	case media.CropCenter:
		parts = append(parts, "crop")
	default:
		parts = append(parts, "crop-"+string(opts.Crop))
	}

	if opts.Upscale {
		parts = append(parts, "upscale")
	}

	return strings.Join(parts, "_")
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
