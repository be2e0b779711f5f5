package media

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// DefaultQuality is the JPEG quality applied when a thumbnail does not request one.
const DefaultQuality = 85

// Crop is the anchor directive telling the image service which part of the
// source to keep when cropping to the target aspect ratio. The zero value
// disables cropping.
type Crop string

const (
	NoCrop Crop = ""
	// CropCenter keeps the centre of the image.
	CropCenter Crop = "center"
	// CropTop keeps the top edge, centred horizontally.
	CropTop Crop = ",0"
	// CropSmart lets the image service pick the most detailed region.
	CropSmart Crop = "smart"
)

// ThumbnailOptions describes a derived image.
type ThumbnailOptions struct {
	Width   int
	Height  int
	Quality int
	Crop    Crop
	Upscale bool
}

// Normalised returns a copy of the options with defaults applied.
func (o ThumbnailOptions) Normalised() ThumbnailOptions {
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	return o
}

// Validate reports whether the options describe a derivable image.
func (o ThumbnailOptions) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return eris.Errorf("invalid thumbnail size %dx%d", o.Width, o.Height)
	}
	if o.Quality < 0 || o.Quality > 100 {
		return eris.Errorf("invalid thumbnail quality %d", o.Quality)
	}
	return nil
}

// Thumbnailer derives URLs for an image and its resized variants.
type Thumbnailer interface {
	SourceURL(image Image) string
	ThumbnailURL(image Image, opts ThumbnailOptions) (string, error)
}

// ParseThumbnailOptions reads a "WxH" size and template flags such as
// "crop", "crop=,0", "crop=smart", "upscale" and "quality=90".
func ParseThumbnailOptions(size string, flags ...string) (ThumbnailOptions, error) {
	width, height, err := parseSize(size)
	if err != nil {
		return ThumbnailOptions{}, err
	}

	opts := ThumbnailOptions{Width: width, Height: height, Quality: DefaultQuality}

	for _, flag := range flags {
		name, value, hasValue := strings.Cut(strings.TrimSpace(flag), "=")
		switch name {
		case "crop":
			if !hasValue || value == "" || value == "center" {
				opts.Crop = CropCenter
				continue
			}
			opts.Crop = Crop(value)
		case "upscale":
			opts.Upscale = true
		case "quality":
			quality, convErr := strconv.Atoi(value)
			if convErr != nil {
				return ThumbnailOptions{}, eris.Wrapf(convErr, "invalid thumbnail quality: %s", value)
			}
			opts.Quality = quality
		case "":
		default:
			return ThumbnailOptions{}, eris.Errorf("unknown thumbnail option: %s", flag)
		}
	}

	if err := opts.Validate(); err != nil {
		return ThumbnailOptions{}, err
	}

	return opts, nil
}

func parseSize(size string) (int, int, error) {
	rawWidth, rawHeight, ok := strings.Cut(strings.ToLower(strings.TrimSpace(size)), "x")
	if !ok {
		return 0, 0, eris.Errorf("invalid thumbnail size: %s", size)
	}

	width, err := strconv.Atoi(rawWidth)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "invalid thumbnail width: %s", size)
	}

	height, err := strconv.Atoi(rawHeight)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "invalid thumbnail height: %s", size)
	}

	return width, height, nil
}
