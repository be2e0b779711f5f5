package banner

import "bannercms/app/internal/domain/media"

// BackgroundRenditions are the responsive crops of the background image,
// largest first. The 1900x450 crop doubles as the default source.
var BackgroundRenditions = []media.ThumbnailOptions{
	{Width: 2495, Height: 550, Quality: media.DefaultQuality, Crop: media.CropTop},
	{Width: 1900, Height: 450, Quality: media.DefaultQuality, Crop: media.CropTop},
	{Width: 1280, Height: 400, Quality: media.DefaultQuality, Crop: media.CropTop},
	{Width: 768, Height: 450, Quality: media.DefaultQuality, Crop: media.CropTop},
}

// DefaultBackgroundRendition is the src of the background image.
var DefaultBackgroundRendition = BackgroundRenditions[1]

// LogoRendition is the crop used for the banner logo.
var LogoRendition = media.ThumbnailOptions{Width: 593, Height: 237, Quality: media.DefaultQuality, Crop: media.CropCenter}

// LogoRetinaRendition is the 2x candidate of LogoRendition.
var LogoRetinaRendition = media.ThumbnailOptions{Width: 1186, Height: 474, Quality: media.DefaultQuality, Crop: media.CropCenter}
