package banner

import (
	"context"

	"github.com/rotisserie/eris"

	"bannercms/app/internal/domain/media"
	"bannercms/app/internal/domain/plugin"
)

// ErrNotFound indicates the requested large banner does not exist.
var ErrNotFound = eris.New("large banner not found")

// LargeBanner is the record behind the large banner plugin. Title and Logo are
// mandatory at the persistence boundary; an empty Title and a nil Logo are
// stored as NULL and rejected by the database.
type LargeBanner struct {
	ID              uint
	PluginID        uint
	Title           string
	BackgroundImage *media.Image
	Logo            *media.Image
	LogoAltText     string
}

// Repository defines persistence operations for large banners.
type Repository interface {
	Create(ctx context.Context, banner *LargeBanner) error
	CreateInPlaceholder(ctx context.Context, slot, language string, banner *LargeBanner) (*plugin.Instance, error)
	GetByID(ctx context.Context, id uint) (*LargeBanner, error)
	GetByPluginID(ctx context.Context, pluginID uint) (*LargeBanner, error)
}
