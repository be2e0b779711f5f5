package organization

import (
	"context"

	"github.com/rotisserie/eris"

	"bannercms/app/internal/domain/media"
	"bannercms/app/internal/domain/plugin"
)

var (
	// ErrNotFound indicates the requested organization or glimpse does not exist.
	ErrNotFound = eris.New("organization not found")
	// ErrInvalidVariant indicates a glimpse variant outside the configured choices.
	ErrInvalidVariant = eris.New("invalid glimpse variant")
)

// Organization is a page-backed entity shown through glimpses.
type Organization struct {
	ID          uint
	Title       string
	Description string
	Logo        *media.Image
}

// Glimpse is the organization plugin record. A nil Variant selects the default
// form factor.
type Glimpse struct {
	ID           uint
	PluginID     uint
	Organization *Organization
	Variant      *string
}

// VariantValue returns the variant or an empty string for the default look.
func (g Glimpse) VariantValue() string {
	if g.Variant == nil {
		return ""
	}
	return *g.Variant
}

// Repository defines persistence operations for organizations and their glimpses.
type Repository interface {
	Create(ctx context.Context, organization *Organization) error
	GetByID(ctx context.Context, id uint) (*Organization, error)
	CreateGlimpseInPlaceholder(ctx context.Context, slot, language string, glimpse *Glimpse) (*plugin.Instance, error)
	GetGlimpseByPluginID(ctx context.Context, pluginID uint) (*Glimpse, error)
}
