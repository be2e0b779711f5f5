package media

import "context"

// Repository defines persistence operations for image assets.
type Repository interface {
	Create(ctx context.Context, image *Image) error
	GetByID(ctx context.Context, id uint) (*Image, error)
}
