package media

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"bannercms/app/internal/data/database"
	domainmedia "bannercms/app/internal/domain/media"
)

// Repository persists image assets using a Gorm database connection.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed image repository.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ domainmedia.Repository = (*Repository)(nil)

// Create stores a new image asset and assigns its id.
func (r *Repository) Create(ctx context.Context, image *domainmedia.Image) error {
	if image == nil {
		return eris.New("image is nil")
	}

	file := strings.Trim(strings.TrimSpace(image.File), "/")
	if file == "" {
		return eris.New("image file is required")
	}

	record := &ImageRecord{
		File:   file,
		Name:   strings.TrimSpace(image.Name),
		Width:  image.Width,
		Height: image.Height,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if violation, ok := database.Violation(err); ok {
			r.logError(logrus.Fields{"file": file}, violation, "creating image")
			return violation
		}
		r.logError(logrus.Fields{"file": file}, err, "creating image")
		return eris.Wrapf(err, "creating image: %s", file)
	}

	image.ID = record.ID
	image.File = record.File
	image.Name = record.Name
	return nil
}

// GetByID returns the image with id or nil when not found.
func (r *Repository) GetByID(ctx context.Context, id uint) (*domainmedia.Image, error) {
	var record ImageRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"image_id": id}, err, "fetching image")
		return nil, eris.Wrapf(err, "fetching image %d", id)
	}

	return ToDomain(&record), nil
}

func (r *Repository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
