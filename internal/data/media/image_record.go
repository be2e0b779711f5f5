package media

import (
	"time"

	domainmedia "bannercms/app/internal/domain/media"
)

// ImageRecord represents an image asset persisted in the database.
type ImageRecord struct {
	ID        uint   `gorm:"primaryKey"`
	File      string `gorm:"size:255;not null"`
	Name      string `gorm:"size:255"`
	Width     int    `gorm:"not null;default:0"`
	Height    int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName defines the table name for the ImageRecord model.
func (ImageRecord) TableName() string {
	return "images"
}

// ToDomain converts the record; a nil record yields nil.
func ToDomain(record *ImageRecord) *domainmedia.Image {
	if record == nil {
		return nil
	}
	return &domainmedia.Image{
		ID:     record.ID,
		File:   record.File,
		Name:   record.Name,
		Width:  record.Width,
		Height: record.Height,
	}
}

// ForeignKey returns the id to store for image, or nil when absent.
func ForeignKey(image *domainmedia.Image) *uint {
	if image == nil {
		return nil
	}
	id := image.ID
	return &id
}
