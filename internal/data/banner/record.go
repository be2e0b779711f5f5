package banner

import (
	"time"

	"bannercms/app/internal/data/cms"
	mediadata "bannercms/app/internal/data/media"
	domainbanner "bannercms/app/internal/domain/banner"
)

// LargeBannerRecord is the persisted large banner plugin row. Title and LogoID
// are pointers so absent values reach the database as NULL and trip the NOT
// NULL constraints.
type LargeBannerRecord struct {
	ID                uint                   `gorm:"primaryKey"`
	PluginID          *uint                  `gorm:"uniqueIndex:idx_large_banner_plugins_plugin"`
	Plugin            *cms.PluginRecord      `gorm:"foreignKey:PluginID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Title             *string                `gorm:"size:255;not null"`
	BackgroundImageID *uint                  `gorm:"index"`
	BackgroundImage   *mediadata.ImageRecord `gorm:"foreignKey:BackgroundImageID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	LogoID            *uint                  `gorm:"not null;index"`
	Logo              *mediadata.ImageRecord `gorm:"foreignKey:LogoID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	LogoAltText       *string                `gorm:"size:255"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName defines the table name for the LargeBannerRecord model.
func (LargeBannerRecord) TableName() string {
	return "large_banner_plugins"
}

func toRecord(banner *domainbanner.LargeBanner) *LargeBannerRecord {
	return &LargeBannerRecord{
		Title:             nullableString(banner.Title),
		BackgroundImageID: mediadata.ForeignKey(banner.BackgroundImage),
		LogoID:            mediadata.ForeignKey(banner.Logo),
		LogoAltText:       nullableString(banner.LogoAltText),
	}
}

func toDomain(record *LargeBannerRecord) *domainbanner.LargeBanner {
	banner := &domainbanner.LargeBanner{
		ID:              record.ID,
		Title:           derefString(record.Title),
		BackgroundImage: mediadata.ToDomain(record.BackgroundImage),
		Logo:            mediadata.ToDomain(record.Logo),
		LogoAltText:     derefString(record.LogoAltText),
	}
	if record.PluginID != nil {
		banner.PluginID = *record.PluginID
	}
	return banner
}

func nullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
