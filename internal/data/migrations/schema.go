package migrations

import (
	"time"

	"gorm.io/gorm"

	bannerdata "bannercms/app/internal/data/banner"
	"bannercms/app/internal/data/cms"
	mediadata "bannercms/app/internal/data/media"
	organizationdata "bannercms/app/internal/data/organization"
)

// All returns the schema history in application order.
func All() []Migration {
	return []Migration{
		{Name: "0001_media_images", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&mediadata.ImageRecord{})
		}},
		{Name: "0002_cms_placeholders", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&cms.PlaceholderRecord{}, &cms.PluginRecord{})
		}},
		{Name: "0003_large_banner", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&bannerdata.LargeBannerRecord{})
		}},
		{Name: "0004_organizations", Up: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&organizationdata.OrganizationRecord{}, &organizationPluginV4{})
		}},
		{Name: "0005_organization_plugin_variant", Up: addOrganizationPluginVariant},
	}
}

// organizationPluginV4 is the organization plugin table before glimpse variants existed.
type organizationPluginV4 struct {
	ID             uint                                 `gorm:"primaryKey"`
	PluginID       *uint                                `gorm:"uniqueIndex:idx_organization_plugins_plugin"`
	Plugin         *cms.PluginRecord                    `gorm:"foreignKey:PluginID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	OrganizationID *uint                                `gorm:"not null;index"`
	Organization   *organizationdata.OrganizationRecord `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (organizationPluginV4) TableName() string {
	return "organization_plugins"
}

// addOrganizationPluginVariant adds the optional glimpse form factor column.
func addOrganizationPluginVariant(tx *gorm.DB) error {
	migrator := tx.Migrator()
	if migrator.HasColumn(&organizationdata.GlimpseRecord{}, "Variant") {
		return nil
	}
	return migrator.AddColumn(&organizationdata.GlimpseRecord{}, "Variant")
}
