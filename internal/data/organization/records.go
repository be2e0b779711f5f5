package organization

import (
	"time"

	"bannercms/app/internal/data/cms"
	mediadata "bannercms/app/internal/data/media"
	domainorganization "bannercms/app/internal/domain/organization"
)

// OrganizationRecord is a persisted organization.
type OrganizationRecord struct {
	ID          uint                   `gorm:"primaryKey"`
	Title       *string                `gorm:"size:255;not null"`
	Description string                 `gorm:"type:text"`
	LogoID      *uint                  `gorm:"index"`
	Logo        *mediadata.ImageRecord `gorm:"foreignKey:LogoID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName defines the table name for the OrganizationRecord model.
func (OrganizationRecord) TableName() string {
	return "organizations"
}

// GlimpseRecord is the organization plugin row.
type GlimpseRecord struct {
	ID             uint                `gorm:"primaryKey"`
	PluginID       *uint               `gorm:"uniqueIndex:idx_organization_plugins_plugin"`
	Plugin         *cms.PluginRecord   `gorm:"foreignKey:PluginID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	OrganizationID *uint               `gorm:"not null;index"`
	Organization   *OrganizationRecord `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Variant        *string             `gorm:"size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName defines the table name for the GlimpseRecord model.
func (GlimpseRecord) TableName() string {
	return "organization_plugins"
}

func toDomainOrganization(record *OrganizationRecord) *domainorganization.Organization {
	if record == nil {
		return nil
	}

	organization := &domainorganization.Organization{
		ID:          record.ID,
		Description: record.Description,
		Logo:        mediadata.ToDomain(record.Logo),
	}
	if record.Title != nil {
		organization.Title = *record.Title
	}
	return organization
}

func toDomainGlimpse(record *GlimpseRecord) *domainorganization.Glimpse {
	glimpse := &domainorganization.Glimpse{
		ID:           record.ID,
		Organization: toDomainOrganization(record.Organization),
		Variant:      record.Variant,
	}
	if record.PluginID != nil {
		glimpse.PluginID = *record.PluginID
	}
	return glimpse
}
