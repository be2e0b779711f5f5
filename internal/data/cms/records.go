package cms

import (
	"time"

	"bannercms/app/internal/domain/plugin"
)

// PlaceholderRecord represents a named placeholder slot.
type PlaceholderRecord struct {
	ID        uint   `gorm:"primaryKey"`
	Slot      string `gorm:"size:255;uniqueIndex:idx_placeholders_slot;not null"`
	CreatedAt time.Time
}

// TableName defines the table name for the PlaceholderRecord model.
func (PlaceholderRecord) TableName() string {
	return "cms_placeholders"
}

// PluginRecord is the generic row shared by every plugin instance. Plugin
// specific tables reference it through their plugin_id column.
type PluginRecord struct {
	ID            uint               `gorm:"primaryKey"`
	PlaceholderID *uint              `gorm:"index:idx_cms_plugins_placeholder_position,priority:1"`
	Placeholder   *PlaceholderRecord `gorm:"foreignKey:PlaceholderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PluginType    string             `gorm:"size:50;not null"`
	Language      string             `gorm:"size:15;not null;index"`
	Position      int                `gorm:"not null;default:0;index:idx_cms_plugins_placeholder_position,priority:2"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName defines the table name for the PluginRecord model.
func (PluginRecord) TableName() string {
	return "cms_plugins"
}

func toDomainPlaceholder(record *PlaceholderRecord) *plugin.Placeholder {
	return &plugin.Placeholder{ID: record.ID, Slot: record.Slot}
}

// ToDomainInstance converts a plugin row.
func ToDomainInstance(record *PluginRecord) *plugin.Instance {
	instance := &plugin.Instance{
		ID:         record.ID,
		PluginType: record.PluginType,
		Language:   record.Language,
		Position:   record.Position,
	}
	if record.PlaceholderID != nil {
		instance.PlaceholderID = *record.PlaceholderID
	}
	return instance
}
