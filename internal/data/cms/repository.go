package cms

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bannercms/app/internal/domain/plugin"
)

// Repository persists placeholders and plugin instances using Gorm.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed placeholder repository.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ plugin.Repository = (*Repository)(nil)

// GetOrCreatePlaceholder returns the placeholder for slot, inserting it when missing.
func (r *Repository) GetOrCreatePlaceholder(ctx context.Context, slot string) (*plugin.Placeholder, error) {
	record, err := PlaceholderInTx(r.db.WithContext(ctx), slot)
	if err != nil {
		r.logError(logrus.Fields{"slot": strings.TrimSpace(slot)}, err, "resolving placeholder")
		return nil, err
	}

	return toDomainPlaceholder(record), nil
}

// PlaceholderInTx returns the placeholder row for slot, inserting it when
// missing. Plugin repositories call it from the transaction that stores their
// record so a rejected write leaves no placeholder behind.
func PlaceholderInTx(tx *gorm.DB, slot string) (*PlaceholderRecord, error) {
	trimmed := strings.TrimSpace(slot)
	if trimmed == "" {
		return nil, eris.New("slot is required")
	}

	record := PlaceholderRecord{Slot: trimmed}
	err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slot"}}, DoNothing: true}).
		Create(&record).Error
	if err != nil {
		return nil, eris.Wrapf(err, "creating placeholder: %s", trimmed)
	}

	if err := tx.First(&record, "slot = ?", trimmed).Error; err != nil {
		return nil, eris.Wrapf(err, "fetching placeholder: %s", trimmed)
	}

	return &record, nil
}

// GetPlaceholder returns the placeholder for slot or nil when not found.
func (r *Repository) GetPlaceholder(ctx context.Context, slot string) (*plugin.Placeholder, error) {
	trimmed := strings.TrimSpace(slot)
	if trimmed == "" {
		return nil, eris.New("slot is required")
	}

	var record PlaceholderRecord
	err := r.db.WithContext(ctx).First(&record, "slot = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"slot": trimmed}, err, "fetching placeholder")
		return nil, eris.Wrapf(err, "fetching placeholder: %s", trimmed)
	}

	return toDomainPlaceholder(&record), nil
}

// GetInstance returns the plugin instance with id or nil when not found.
func (r *Repository) GetInstance(ctx context.Context, id uint) (*plugin.Instance, error) {
	var record PluginRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"plugin_id": id}, err, "fetching plugin instance")
		return nil, eris.Wrapf(err, "fetching plugin instance %d", id)
	}

	return ToDomainInstance(&record), nil
}

// ListInstances returns the plugins of a placeholder in display order. An empty
// language lists every language.
func (r *Repository) ListInstances(ctx context.Context, placeholderID uint, language string) ([]plugin.Instance, error) {
	query := r.db.WithContext(ctx).Where("placeholder_id = ?", placeholderID)
	if trimmed := strings.TrimSpace(language); trimmed != "" {
		query = query.Where("language = ?", trimmed)
	}

	var records []PluginRecord
	if err := query.Order("position ASC").Order("id ASC").Find(&records).Error; err != nil {
		r.logError(logrus.Fields{"placeholder_id": placeholderID}, err, "listing plugin instances")
		return nil, eris.Wrapf(err, "listing plugin instances for placeholder %d", placeholderID)
	}

	instances := make([]plugin.Instance, 0, len(records))
	for i := range records {
		instances = append(instances, *ToDomainInstance(&records[i]))
	}
	return instances, nil
}

// CreateInstance appends a plugin row to the placeholder inside tx. Plugin
// repositories call it from the transaction that stores their own record.
func CreateInstance(tx *gorm.DB, placeholderID uint, pluginType, language string) (*PluginRecord, error) {
	if strings.TrimSpace(pluginType) == "" {
		return nil, eris.New("plugin type is required")
	}
	if strings.TrimSpace(language) == "" {
		return nil, eris.New("language is required")
	}

	var count int64
	if err := tx.Model(&PluginRecord{}).
		Where("placeholder_id = ? AND language = ?", placeholderID, language).
		Count(&count).Error; err != nil {
		return nil, eris.Wrapf(err, "counting plugins in placeholder %d", placeholderID)
	}

	id := placeholderID
	record := &PluginRecord{
		PlaceholderID: &id,
		PluginType:    pluginType,
		Language:      language,
		Position:      int(count),
	}

	if err := tx.Create(record).Error; err != nil {
		return nil, eris.Wrapf(err, "creating %s instance in placeholder %d", pluginType, placeholderID)
	}

	return record, nil
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
