package banner

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bannercms/app/internal/data/cms"
	"bannercms/app/internal/data/database"
	domainbanner "bannercms/app/internal/domain/banner"
	"bannercms/app/internal/domain/plugin"
)

// Repository persists large banners using a Gorm database connection.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed large banner repository.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ domainbanner.Repository = (*Repository)(nil)

// Create stores a banner that is not attached to any placeholder. Constraint
// violations are returned as *integrity.Error.
func (r *Repository) Create(ctx context.Context, banner *domainbanner.LargeBanner) error {
	if banner == nil {
		return eris.New("large banner is nil")
	}

	record := toRecord(banner)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return r.createError(err)
	}

	banner.ID = record.ID
	return nil
}

// CreateInPlaceholder resolves the placeholder named slot and stores the plugin
// row and the banner in one transaction.
func (r *Repository) CreateInPlaceholder(ctx context.Context, slot, language string, banner *domainbanner.LargeBanner) (*plugin.Instance, error) {
	if banner == nil {
		return nil, eris.New("large banner is nil")
	}

	var instance *plugin.Instance
	record := toRecord(banner)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		placeholder, err := cms.PlaceholderInTx(tx, slot)
		if err != nil {
			return err
		}

		pluginRecord, err := cms.CreateInstance(tx, placeholder.ID, domainbanner.PluginType, language)
		if err != nil {
			return err
		}

		record.PluginID = &pluginRecord.ID
		if err := tx.Omit(clause.Associations).Create(record).Error; err != nil {
			return err
		}

		instance = cms.ToDomainInstance(pluginRecord)
		return nil
	})
	if err != nil {
		return nil, r.createError(err)
	}

	banner.ID = record.ID
	banner.PluginID = instance.ID
	return instance, nil
}

// GetByID returns the banner with id and its images, or nil when not found.
func (r *Repository) GetByID(ctx context.Context, id uint) (*domainbanner.LargeBanner, error) {
	return r.first(ctx, logrus.Fields{"banner_id": id}, "id = ?", id)
}

// GetByPluginID returns the banner attached to the plugin instance, or nil when not found.
func (r *Repository) GetByPluginID(ctx context.Context, pluginID uint) (*domainbanner.LargeBanner, error) {
	return r.first(ctx, logrus.Fields{"plugin_id": pluginID}, "plugin_id = ?", pluginID)
}

func (r *Repository) first(ctx context.Context, fields logrus.Fields, query string, args ...any) (*domainbanner.LargeBanner, error) {
	var record LargeBannerRecord
	err := r.db.WithContext(ctx).
		Preload("BackgroundImage").
		Preload("Logo").
		Where(query, args...).
		First(&record).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(fields, err, "fetching large banner")
		return nil, eris.Wrap(err, "fetching large banner")
	}

	return toDomain(&record), nil
}

func (r *Repository) createError(err error) error {
	if violation, ok := database.Violation(err); ok {
		r.logError(logrus.Fields{"table": violation.Table, "column": violation.Column}, violation, "large banner rejected by constraint")
		return violation
	}

	r.logError(nil, err, "creating large banner")
	return eris.Wrap(err, "creating large banner")
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
