package organization

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bannercms/app/internal/data/cms"
	"bannercms/app/internal/data/database"
	mediadata "bannercms/app/internal/data/media"
	domainorganization "bannercms/app/internal/domain/organization"
	"bannercms/app/internal/domain/plugin"
)

// Repository persists organizations and glimpses using Gorm.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed organization repository.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ domainorganization.Repository = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, organization *domainorganization.Organization) error {
	if organization == nil {
		return eris.New("organization is nil")
	}

	record := &OrganizationRecord{
		Description: organization.Description,
		LogoID:      mediadata.ForeignKey(organization.Logo),
	}
	if title := strings.TrimSpace(organization.Title); title != "" {
		record.Title = &title
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error; err != nil {
		return r.writeError(err, "creating organization")
	}

	organization.ID = record.ID
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*domainorganization.Organization, error) {
	var record OrganizationRecord
	err := r.db.WithContext(ctx).Preload("Logo").First(&record, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"organization_id": id}, err, "fetching organization")
		return nil, eris.Wrapf(err, "fetching organization %d", id)
	}

	return toDomainOrganization(&record), nil
}

// CreateGlimpseInPlaceholder resolves the placeholder named slot and stores the
// plugin row and the glimpse in one transaction.
func (r *Repository) CreateGlimpseInPlaceholder(ctx context.Context, slot, language string, glimpse *domainorganization.Glimpse) (*plugin.Instance, error) {
	if glimpse == nil {
		return nil, eris.New("glimpse is nil")
	}

	record := &GlimpseRecord{Variant: glimpse.Variant}
	if glimpse.Organization != nil {
		id := glimpse.Organization.ID
		record.OrganizationID = &id
	}

	var instance *plugin.Instance
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		placeholder, err := cms.PlaceholderInTx(tx, slot)
		if err != nil {
			return err
		}

		pluginRecord, err := cms.CreateInstance(tx, placeholder.ID, domainorganization.PluginType, language)
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
		return nil, r.writeError(err, "creating organization glimpse")
	}

	glimpse.ID = record.ID
	glimpse.PluginID = instance.ID
	return instance, nil
}

func (r *Repository) GetGlimpseByPluginID(ctx context.Context, pluginID uint) (*domainorganization.Glimpse, error) {
	var record GlimpseRecord
	err := r.db.WithContext(ctx).
		Preload("Organization.Logo").
		Where("plugin_id = ?", pluginID).
		First(&record).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"plugin_id": pluginID}, err, "fetching organization glimpse")
		return nil, eris.Wrapf(err, "fetching organization glimpse for plugin %d", pluginID)
	}

	return toDomainGlimpse(&record), nil
}

func (r *Repository) writeError(err error, message string) error {
	if violation, ok := database.Violation(err); ok {
		r.logError(logrus.Fields{"table": violation.Table, "column": violation.Column}, violation, message)
		return violation
	}

	r.logError(nil, err, message)
	return eris.Wrap(err, message)
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
