package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"workly/backend/internal/model"
	pkgerrors "workly/backend/pkg/errors"
)

// RequirementRow is a raw required_roles column value, used by the
// one-shot legacy-format migration which must see the stored text.
type RequirementRow struct {
	CoverageID    string
	RequiredRoles string
}

// CoverageRepository is the coverage-slot data access interface.
// Slot mutations are transactional with a version bump on the owning
// template, so two writers editing the same slot set are serialized
// and the loser learns about it.
type CoverageRepository interface {
	Create(ctx context.Context, cov *model.Coverage, templateVersion int) error
	GetByID(ctx context.Context, id string) (*model.Coverage, error)
	ListByTemplate(ctx context.Context, templateID string) ([]model.Coverage, error)
	ListForWeekday(ctx context.Context, dayOfWeek int, asOf *time.Time) ([]model.Coverage, error)
	Update(ctx context.Context, cov *model.Coverage, templateVersion int) error
	Delete(ctx context.Context, cov *model.Coverage, templateVersion int) error

	FetchRequirementRows(ctx context.Context) ([]RequirementRow, error)
	UpdateRequirementRaw(ctx context.Context, coverageID, raw string) error
}

type coverageRepo struct {
	db *gorm.DB
}

// NewCoverageRepo creates a CoverageRepository instance.
func NewCoverageRepo(db *gorm.DB) CoverageRepository {
	return &coverageRepo{db: db}
}

// bumpTemplateVersion advances the owning template's version inside
// tx, guarded by the version the caller read. RowsAffected 0 means a
// concurrent slot-set mutation won the race.
func bumpTemplateVersion(tx *gorm.DB, templateID string, readVersion int) error {
	result := tx.Model(&model.CoverageTemplate{}).
		Where("template_id = ? AND version = ?", templateID, readVersion).
		Updates(map[string]interface{}{
			"version":    readVersion + 1,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *coverageRepo) Create(ctx context.Context, cov *model.Coverage, templateVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpTemplateVersion(tx, cov.TemplateID, templateVersion); err != nil {
			return err
		}
		return tx.Create(cov).Error
	})
}

func (r *coverageRepo) GetByID(ctx context.Context, id string) (*model.Coverage, error) {
	var cov model.Coverage
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("coverage_id = ?", id).
		First(&cov).Error
	if err != nil {
		return nil, err
	}
	return &cov, nil
}

func (r *coverageRepo) ListByTemplate(ctx context.Context, templateID string) ([]model.Coverage, error) {
	var covs []model.Coverage
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("day_of_week ASC, start_time ASC, coverage_id ASC").
		Find(&covs).Error
	return covs, err
}

// ListForWeekday returns active slots on the given weekday, ordered by
// start_time then id. With asOf set, only slots of active templates
// whose validity period contains the date.
func (r *coverageRepo) ListForWeekday(ctx context.Context, dayOfWeek int, asOf *time.Time) ([]model.Coverage, error) {
	var covs []model.Coverage
	db := r.db.WithContext(ctx).
		Where("presidio_coverages.is_active = ?", true).
		Where("presidio_coverages.day_of_week = ?", dayOfWeek)

	if asOf != nil {
		db = db.
			Joins("JOIN presidio_coverage_templates t ON t.template_id = presidio_coverages.template_id").
			Where("t.is_active = ? AND t.start_date <= ? AND t.end_date >= ?", true, *asOf, *asOf)
	}

	err := db.
		Preload("Template").
		Order("presidio_coverages.start_time ASC, presidio_coverages.coverage_id ASC").
		Find(&covs).Error
	return covs, err
}

func (r *coverageRepo) Update(ctx context.Context, cov *model.Coverage, templateVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpTemplateVersion(tx, cov.TemplateID, templateVersion); err != nil {
			return err
		}

		oldVersion := cov.Version
		roles, err := cov.RequiredRoles.Value()
		if err != nil {
			return err
		}
		result := tx.Model(&model.Coverage{}).
			Where("coverage_id = ? AND version = ?", cov.CoverageID, oldVersion).
			Updates(map[string]interface{}{
				"day_of_week":    cov.DayOfWeek,
				"start_time":     cov.StartTime,
				"end_time":       cov.EndTime,
				"break_start":    cov.BreakStart,
				"break_end":      cov.BreakEnd,
				"required_roles": roles,
				"role_count":     cov.RoleCount,
				"description":    cov.Description,
				"is_active":      cov.IsActive,
				"updated_by":     cov.UpdatedBy,
				"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
				"version":        oldVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return pkgerrors.ErrOptimisticLock
		}
		cov.Version = oldVersion + 1
		return nil
	})
}

func (r *coverageRepo) Delete(ctx context.Context, cov *model.Coverage, templateVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bumpTemplateVersion(tx, cov.TemplateID, templateVersion); err != nil {
			return err
		}
		return tx.Where("coverage_id = ?", cov.CoverageID).
			Delete(&model.Coverage{}).Error
	})
}

// FetchRequirementRows returns every slot's raw required_roles text.
func (r *coverageRepo) FetchRequirementRows(ctx context.Context) ([]RequirementRow, error) {
	var rows []RequirementRow
	err := r.db.WithContext(ctx).
		Table("presidio_coverages").
		Select("coverage_id, required_roles").
		Order("coverage_id ASC").
		Scan(&rows).Error
	return rows, err
}

// UpdateRequirementRaw rewrites one slot's required_roles text without
// touching versions: the migration changes encoding, not meaning.
func (r *coverageRepo) UpdateRequirementRaw(ctx context.Context, coverageID, raw string) error {
	return r.db.WithContext(ctx).
		Table("presidio_coverages").
		Where("coverage_id = ?", coverageID).
		Update("required_roles", raw).Error
}
