package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"workly/backend/internal/model"
	pkgerrors "workly/backend/pkg/errors"
)

// TemplateRepository is the coverage-template data access interface.
type TemplateRepository interface {
	Create(ctx context.Context, tmpl *model.CoverageTemplate) error
	GetByID(ctx context.Context, id string) (*model.CoverageTemplate, error)
	ListActive(ctx context.Context, asOf *time.Time) ([]model.CoverageTemplate, error)
	Update(ctx context.Context, tmpl *model.CoverageTemplate) error
	Delete(ctx context.Context, id string) error
}

type templateRepo struct {
	db *gorm.DB
}

// NewTemplateRepo creates a TemplateRepository instance.
func NewTemplateRepo(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) Create(ctx context.Context, tmpl *model.CoverageTemplate) error {
	return r.db.WithContext(ctx).Create(tmpl).Error
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*model.CoverageTemplate, error) {
	var tmpl model.CoverageTemplate
	err := r.db.WithContext(ctx).
		Preload("Coverages", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC, coverage_id ASC")
		}).
		Where("template_id = ?", id).
		First(&tmpl).Error
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// ListActive returns active templates ordered by start_date descending.
// With asOf set, only templates whose validity period contains it.
func (r *templateRepo) ListActive(ctx context.Context, asOf *time.Time) ([]model.CoverageTemplate, error) {
	var templates []model.CoverageTemplate
	db := r.db.WithContext(ctx).Where("is_active = ?", true)

	if asOf != nil {
		db = db.Where("start_date <= ? AND end_date >= ?", *asOf, *asOf)
	}

	err := db.
		Preload("Coverages", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC, coverage_id ASC")
		}).
		Order("start_date DESC").
		Find(&templates).Error
	return templates, err
}

// Update writes the template guarded by the version it was read at.
// A concurrent writer that committed first makes this fail with
// ErrOptimisticLock; the caller surfaces it, never retries silently.
func (r *templateRepo) Update(ctx context.Context, tmpl *model.CoverageTemplate) error {
	oldVersion := tmpl.Version
	result := r.db.WithContext(ctx).
		Model(&model.CoverageTemplate{}).
		Where("template_id = ? AND version = ?", tmpl.TemplateID, oldVersion).
		Updates(map[string]interface{}{
			"name":        tmpl.Name,
			"start_date":  tmpl.StartDate,
			"end_date":    tmpl.EndDate,
			"description": tmpl.Description,
			"is_active":   tmpl.IsActive,
			"updated_by":  tmpl.UpdatedBy,
			"updated_at":  gorm.Expr("CURRENT_TIMESTAMP"),
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	tmpl.Version = oldVersion + 1
	return nil
}

// Delete removes the template; the schema cascades to its coverages.
func (r *templateRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("template_id = ?", id).
		Delete(&model.CoverageTemplate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
