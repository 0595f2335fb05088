package repository

import "gorm.io/gorm"

// Repository aggregates the data-access interfaces.
type Repository struct {
	Template TemplateRepository
	Coverage CoverageRepository
}

// NewRepository builds the aggregate over one gorm connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Template: NewTemplateRepo(db),
		Coverage: NewCoverageRepo(db),
	}
}
