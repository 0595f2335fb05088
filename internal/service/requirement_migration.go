package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"workly/backend/internal/model"
	"workly/backend/internal/repository"
)

// MigrationStats summarizes one requirement-format migration pass.
type MigrationStats struct {
	Scanned   int
	Rewritten int
	Skipped   int
	Failed    int
}

// RequirementMigrator rewrites legacy required_roles encodings (JSON
// array of roles, bare string) to the canonical object form. The pass
// is idempotent: canonical rows are skipped, so running it on already
// migrated data is a no-op.
type RequirementMigrator struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewRequirementMigrator(repo *repository.Repository, logger *zap.Logger) *RequirementMigrator {
	return &RequirementMigrator{repo: repo, logger: logger}
}

// Run migrates every non-canonical row and returns the tallies. Row
// failures are logged and counted, never fatal: a later pass can retry
// them after the data is repaired.
func (m *RequirementMigrator) Run(ctx context.Context) (MigrationStats, error) {
	rows, err := m.repo.Coverage.FetchRequirementRows(ctx)
	if err != nil {
		return MigrationStats{}, err
	}

	stats := MigrationStats{Scanned: len(rows)}
	for _, row := range rows {
		raw := strings.TrimSpace(row.RequiredRoles)
		if model.IsCanonicalRequirement(raw) {
			stats.Skipped++
			continue
		}

		decoded := decodeLegacyRequirement(raw)
		if len(decoded) == 0 {
			stats.Failed++
			m.logger.Warn("requirement row not migratable, left untouched",
				zap.String("coverage_id", row.CoverageID),
				zap.String("raw", raw))
			continue
		}

		canonical, err := decoded.Value()
		if err != nil {
			stats.Failed++
			m.logger.Warn("requirement encode failed",
				zap.String("coverage_id", row.CoverageID),
				zap.Error(err))
			continue
		}
		if err := m.repo.Coverage.UpdateRequirementRaw(ctx, row.CoverageID, canonical.(string)); err != nil {
			stats.Failed++
			m.logger.Warn("requirement rewrite failed",
				zap.String("coverage_id", row.CoverageID),
				zap.Error(err))
			continue
		}

		stats.Rewritten++
		m.logger.Info("requirement row migrated",
			zap.String("coverage_id", row.CoverageID),
			zap.String("from", raw),
			zap.Strings("roles", decoded.Roles()))
	}

	m.logger.Info("requirement migration pass complete",
		zap.Int("scanned", stats.Scanned),
		zap.Int("rewritten", stats.Rewritten),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// decodeLegacyRequirement handles the legacy encodings plus the oldest
// rows where the column holds a plain unquoted role name. JSON-looking
// text that fails to parse stays untouched for manual repair.
func decodeLegacyRequirement(raw string) model.RoleRequirement {
	if decoded := model.DecodeRoleRequirement(raw); len(decoded) > 0 {
		return decoded
	}
	if raw == "" || strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "\"") {
		return model.RoleRequirement{}
	}
	return model.RoleRequirement{raw: 1}
}
