package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"workly/backend/internal/model"
	"workly/backend/internal/repository"
	pkgerrors "workly/backend/pkg/errors"
)

// ── Mock repositories ──
//
// Map-backed stand-ins sharing one store, so the coverage mock can
// enforce the template version guard exactly like the SQL layer does.

type mockStore struct {
	templates map[string]*model.CoverageTemplate
	coverages map[string]*model.Coverage
	rawRows   map[string]string // coverage_id → raw required_roles text
	seq       int
}

func newMockStore() *mockStore {
	return &mockStore{
		templates: make(map[string]*model.CoverageTemplate),
		coverages: make(map[string]*model.Coverage),
		rawRows:   make(map[string]string),
	}
}

func newMockRepository() (*repository.Repository, *mockStore) {
	store := newMockStore()
	return &repository.Repository{
		Template: &mockTemplateRepo{store: store},
		Coverage: &mockCoverageRepo{store: store},
	}, store
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// seedTemplate inserts a template bypassing validation, for read-side
// tests that need historical validity periods.
func (s *mockStore) seedTemplate(name, start, end string, active bool) *model.CoverageTemplate {
	tmpl := &model.CoverageTemplate{
		TemplateID: s.nextID("tmpl"),
		Name:       name,
		StartDate:  mustDate(start),
		EndDate:    mustDate(end),
		IsActive:   active,
		CreatedBy:  "admin-1",
	}
	tmpl.Version = 1
	tmpl.CreatedAt = time.Now()
	s.templates[tmpl.TemplateID] = tmpl
	return tmpl
}

func (s *mockStore) seedCoverage(templateID string, dayOfWeek int, start, end string, roles model.RoleRequirement) *model.Coverage {
	cov := &model.Coverage{
		CoverageID:    s.nextID("cov"),
		TemplateID:    templateID,
		DayOfWeek:     dayOfWeek,
		StartTime:     start,
		EndTime:       end,
		RequiredRoles: roles,
		RoleCount:     1,
		IsActive:      true,
	}
	cov.Version = 1
	cov.CreatedAt = time.Now()
	s.coverages[cov.CoverageID] = cov
	if raw, err := roles.Value(); err == nil {
		s.rawRows[cov.CoverageID] = raw.(string)
	}
	return cov
}

func (s *mockStore) coveragesOf(templateID string) []model.Coverage {
	var out []model.Coverage
	for _, cov := range s.coverages {
		if cov.TemplateID == templateID {
			out = append(out, *cov)
		}
	}
	sortCoverages(out)
	return out
}

func sortCoverages(covs []model.Coverage) {
	sort.Slice(covs, func(i, j int) bool {
		if covs[i].DayOfWeek != covs[j].DayOfWeek {
			return covs[i].DayOfWeek < covs[j].DayOfWeek
		}
		if covs[i].StartTime != covs[j].StartTime {
			return covs[i].StartTime < covs[j].StartTime
		}
		return covs[i].CoverageID < covs[j].CoverageID
	})
}

// ── Template repository mock ──

type mockTemplateRepo struct {
	store *mockStore
}

func (m *mockTemplateRepo) Create(_ context.Context, tmpl *model.CoverageTemplate) error {
	tmpl.TemplateID = m.store.nextID("tmpl")
	tmpl.Version = 1
	tmpl.CreatedAt = time.Now()
	clone := *tmpl
	m.store.templates[tmpl.TemplateID] = &clone
	return nil
}

func (m *mockTemplateRepo) GetByID(_ context.Context, id string) (*model.CoverageTemplate, error) {
	stored, ok := m.store.templates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	tmpl := *stored
	tmpl.Coverages = m.store.coveragesOf(id)
	return &tmpl, nil
}

func (m *mockTemplateRepo) ListActive(_ context.Context, asOf *time.Time) ([]model.CoverageTemplate, error) {
	var out []model.CoverageTemplate
	for _, tmpl := range m.store.templates {
		if !tmpl.IsActive {
			continue
		}
		if asOf != nil && (asOf.Before(tmpl.StartDate) || asOf.After(tmpl.EndDate)) {
			continue
		}
		out = append(out, *tmpl)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

func (m *mockTemplateRepo) Update(_ context.Context, tmpl *model.CoverageTemplate) error {
	stored, ok := m.store.templates[tmpl.TemplateID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != tmpl.Version {
		return pkgerrors.ErrOptimisticLock
	}
	clone := *tmpl
	clone.Coverages = nil
	clone.Version = stored.Version + 1
	m.store.templates[tmpl.TemplateID] = &clone
	tmpl.Version = clone.Version
	return nil
}

func (m *mockTemplateRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.store.templates[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.store.templates, id)
	for covID, cov := range m.store.coverages {
		if cov.TemplateID == id {
			delete(m.store.coverages, covID)
			delete(m.store.rawRows, covID)
		}
	}
	return nil
}

// ── Coverage repository mock ──

type mockCoverageRepo struct {
	store *mockStore
}

func (m *mockCoverageRepo) guardVersion(templateID string, templateVersion int) error {
	stored, ok := m.store.templates[templateID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.Version != templateVersion {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Version++
	return nil
}

func (m *mockCoverageRepo) Create(_ context.Context, cov *model.Coverage, templateVersion int) error {
	if err := m.guardVersion(cov.TemplateID, templateVersion); err != nil {
		return err
	}
	cov.CoverageID = m.store.nextID("cov")
	cov.Version = 1
	cov.CreatedAt = time.Now()
	clone := *cov
	clone.Template = nil
	m.store.coverages[cov.CoverageID] = &clone
	if raw, err := cov.RequiredRoles.Value(); err == nil {
		m.store.rawRows[cov.CoverageID] = raw.(string)
	}
	return nil
}

func (m *mockCoverageRepo) GetByID(_ context.Context, id string) (*model.Coverage, error) {
	stored, ok := m.store.coverages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cov := *stored
	if tmpl, ok := m.store.templates[cov.TemplateID]; ok {
		clone := *tmpl
		cov.Template = &clone
	}
	return &cov, nil
}

func (m *mockCoverageRepo) ListByTemplate(_ context.Context, templateID string) ([]model.Coverage, error) {
	return m.store.coveragesOf(templateID), nil
}

func (m *mockCoverageRepo) ListForWeekday(_ context.Context, dayOfWeek int, asOf *time.Time) ([]model.Coverage, error) {
	var out []model.Coverage
	for _, cov := range m.store.coverages {
		if !cov.IsActive || cov.DayOfWeek != dayOfWeek {
			continue
		}
		tmpl, ok := m.store.templates[cov.TemplateID]
		if !ok {
			continue
		}
		if asOf != nil {
			if !tmpl.IsActive || asOf.Before(tmpl.StartDate) || asOf.After(tmpl.EndDate) {
				continue
			}
		}
		clone := *cov
		tmplClone := *tmpl
		clone.Template = &tmplClone
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].CoverageID < out[j].CoverageID
	})
	return out, nil
}

func (m *mockCoverageRepo) Update(_ context.Context, cov *model.Coverage, templateVersion int) error {
	if _, ok := m.store.coverages[cov.CoverageID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := m.guardVersion(cov.TemplateID, templateVersion); err != nil {
		return err
	}
	clone := *cov
	clone.Template = nil
	m.store.coverages[cov.CoverageID] = &clone
	if raw, err := cov.RequiredRoles.Value(); err == nil {
		m.store.rawRows[cov.CoverageID] = raw.(string)
	}
	return nil
}

func (m *mockCoverageRepo) Delete(_ context.Context, cov *model.Coverage, templateVersion int) error {
	if _, ok := m.store.coverages[cov.CoverageID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if err := m.guardVersion(cov.TemplateID, templateVersion); err != nil {
		return err
	}
	delete(m.store.coverages, cov.CoverageID)
	delete(m.store.rawRows, cov.CoverageID)
	return nil
}

func (m *mockCoverageRepo) FetchRequirementRows(_ context.Context) ([]repository.RequirementRow, error) {
	var out []repository.RequirementRow
	for id, raw := range m.store.rawRows {
		out = append(out, repository.RequirementRow{CoverageID: id, RequiredRoles: raw})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CoverageID < out[j].CoverageID })
	return out, nil
}

func (m *mockCoverageRepo) UpdateRequirementRaw(_ context.Context, coverageID, raw string) error {
	if _, ok := m.store.coverages[coverageID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.store.rawRows[coverageID] = raw
	if cov, ok := m.store.coverages[coverageID]; ok {
		cov.RequiredRoles = model.DecodeRoleRequirement(raw)
	}
	return nil
}

// ── Shared helpers ──

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
