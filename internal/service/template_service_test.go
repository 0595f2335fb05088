package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"workly/backend/internal/dto"
	"workly/backend/internal/model"
	"workly/backend/internal/repository"
	"workly/backend/internal/validation"
	"workly/backend/pkg/timeutil"
)

func testInvalidator() *cacheInvalidator {
	return &cacheInvalidator{logger: zap.NewNop()}
}

func newTestTemplateService(repo *repository.Repository) TemplateService {
	return NewTemplateService(repo, model.NewRoleRegistry(), testInvalidator(), time.UTC, zap.NewNop())
}

// futureDate formats today+days as the API date string.
func futureDate(days int) string {
	return timeutil.FormatDate(time.Now().UTC().AddDate(0, 0, days))
}

func TestTemplateService_CreateAndGet(t *testing.T) {
	repo, _ := newMockRepository()
	svc := newTestTemplateService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.TemplateRequest{
		Name:        "Presidio Help Desk",
		StartDate:   futureDate(0),
		EndDate:     futureDate(90),
		Description: "Copertura help desk",
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}
	if !created.IsActive {
		t.Error("new templates must start active")
	}
	if created.CreatedBy != "admin-1" {
		t.Errorf("CreatedBy = %q", created.CreatedBy)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Presidio Help Desk" {
		t.Errorf("Name = %q", got.Name)
	}
}

func TestTemplateService_CreateValidationFails(t *testing.T) {
	repo, store := newMockRepository()
	svc := newTestTemplateService(repo)

	_, err := svc.Create(context.Background(), &dto.TemplateRequest{
		Name:      "",
		StartDate: futureDate(0),
		EndDate:   futureDate(30),
	}, "admin-1")

	var report *validation.Report
	if !errors.As(err, &report) {
		t.Fatalf("expected a validation report, got %v", err)
	}
	if len(store.templates) != 0 {
		t.Error("nothing must be persisted on validation failure")
	}
}

func TestTemplateService_GetByID_NotFound(t *testing.T) {
	repo, _ := newMockRepository()
	svc := newTestTemplateService(repo)

	if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("err = %v, want ErrTemplateNotFound", err)
	}
}

func TestTemplateService_ListActive(t *testing.T) {
	repo, store := newMockRepository()
	svc := newTestTemplateService(repo)
	ctx := context.Background()

	store.seedTemplate("Gennaio", "2025-01-01", "2025-01-31", true)
	store.seedTemplate("Anno", "2025-01-01", "2025-12-31", true)
	store.seedTemplate("Spento", "2025-01-01", "2025-12-31", false)

	all, err := svc.ListActive(ctx, &dto.TemplateListRequest{})
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2 (inactive excluded)", len(all))
	}

	march, err := svc.ListActive(ctx, &dto.TemplateListRequest{AsOf: "2025-03-15"})
	if err != nil {
		t.Fatalf("ListActive as_of: %v", err)
	}
	if len(march) != 1 || march[0].Name != "Anno" {
		t.Fatalf("as_of filter returned %+v", march)
	}

	var report *validation.Report
	if _, err := svc.ListActive(ctx, &dto.TemplateListRequest{AsOf: "15/03/2025"}); !errors.As(err, &report) {
		t.Fatalf("bad as_of must yield a validation report, got %v", err)
	}
}

func TestTemplateService_UpdateSkipsRecencyRules(t *testing.T) {
	repo, store := newMockRepository()
	svc := newTestTemplateService(repo)
	ctx := context.Background()

	tmpl := store.seedTemplate("Storico", "2024-01-01", "2024-12-31", true)

	// A period entirely in the past is legal on update: the recency
	// rules only gate creation.
	updated, err := svc.Update(ctx, tmpl.TemplateID, &dto.TemplateRequest{
		Name:      "Storico rivisto",
		StartDate: "2024-01-01",
		EndDate:   "2024-06-30",
	}, "admin-2")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Storico rivisto" || updated.EndDate != "2024-06-30" {
		t.Errorf("update not applied: %+v", updated)
	}
	if store.templates[tmpl.TemplateID].Version != 2 {
		t.Errorf("version = %d, want 2", store.templates[tmpl.TemplateID].Version)
	}
}

func TestTemplateService_SetActive(t *testing.T) {
	repo, store := newMockRepository()
	svc := newTestTemplateService(repo)
	ctx := context.Background()

	tmpl := store.seedTemplate("Presidio", "2025-01-01", "2025-12-31", true)

	resp, err := svc.SetActive(ctx, tmpl.TemplateID, false, "admin-1")
	if err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if resp.IsActive {
		t.Error("template must be inactive")
	}

	// Idempotent: deactivating again does not touch the version.
	before := store.templates[tmpl.TemplateID].Version
	if _, err := svc.SetActive(ctx, tmpl.TemplateID, false, "admin-1"); err != nil {
		t.Fatalf("SetActive idempotent: %v", err)
	}
	if store.templates[tmpl.TemplateID].Version != before {
		t.Error("no-op state change must not bump the version")
	}
}

func TestTemplateService_Delete(t *testing.T) {
	repo, store := newMockRepository()
	svc := newTestTemplateService(repo)
	ctx := context.Background()

	tmpl := store.seedTemplate("Da eliminare", "2025-01-01", "2025-12-31", true)
	store.seedCoverage(tmpl.TemplateID, 0, "09:00", "13:00", model.RoleRequirement{"Operatore": 1})

	if err := svc.Delete(ctx, tmpl.TemplateID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.coverages) != 0 {
		t.Error("delete must cascade to the slots")
	}
	if err := svc.Delete(ctx, tmpl.TemplateID); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("second delete err = %v, want ErrTemplateNotFound", err)
	}
}

func TestTemplateService_Summary(t *testing.T) {
	repo, store := newMockRepository()
	svc := newTestTemplateService(repo)

	tmpl := store.seedTemplate("Settimana", "2025-01-01", "2025-12-31", true)
	store.seedCoverage(tmpl.TemplateID, 0, "09:00", "13:00", model.RoleRequirement{"Operatore": 2})
	store.seedCoverage(tmpl.TemplateID, 4, "22:00", "06:00", model.RoleRequirement{"Sviluppatore": 1})

	summary, err := svc.Summary(context.Background(), tmpl.TemplateID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.WeeklyHours != 12 {
		t.Errorf("WeeklyHours = %v, want 12", summary.WeeklyHours)
	}
	if len(summary.CoveredWeekdays) != 2 || summary.CoveredWeekdays[0] != 0 || summary.CoveredWeekdays[1] != 4 {
		t.Errorf("CoveredWeekdays = %v", summary.CoveredWeekdays)
	}
	if len(summary.InvolvedRoles) != 2 {
		t.Errorf("InvolvedRoles = %v", summary.InvolvedRoles)
	}
	if summary.CoveredMinutesByDay[4] != 480 {
		t.Errorf("night slot minutes = %d, want 480", summary.CoveredMinutesByDay[4])
	}
}
