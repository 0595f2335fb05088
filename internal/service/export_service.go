package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workly/backend/internal/model"
	"workly/backend/internal/repository"
)

var (
	ErrExportNoCoverages  = errors.New("il modello non contiene coperture attive")
	ErrExportGenerateFail = errors.New("generazione del file Excel fallita")
)

// ExportService renders a template as an Excel workbook. The buffer is
// returned to the handler, which sets the download headers and streams
// it out.
type ExportService interface {
	ExportTemplate(ctx context.Context, templateID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ExportTemplate writes one sheet: a header block with the template
// period, then one row per active slot ordered by weekday and start
// time, then the weekly totals.
func (s *exportService) ExportTemplate(ctx context.Context, templateID string) (*bytes.Buffer, string, error) {
	tmpl, err := s.repo.Template.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrTemplateNotFound
		}
		s.logger.Error("template lookup for export failed", zap.Error(err))
		return nil, "", err
	}

	active := make([]*model.Coverage, 0, len(tmpl.Coverages))
	for i := range tmpl.Coverages {
		if tmpl.Coverages[i].IsActive {
			active = append(active, &tmpl.Coverages[i])
		}
	}
	if len(active) == 0 {
		return nil, "", ErrExportNoCoverages
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Presidio"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 16)
	f.SetColWidth(sheetName, "C", "C", 16)
	f.SetColWidth(sheetName, "D", "D", 32)
	f.SetColWidth(sheetName, "E", "F", 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// Title block.
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Presidio — %s", tmpl.Name))
	f.MergeCell(sheetName, "A1", "F1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Periodo di validità: %s", tmpl.PeriodDisplay()))
	f.MergeCell(sheetName, "A2", "F2")

	// Column header.
	row := 4
	headers := []string{"Giorno", "Fascia oraria", "Pausa", "Ruoli richiesti", "Ore", "Ore effettive"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, row)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	// Slot rows, already ordered by (day_of_week, start_time) from the
	// preload.
	row++
	for _, cov := range active {
		pause := cov.BreakRange()
		if pause == "" {
			pause = "-"
		}
		values := []interface{}{
			cov.DayName(),
			cov.TimeRange(),
			pause,
			cov.RolesDisplay(),
			cov.DurationHours(),
			cov.EffectiveHours(),
		}
		for i, v := range values {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), v)
		}
		row++
	}

	// Totals.
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Ore settimanali")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), tmpl.WeeklyHours())
	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Ruoli coinvolti")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), strings.Join(tmpl.InvolvedRoles(), ", "))

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("workbook write failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("presidio_%s.xlsx", sanitizeFilename(tmpl.Name))
	return buf, filename, nil
}

// sanitizeFilename keeps the suggested download name portable.
func sanitizeFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	if clean == "" {
		clean = "modello"
	}
	return clean
}
