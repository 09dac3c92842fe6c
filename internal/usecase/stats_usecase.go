package usecase

import (
	"bytes"
	"context"
	"fmt"
	"go-hr-tracker/internal/domain"
	"go-hr-tracker/pkg/apperror"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

type statsUsecase struct {
	statsRepo  domain.StatsRepository
	resumeRepo domain.ResumeRepository
	policy     domain.AccessPolicy
}

func NewStatsUsecase(statsRepo domain.StatsRepository, resumeRepo domain.ResumeRepository, policy domain.AccessPolicy) domain.StatsUsecase {
	return &statsUsecase{
		statsRepo:  statsRepo,
		resumeRepo: resumeRepo,
		policy:     policy,
	}
}

// GetSummary assembles the consolidated statistics payload within the
// caller's read scope. TotalResumes is the sum of the per-stage counts, so
// the two always agree.
func (u *statsUsecase) GetSummary(ctx context.Context, caller domain.Caller) (*domain.StatsSummary, error) {
	scope, err := u.policy.ReadScope(caller)
	if err != nil {
		return nil, apperror.Forbidden("Unknown role")
	}

	byStage, err := u.statsRepo.CountByStage(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	bySource, err := u.statsRepo.CountBySource(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	dwell, err := u.statsRepo.AvgStageDurationSeconds(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	perVacancy, err := u.statsRepo.AvgCandidatesPerVacancy(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	violations, err := u.statsRepo.SLAViolationCount(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var total int64
	for _, count := range byStage {
		total += count
	}

	return &domain.StatsSummary{
		ResumesPerStage:         byStage,
		ResumesPerSource:        bySource,
		TotalResumes:            total,
		AvgStageDurationSeconds: dwell,
		AvgCandidatesPerVacancy: perVacancy,
		SLAViolations:           violations,
	}, nil
}

var exportColumns = []string{"id", "candidate_name", "source", "vacancy", "current_stage", "created_at", "uploaded_by"}

// ExportResumes renders the caller's scoped resume list as an XLSX or CSV
// file.
func (u *statsUsecase) ExportResumes(ctx context.Context, caller domain.Caller, filter domain.ResumeFilter, format string) ([]byte, string, error) {
	scope, err := u.policy.ReadScope(caller)
	if err != nil {
		return nil, "", apperror.Forbidden("Unknown role")
	}

	if err := validateFilter(&filter); err != nil {
		return nil, "", err
	}

	resumes, err := u.resumeRepo.Fetch(ctx, scope, filter)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	switch format {
	case domain.ExportFormatCSV:
		return exportCSV(resumes)
	case domain.ExportFormatXLSX, "":
		return exportExcel(resumes)
	default:
		return nil, "", apperror.BadRequest("Unsupported export format: " + format)
	}
}

func resumeFieldValues(resume domain.Resume) []interface{} {
	source := ""
	if resume.Source != nil {
		source = *resume.Source
	}
	vacancy := ""
	if resume.VacancyTitle != nil {
		vacancy = *resume.VacancyTitle
	}
	return []interface{}{
		resume.ID,
		resume.CandidateName,
		source,
		vacancy,
		resume.CurrentStage,
		resume.CreatedAt.Format(time.RFC3339),
		resume.UploadedBy,
	}
}

func exportExcel(resumes []domain.Resume) ([]byte, string, error) {
	f := excelize.NewFile()
	sheetName := "Resumes"
	f.SetSheetName("Sheet1", sheetName)

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, strings.ToUpper(strings.ReplaceAll(col, "_", " ")))
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, resume := range resumes {
		for colIdx, value := range resumeFieldValues(resume) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperror.Internal(err)
	}

	filename := fmt.Sprintf("resumes_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func exportCSV(resumes []domain.Resume) ([]byte, string, error) {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(exportColumns, ",") + "\n")

	for _, resume := range resumes {
		var values []string
		for _, value := range resumeFieldValues(resume) {
			valueStr := fmt.Sprintf("%v", value)
			if strings.ContainsAny(valueStr, ",\"\n") {
				valueStr = "\"" + strings.ReplaceAll(valueStr, "\"", "\"\"") + "\""
			}
			values = append(values, valueStr)
		}
		buf.WriteString(strings.Join(values, ",") + "\n")
	}

	filename := fmt.Sprintf("resumes_%s.csv", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
