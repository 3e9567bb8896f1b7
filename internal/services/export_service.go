package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/studysphere/study-service/internal/models"
)

// ExportService renders a scored quiz result as an xlsx workbook so
// students can keep their results offline.
type ExportService interface {
	ResultsWorkbook(result *models.QuizResult) (*excelize.File, error)
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

const resultsSheet = "Quiz Results"

func (s *exportService) ResultsWorkbook(result *models.QuizResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Score", result.Score},
		{"Total", result.Total},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write summary row: %w", err)
		}
	}

	header := []interface{}{"Question ID", "Selected Option", "Correct Answer", "Correct", "Explanation"}
	headerCell, _ := excelize.CoordinatesToCellName(1, 4)
	if err := f.SetSheetRow(resultsSheet, headerCell, &header); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, r := range result.Results {
		row := []interface{}{r.QuestionID, r.SelectedOption, r.CorrectAnswer, r.IsCorrect, r.Explanation}
		cell, _ := excelize.CoordinatesToCellName(1, 5+i)
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write result row: %w", err)
		}
	}

	return f, nil
}
