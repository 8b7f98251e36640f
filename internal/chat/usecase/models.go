package usecase

import "github.com/jvcl/datachat/internal/chat/entity"

type SummaryResult struct {
	Folder      string
	Status      entity.LoadStatus
	Columns     []string
	RowCount    int
	Files       []entity.SourceFile
	Diagnostics []string
	LoadedAt    int64
}

type PreviewResult struct {
	Columns  []string
	Rows     [][]string
	RowCount int
}

type AskResult struct {
	Answer    entity.Answer
	Cached    bool
	ElapsedMs int64
}

type HistoryResult struct {
	Entries  []entity.HistoryEntry
	Page     int
	PageSize int
	Total    int
}

func newSummaryResult(dataset *entity.Dataset, report entity.LoadReport) SummaryResult {
	return SummaryResult{
		Folder:      report.Folder,
		Status:      report.Status,
		Columns:     dataset.Columns,
		RowCount:    dataset.RowCount(),
		Files:       report.Files,
		Diagnostics: report.Diagnostics,
		LoadedAt:    report.LoadedAt,
	}
}
