package inbound

import (
	"github.com/jvcl/datachat/internal/chat/entity"
	"github.com/jvcl/datachat/internal/chat/usecase"
)

type SourceFile struct {
	Name    string             `json:"name"`
	Outcome entity.FileOutcome `json:"outcome"`
	Rows    int64              `json:"rows"`
	Columns int                `json:"columns"`
	Skipped int64              `json:"skipped"`
	Detail  string             `json:"detail,omitempty"`
}

type SummaryResponse struct {
	Folder      string            `json:"folder"`
	Status      entity.LoadStatus `json:"status"`
	Columns     []string          `json:"columns"`
	RowCount    int               `json:"row_count"`
	Files       []SourceFile      `json:"files"`
	Diagnostics []string          `json:"diagnostics"`
	LoadedAt    int64             `json:"loaded_at"`
}

type RefreshResponse struct {
	SummaryResponse
}

func (RefreshResponse) Message() string {
	return "dataset reloaded"
}

type PreviewResponse struct {
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	RowCount int        `json:"row_count"`
}

type ChatRequest struct {
	Question string `json:"question"`
}

type Answer struct {
	Kind     entity.AnswerKind `json:"kind"`
	Text     string            `json:"text,omitempty"`
	Columns  []string          `json:"columns,omitempty"`
	Rows     [][]string        `json:"rows,omitempty"`
	ImageURL string            `json:"image_url,omitempty"`
}

type ChatResponse struct {
	Answer    Answer `json:"answer"`
	Cached    bool   `json:"cached"`
	ElapsedMs int64  `json:"elapsed_ms"`
}

func (ChatResponse) Message() string {
	return "question answered"
}

type HistoryEntry struct {
	ID        int64             `json:"id"`
	Question  string            `json:"question"`
	Kind      entity.AnswerKind `json:"kind"`
	Summary   string            `json:"summary"`
	Err       string            `json:"error,omitempty"`
	ElapsedMs int64             `json:"elapsed_ms"`
	AskedAt   int64             `json:"asked_at"`
}

type HistoryResponse struct {
	Entries  []HistoryEntry `json:"entries"`
	page     int
	pageSize int
	total    int
}

func (r HistoryResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}

func toSummaryResponse(result usecase.SummaryResult) SummaryResponse {
	files := make([]SourceFile, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, SourceFile{
			Name:    f.Name,
			Outcome: f.Outcome,
			Rows:    f.Rows,
			Columns: f.Columns,
			Skipped: f.Skipped,
			Detail:  f.Detail,
		})
	}

	return SummaryResponse{
		Folder:      result.Folder,
		Status:      result.Status,
		Columns:     result.Columns,
		RowCount:    result.RowCount,
		Files:       files,
		Diagnostics: result.Diagnostics,
		LoadedAt:    result.LoadedAt,
	}
}

func toHTTPAnswer(answer entity.Answer) Answer {
	return Answer{
		Kind:     answer.Kind,
		Text:     answer.Text,
		Columns:  answer.Columns,
		Rows:     answer.Rows,
		ImageURL: answer.ImageURL,
	}
}

func toHTTPHistoryEntry(entry entity.HistoryEntry) HistoryEntry {
	return HistoryEntry{
		ID:        entry.ID,
		Question:  entry.Question,
		Kind:      entry.Kind,
		Summary:   entry.Summary,
		Err:       entry.Err,
		ElapsedMs: entry.ElapsedMs,
		AskedAt:   entry.AskedAt,
	}
}
