package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jvcl/datachat/internal/chat/engine"
	"github.com/jvcl/datachat/internal/chat/entity"
	"github.com/jvcl/datachat/internal/pkg/pkgerror"
	"github.com/jvcl/datachat/internal/pkg/pkguid"
)

// Cache is the explicit folder→dataset cache. A hit must return the
// cached value as-is without re-scanning the filesystem.
type Cache interface {
	Get(folder string) (*entity.Dataset, entity.LoadReport, bool)
	Put(folder string, dataset *entity.Dataset, report entity.LoadReport)
	Invalidate(folder string)
}

// Engine answers a free-text question against the dataset.
type Engine interface {
	Ask(ctx context.Context, dataset *entity.Dataset, question string) (entity.Answer, error)
}

// History reads recorded question/answer pairs.
type History interface {
	List(ctx context.Context, page, pageSize int) ([]entity.HistoryEntry, int, error)
	FindAnswer(ctx context.Context, question, fingerprint string) (entity.Answer, bool)
}

// EventPublisher publishes query events for asynchronous recording.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.QueryEvent) error
}

type Clock interface {
	Now() time.Time
}

// Config carries the loader and answering policy.
type Config struct {
	// Folder is the data directory scanned for CSV files.
	Folder string

	// Delimiter is the CSV field separator. Defaults to ';'.
	Delimiter rune

	// EnableAnswerCache reuses a recorded answer for an identical
	// question against an unchanged dataset.
	EnableAnswerCache bool
}

type Dependency struct {
	Cache   Cache
	Engine  Engine
	History History
	Events  EventPublisher
	Clock   Clock
	ID      pkguid.StringID
	Config  Config
}

type Usecase struct {
	cache   Cache
	engine  Engine
	history History
	events  EventPublisher
	clock   Clock
	id      pkguid.StringID
	config  Config
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	config := dep.Config
	if config.Delimiter == 0 {
		config.Delimiter = ';'
	}

	return &Usecase{
		cache:   dep.Cache,
		engine:  dep.Engine,
		history: dep.History,
		events:  dep.Events,
		clock:   clock,
		id:      dep.ID,
		config:  config,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Summary loads (or reuses) the active dataset and describes it.
func (u *Usecase) Summary(ctx context.Context) (SummaryResult, error) {
	dataset, report, err := u.activeDataset(ctx)
	if err != nil {
		return SummaryResult{}, err
	}

	return newSummaryResult(dataset, report), nil
}

// Refresh drops the cached dataset and rescans the folder.
func (u *Usecase) Refresh(ctx context.Context) (SummaryResult, error) {
	if u.cache == nil {
		return SummaryResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	u.cache.Invalidate(u.config.Folder)

	dataset, report, err := u.activeDataset(ctx)
	if err != nil {
		return SummaryResult{}, err
	}

	slog.InfoContext(ctx, "dataset refreshed", "folder", report.Folder, "rows", report.TotalRows)

	return newSummaryResult(dataset, report), nil
}

// Preview returns the last n rows of the active dataset.
func (u *Usecase) Preview(ctx context.Context, n int) (PreviewResult, error) {
	if n < 1 {
		return PreviewResult{}, pkgerror.NewInvalidInput(errors.New("invalid preview size"))
	}

	dataset, _, err := u.activeDataset(ctx)
	if err != nil {
		return PreviewResult{}, err
	}

	return PreviewResult{
		Columns:  dataset.Columns,
		Rows:     dataset.Tail(n),
		RowCount: dataset.RowCount(),
	}, nil
}

// Ask answers a free-text question against the active dataset. An empty
// dataset halts the pipeline with a single clear diagnostic and no
// engine call is attempted.
func (u *Usecase) Ask(ctx context.Context, question string) (AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return AskResult{}, pkgerror.NewInvalidInput(errors.New("question is required"))
	}
	if u.engine == nil {
		return AskResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	dataset, _, err := u.activeDataset(ctx)
	if err != nil {
		return AskResult{}, err
	}
	if dataset.Empty() {
		msg := fmt.Sprintf("no data loaded from folder %s", u.config.Folder)
		return AskResult{}, pkgerror.NewBusiness(msg, pkgerror.CodeInvalidInput)
	}

	if u.config.EnableAnswerCache && u.history != nil {
		if answer, ok := u.history.FindAnswer(ctx, question, dataset.Fingerprint); ok {
			return AskResult{Answer: answer, Cached: true}, nil
		}
	}

	startedAt := u.clock.Now()
	answer, askErr := u.engine.Ask(ctx, dataset, question)
	elapsed := u.clock.Now().Sub(startedAt).Milliseconds()

	u.publishQueryEvent(ctx, question, answer, askErr, elapsed, startedAt, dataset.Fingerprint)

	if askErr != nil {
		return AskResult{}, mapEngineErr(askErr)
	}

	return AskResult{Answer: answer, ElapsedMs: elapsed}, nil
}

// History lists recorded question/answer pairs, newest first.
func (u *Usecase) History(ctx context.Context, page, pageSize int) (HistoryResult, error) {
	if page < 1 || pageSize < 1 {
		return HistoryResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}
	if u.history == nil {
		return HistoryResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	entries, total, err := u.history.List(ctx, page, pageSize)
	if err != nil {
		return HistoryResult{}, normalizeErr(err)
	}

	return HistoryResult{
		Entries:  entries,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

func (u *Usecase) activeDataset(ctx context.Context) (*entity.Dataset, entity.LoadReport, error) {
	if u.cache == nil {
		return nil, entity.LoadReport{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if dataset, report, ok := u.cache.Get(u.config.Folder); ok {
		return dataset, report, nil
	}

	dataset, report := loadDirectory(ctx, u.config.Folder, u.config.Delimiter)
	report.LoadedAt = u.clock.Now().Unix()
	u.cache.Put(u.config.Folder, dataset, report)

	for _, diagnostic := range report.Diagnostics {
		slog.InfoContext(ctx, "dataset load", "folder", report.Folder, "diagnostic", diagnostic)
	}

	return dataset, report, nil
}

func (u *Usecase) publishQueryEvent(ctx context.Context, question string, answer entity.Answer, askErr error, elapsed int64, startedAt time.Time, fingerprint string) {
	if u.events == nil || u.id == nil {
		return
	}

	event := entity.QueryEvent{
		EventID:     u.id.Generate(),
		Question:    question,
		Kind:        answer.Kind,
		Summary:     summarizeAnswer(answer),
		ElapsedMs:   elapsed,
		AskedAt:     startedAt.Unix(),
		Fingerprint: fingerprint,
		Answer:      answer,
	}
	if askErr != nil {
		event.Err = askErr.Error()
	}

	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish query event", "event_id", event.EventID, "error", err)
	}
}

func summarizeAnswer(answer entity.Answer) string {
	switch answer.Kind {
	case entity.AnswerKindTable:
		return fmt.Sprintf("table with %d column(s) and %d row(s)", len(answer.Columns), len(answer.Rows))
	case entity.AnswerKindImage:
		return answer.ImageURL
	default:
		const maxSummary = 200
		if len(answer.Text) > maxSummary {
			return answer.Text[:maxSummary] + "..."
		}
		return answer.Text
	}
}

func mapEngineErr(err error) error {
	if errors.Is(err, engine.ErrNoCredential) {
		return pkgerror.NewBusiness("language model credential is not configured", pkgerror.CodeUnavailable)
	}

	var uerr *engine.UpstreamError
	if errors.As(err, &uerr) {
		return pkgerror.NewUnavailable(err)
	}

	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
