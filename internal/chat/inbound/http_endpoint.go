package inbound

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jvcl/datachat/internal/pkg/pkgerror"
)

const (
	defaultPreviewRows = 3
	maxPreviewRows     = 100
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Dataset(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Summary(ctx)
	if err != nil {
		return nil, err
	}

	return toSummaryResponse(result), nil
}

func (h *HTTPEndpoint) DatasetRefresh(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	return RefreshResponse{SummaryResponse: toSummaryResponse(result)}, nil
}

func (h *HTTPEndpoint) DatasetPreview(ctx context.Context, r *http.Request) (any, error) {
	rows := defaultPreviewRows
	if raw := strings.TrimSpace(r.URL.Query().Get("rows")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			return nil, pkgerror.NewInvalidInput(errors.New("invalid rows"))
		}
		if value > maxPreviewRows {
			value = maxPreviewRows
		}
		rows = value
	}

	result, err := h.uc.Preview(ctx, rows)
	if err != nil {
		return nil, err
	}

	return PreviewResponse{
		Columns:  result.Columns,
		Rows:     result.Rows,
		RowCount: result.RowCount,
	}, nil
}

func (h *HTTPEndpoint) Chat(ctx context.Context, r *http.Request) (any, error) {
	if r.Body == nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	result, err := h.uc.Ask(ctx, req.Question)
	if err != nil {
		return nil, err
	}

	return ChatResponse{
		Answer:    toHTTPAnswer(result.Answer),
		Cached:    result.Cached,
		ElapsedMs: result.ElapsedMs,
	}, nil
}

func (h *HTTPEndpoint) ChatHistory(ctx context.Context, r *http.Request) (any, error) {
	query := r.URL.Query()

	page, pageSize, err := parsePagination(query.Get("page"), query.Get("page_size"))
	if err != nil {
		return nil, err
	}

	result, err := h.uc.History(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, toHTTPHistoryEntry(entry))
	}

	return HistoryResponse{
		Entries:  entries,
		page:     result.Page,
		pageSize: result.PageSize,
		total:    result.Total,
	}, nil
}

func parsePagination(pageRaw, sizeRaw string) (int, int, error) {
	page := 1
	pageSize := 10

	if pageRaw != "" {
		value, err := strconv.Atoi(pageRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page"))
		}
		page = value
	}

	if sizeRaw != "" {
		value, err := strconv.Atoi(sizeRaw)
		if err != nil || value < 1 {
			return 0, 0, pkgerror.NewInvalidInput(errors.New("invalid page_size"))
		}
		if value > 100 {
			value = 100
		}
		pageSize = value
	}

	return page, pageSize, nil
}
