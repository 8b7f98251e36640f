package inbound

import (
	"context"

	"github.com/jvcl/datachat/internal/chat/usecase"
	"github.com/jvcl/datachat/internal/pkg/pkgrouter"
)

type uc interface {
	Summary(ctx context.Context) (usecase.SummaryResult, error)
	Refresh(ctx context.Context) (usecase.SummaryResult, error)
	Preview(ctx context.Context, n int) (usecase.PreviewResult, error)
	Ask(ctx context.Context, question string) (usecase.AskResult, error)
	History(ctx context.Context, page, pageSize int) (usecase.HistoryResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/dataset", end.Dataset)
	r.GET("/dataset/preview", end.DatasetPreview) // ?rows=
	r.POST("/dataset/refresh", end.DatasetRefresh)

	r.POST("/chat", end.Chat)
	r.GET("/chat/history", end.ChatHistory) // ?page=&page_size=

	registerUI(r)
}
