package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/jvcl/datachat/internal/chat"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.chat.enabled") {
		closer, err := chat.New(chat.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
		})
		if err != nil {
			slog.Error("failed to init module chat", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Chat"] = closer
		}
	}
}
