package chat

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jvcl/datachat/internal/chat/engine"
	"github.com/jvcl/datachat/internal/chat/event"
	"github.com/jvcl/datachat/internal/chat/inbound"
	"github.com/jvcl/datachat/internal/chat/store"
	"github.com/jvcl/datachat/internal/chat/usecase"
	"github.com/jvcl/datachat/internal/pkg/pkgconfig"
	"github.com/jvcl/datachat/internal/pkg/pkgrouter"
	"github.com/jvcl/datachat/internal/pkg/pkgroutine"
	"github.com/jvcl/datachat/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
}

func New(dep Dependency) (func(context.Context) error, error) {
	cache := store.NewDatasetCache(
		time.Duration(dep.Config.GetInt("chat.cache.ttl_seconds"))*time.Second,
		int(dep.Config.GetInt("chat.cache.max_entries")),
	)
	history := store.NewHistoryStore(int(dep.Config.GetInt("chat.history.max_entries")))

	bus := event.NewBus(512)
	snowflake, err := pkguid.NewSnowflake()
	if err != nil {
		return nil, err
	}
	consumer := event.NewHistoryConsumer(bus, history, snowflake, event.ConsumerConfig{
		Workers: 1,
	})
	consumer.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	apiKey := dep.Config.GetString("chat.llm.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	engineClient := engine.New(engine.Config{
		APIKey:        apiKey,
		BaseURL:       dep.Config.GetString("chat.llm.base_url"),
		Model:         dep.Config.GetString("chat.llm.model"),
		Timeout:       time.Duration(dep.Config.GetInt("chat.llm.timeout_seconds")) * time.Second,
		MaxSampleRows: int(dep.Config.GetInt("chat.llm.sample_rows")),
	})

	uc := usecase.New(usecase.Dependency{
		Cache:   cache,
		Engine:  engineClient,
		History: history,
		Events:  bus,
		Clock:   nil,
		ID:      dep.ID,
		Config: usecase.Config{
			Folder:            dep.Config.GetString("chat.data.folder"),
			Delimiter:         delimiterFromConfig(dep.Config),
			EnableAnswerCache: dep.Config.GetBool("chat.llm.enable_cache"),
		},
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	// Warm the dataset cache so the first question does not pay for the scan.
	if dep.Goroutine != nil {
		dep.Goroutine.Go(dep.Context, func(ctx context.Context) error {
			summary, err := uc.Summary(ctx)
			if err != nil {
				return err
			}
			slog.InfoContext(ctx, "dataset preloaded", "folder", summary.Folder, "rows", summary.RowCount)
			return nil
		})
	}

	return consumer.Stop, nil
}

func delimiterFromConfig(cfg pkgconfig.Config) rune {
	value := cfg.GetString("chat.data.delimiter")
	if value == "" {
		return ';'
	}
	return []rune(value)[0]
}
