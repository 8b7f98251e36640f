package event

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jvcl/datachat/internal/chat/entity"
	"github.com/jvcl/datachat/internal/pkg/pkguid"
)

// Recorder persists one history entry.
type Recorder interface {
	Append(ctx context.Context, entry entity.HistoryEntry) error
}

type ConsumerConfig struct {
	Workers int
}

// HistoryConsumer drains query events from the bus and records them as
// history entries, keeping recording out of the request path. Duplicate
// event IDs are skipped.
type HistoryConsumer struct {
	bus      *Bus
	recorder Recorder
	id       pkguid.NumberID
	workers  int
	seen     sync.Map
	wg       sync.WaitGroup
}

func NewHistoryConsumer(bus *Bus, recorder Recorder, id pkguid.NumberID, cfg ConsumerConfig) *HistoryConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &HistoryConsumer{
		bus:      bus,
		recorder: recorder,
		id:       id,
		workers:  workers,
	}
}

func (c *HistoryConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

func (c *HistoryConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *HistoryConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *HistoryConsumer) processEvent(event entity.QueryEvent) {
	if c.recorder == nil {
		return
	}

	if event.EventID != "" {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate query event", "event_id", event.EventID)
			return
		}
	}

	entry := entity.HistoryEntry{
		Question:    event.Question,
		Kind:        event.Kind,
		Summary:     event.Summary,
		Err:         event.Err,
		ElapsedMs:   event.ElapsedMs,
		AskedAt:     event.AskedAt,
		Fingerprint: event.Fingerprint,
		Answer:      event.Answer,
	}
	if c.id != nil {
		entry.ID = c.id.Generate()
	}

	if err := c.recorder.Append(context.Background(), entry); err != nil {
		slog.Error("failed to record query history", "event_id", event.EventID, "error", err)
	}
}
