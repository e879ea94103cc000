package core

import (
	"context"
	"errors"
	"sync"

	"github.com/elum-utils/cleen/models"
)

// EventName is a callback bus event.
type EventName string

const (
	EventAnalysisCompleted EventName = "analysis_completed"
	EventAnalysisDegraded  EventName = "analysis_degraded"
)

// AnalysisEvent is callback payload.
type AnalysisEvent struct {
	AnalysisID     string
	Source         models.Source
	Degraded       bool
	FallbackReason models.FallbackReason
	ItemCount      int
	MatchedCount   int
	Err            error
}

// EventHandler handles one analysis event.
type EventHandler func(ctx context.Context, event AnalysisEvent) error

type bus struct {
	mu       sync.RWMutex
	handlers map[EventName][]EventHandler
}

func newBus() *bus {
	return &bus{handlers: make(map[EventName][]EventHandler, 2)}
}

// On registers event handlers. Handler errors are logged and never affect the analysis.
func (c *Core) On(event EventName, handler EventHandler) error {
	if handler == nil {
		return errors.New("core: handler is nil")
	}
	c.bus.mu.Lock()
	c.bus.handlers[event] = append(c.bus.handlers[event], handler)
	c.bus.mu.Unlock()
	return nil
}

// OnAnalysisCompleted registers handler for every analysis that invoked a classifier.
func (c *Core) OnAnalysisCompleted(handler EventHandler) error {
	return c.On(EventAnalysisCompleted, handler)
}

// OnAnalysisDegraded registers handler for analyses answered by the heuristic matcher.
func (c *Core) OnAnalysisDegraded(handler EventHandler) error {
	return c.On(EventAnalysisDegraded, handler)
}

func (c *Core) publish(ctx context.Context, res models.ClassificationResult, items int) {
	e := AnalysisEvent{
		AnalysisID:     res.AnalysisID,
		Source:         res.Source,
		Degraded:       res.Degraded,
		FallbackReason: res.FallbackReason,
		ItemCount:      items,
		MatchedCount:   len(res.MatchedIDs),
		Err:            res.Err,
	}
	c.dispatch(ctx, EventAnalysisCompleted, e)
	if res.Degraded {
		c.dispatch(ctx, EventAnalysisDegraded, e)
	}
}

func (c *Core) dispatch(ctx context.Context, event EventName, e AnalysisEvent) {
	c.bus.mu.RLock()
	handlers := append([]EventHandler(nil), c.bus.handlers[event]...)
	c.bus.mu.RUnlock()
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			c.logWarn("event handler failed", map[string]any{"error": err.Error(), "event": string(event)})
		}
	}
}
