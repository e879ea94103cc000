package cleen

import "github.com/elum-utils/cleen/core"

// Re-export core API at module root for convenient imports.
type (
	Core          = core.Core
	Options       = core.Options
	Report        = core.Report
	Sequencer     = core.Sequencer
	EventName     = core.EventName
	AnalysisEvent = core.AnalysisEvent
	EventHandler  = core.EventHandler
)

const (
	EventAnalysisCompleted = core.EventAnalysisCompleted
	EventAnalysisDegraded  = core.EventAnalysisDegraded
)

// New creates a new content filter.
func New(opt Options) *Core {
	return core.New(opt)
}
