package core

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-retry"

	"github.com/elum-utils/cleen/decision"
	"github.com/elum-utils/cleen/engine"
	"github.com/elum-utils/cleen/interfaces"
	"github.com/elum-utils/cleen/models"
	"github.com/elum-utils/cleen/parser"
	"github.com/elum-utils/cleen/prompt"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultRetryDelay = time.Second
)

// Options configure the classification service.
type Options struct {
	// Classifier is the remote backend. Nil runs the heuristic matcher only.
	Classifier interfaces.Classifier
	Logger     interfaces.Logger
	// Registerer receives the service collectors when set.
	Registerer prometheus.Registerer

	// Timeout bounds each remote attempt.
	Timeout time.Duration
	// Retries is the number of extra remote attempts after a transport failure. Zero means one attempt.
	Retries    uint64
	RetryDelay time.Duration
}

// Report is the outcome of one filtering pass.
type Report struct {
	Result    models.ClassificationResult
	Decisions []models.Decision
	// FilteredCount is the number of items hidden, obscured, purified or flagged.
	FilteredCount int
}

// Core classifies item batches and never fails: remote problems degrade to the heuristic matcher.
type Core struct {
	classifier interfaces.Classifier
	logger     interfaces.Logger
	metrics    *metrics
	bus        *bus

	timeout    time.Duration
	retries    uint64
	retryDelay time.Duration
}

// New creates service instance.
func New(opt Options) *Core {
	c := &Core{
		classifier: opt.Classifier,
		logger:     opt.Logger,
		bus:        newBus(),
		timeout:    defaultTimeout,
		retries:    opt.Retries,
		retryDelay: defaultRetryDelay,
	}
	if opt.Timeout > 0 {
		c.timeout = opt.Timeout
	}
	if opt.RetryDelay > 0 {
		c.retryDelay = opt.RetryDelay
	}
	m, err := newMetrics(opt.Registerer)
	if err != nil {
		c.logWarn("metrics registration failed", map[string]any{"error": err.Error()})
	}
	c.metrics = m
	return c
}

// Analyze classifies items against settings. Empty keywords short-circuit without calling any classifier.
func (c *Core) Analyze(ctx context.Context, items []models.Item, settings models.Settings) models.ClassificationResult {
	s := settings.Normalized()
	if len(s.Keywords) == 0 || len(items) == 0 {
		c.metrics.analysis(models.SourceNone)
		return models.EmptyResult()
	}

	id := uuid.NewString()
	c.logDebug("analysis started", map[string]any{
		"analysis_id": id,
		"items":       len(items),
		"keywords":    len(s.Keywords),
		"level":       int(s.SensitivityLevel),
		"mode":        string(s.Mode),
	})

	var res models.ClassificationResult
	if c.classifier == nil {
		res = c.fallback(id, items, s, models.ErrNotConfigured)
	} else {
		res = c.remote(ctx, id, items, s)
	}
	c.publish(ctx, res, len(items))
	return res
}

// AnalyzeLatest runs Analyze under a token from seq and reports false when a newer
// token was issued before the call completed. Stale results should be discarded.
func (c *Core) AnalyzeLatest(ctx context.Context, seq *Sequencer, items []models.Item, settings models.Settings) (models.ClassificationResult, bool) {
	token := seq.Next()
	res := c.Analyze(ctx, items, settings)
	if !seq.Current(token) {
		c.logDebug("stale analysis dropped", map[string]any{"analysis_id": res.AnalysisID, "token": token})
		return res, false
	}
	return res, true
}

// Process analyzes items and maps the result to one decision per item.
func (c *Core) Process(ctx context.Context, items []models.Item, settings models.Settings) Report {
	res := c.Analyze(ctx, items, settings)
	ds := decision.DecideAll(items, res, settings.Normalized().Mode)
	return Report{Result: res, Decisions: ds, FilteredCount: decision.Count(ds)}
}

// FilterPage collects items from page, processes them and applies every decision back.
// Unmatched items receive a show decision so earlier transforms can be undone.
func (c *Core) FilterPage(ctx context.Context, page interfaces.PageAdapter, settings models.Settings) (Report, error) {
	if page == nil {
		return Report{}, errors.New("core: page adapter is nil")
	}
	items, err := page.CollectItems(ctx)
	if err != nil {
		return Report{}, err
	}
	if len(items) == 0 {
		return Report{Result: models.EmptyResult()}, nil
	}

	report := c.Process(ctx, items, settings)
	var errs []error
	for _, d := range report.Decisions {
		if err := page.ApplyDecision(ctx, d); err != nil {
			c.logWarn("apply decision failed", map[string]any{"error": err.Error(), "item_id": d.ItemID})
			errs = append(errs, err)
		}
	}
	return report, errors.Join(errs...)
}

func (c *Core) remote(ctx context.Context, id string, items []models.Item, s models.Settings) models.ClassificationResult {
	p := prompt.Build(prompt.Request{
		Items:            items,
		Keywords:         s.Keywords,
		SensitivityLevel: s.SensitivityLevel,
		Purify:           s.Mode == models.ModePurify,
	})

	start := time.Now()
	text, err := c.classify(ctx, p)
	c.metrics.remoteDuration(time.Since(start))
	if err != nil {
		return c.fallback(id, items, s, err)
	}

	var res models.ClassificationResult
	if s.Mode == models.ModePurify {
		var ok bool
		res, ok = parser.ParsePurify(text, items)
		if !ok {
			c.metrics.softParse()
			c.logWarn("purify payload is not JSON, parsed as id list", map[string]any{"analysis_id": id})
		}
	} else {
		res = parser.Parse(text, items, s.Mode)
	}
	res.AnalysisID = id
	res.Source = models.SourceRemote
	c.metrics.analysis(models.SourceRemote)
	return res
}

func (c *Core) classify(ctx context.Context, p string) (string, error) {
	var text string
	attempt := func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		out, err := c.classifier.Classify(callCtx, p)
		if err != nil {
			return err
		}
		text = out
		return nil
	}
	if c.retries == 0 {
		return text, attempt(ctx)
	}
	b := retry.WithMaxRetries(c.retries, retry.NewConstant(c.retryDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := attempt(ctx)
		if err != nil && ctx.Err() == nil && retryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	return text, err
}

func (c *Core) fallback(id string, items []models.Item, s models.Settings, cause error) models.ClassificationResult {
	reason := fallbackReason(cause)
	if reason != models.ReasonNotConfigured {
		c.logWarn("remote classifier failed, using heuristic matcher", map[string]any{
			"analysis_id": id,
			"reason":      string(reason),
			"error":       cause.Error(),
		})
	}
	res := engine.Match(items, s.Keywords, s.Mode == models.ModePurify)
	res.AnalysisID = id
	res.Degraded = true
	res.FallbackReason = reason
	res.Err = cause
	c.metrics.analysis(models.SourceHeuristic)
	c.metrics.fallback(reason)
	return res
}

func fallbackReason(err error) models.FallbackReason {
	switch {
	case errors.Is(err, models.ErrNotConfigured):
		return models.ReasonNotConfigured
	case errors.Is(err, models.ErrRateLimited):
		return models.ReasonRateLimited
	case errors.Is(err, context.DeadlineExceeded):
		return models.ReasonTimeout
	case errors.Is(err, models.ErrMalformedResponse):
		return models.ReasonMalformed
	default:
		return models.ReasonTransport
	}
}

func retryable(err error) bool {
	if errors.Is(err, models.ErrMalformedResponse) || errors.Is(err, models.ErrNotConfigured) {
		return false
	}
	return true
}

func (c *Core) logWarn(msg string, fields map[string]any) {
	if c.logger != nil {
		c.logger.Warn(msg, fields)
	}
}

func (c *Core) logDebug(msg string, fields map[string]any) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}
