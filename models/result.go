package models

// Source tells which classifier produced a result.
type Source string

const (
	SourceNone      Source = "none"
	SourceRemote    Source = "remote"
	SourceHeuristic Source = "heuristic"
)

// FallbackReason explains why a result is degraded.
type FallbackReason string

const (
	ReasonNone          FallbackReason = ""
	ReasonNotConfigured FallbackReason = "not_configured"
	ReasonTransport     FallbackReason = "transport"
	ReasonTimeout       FallbackReason = "timeout"
	ReasonRateLimited   FallbackReason = "rate_limited"
	ReasonMalformed     FallbackReason = "malformed"
)

// ClassificationResult is the output of one analysis call.
type ClassificationResult struct {
	AnalysisID string `json:"analysis_id,omitempty"`
	// MatchedIDs is ordered as the items were submitted and holds no duplicates.
	MatchedIDs []int64 `json:"matched_ids"`
	// Spans is filled only in purify mode.
	Spans map[int64][]string `json:"spans"`

	Source         Source         `json:"source"`
	Degraded       bool           `json:"degraded"`
	FallbackReason FallbackReason `json:"fallback_reason,omitempty"`
	Err            error          `json:"-"`
}

// EmptyResult returns a result with no matches.
func EmptyResult() ClassificationResult {
	return ClassificationResult{
		MatchedIDs: []int64{},
		Spans:      map[int64][]string{},
		Source:     SourceNone,
	}
}

// MatchedSet returns MatchedIDs as a set.
func (r ClassificationResult) MatchedSet() map[int64]struct{} {
	out := make(map[int64]struct{}, len(r.MatchedIDs))
	for _, id := range r.MatchedIDs {
		out[id] = struct{}{}
	}
	return out
}

// Matched reports whether id is in MatchedIDs.
func (r ClassificationResult) Matched(id int64) bool {
	for _, m := range r.MatchedIDs {
		if m == id {
			return true
		}
	}
	return false
}

// OrderByItems returns the unique ids from ids that belong to the batch, in batch order.
func OrderByItems(items []Item, ids []int64) []int64 {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]int64, 0, len(want))
	for _, item := range items {
		if _, ok := want[item.ID]; !ok {
			continue
		}
		out = append(out, item.ID)
		delete(want, item.ID)
	}
	return out
}
