// Package parser decodes remote classifier replies into classification results.
// Malformed replies never produce an error: they degrade to a best-effort partial result.
package parser

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/elum-utils/cleen/models"
)

var fenceRe = regexp.MustCompile("(?i)```(?:json)?\\s*")

// StripCodeFence removes Markdown code-fence markers and surrounding whitespace.
func StripCodeFence(text string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(text, ""))
}

// ParseIDList keeps digits and commas, splits on commas and returns the ids present in items.
func ParseIDList(text string, items []models.Item) []int64 {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}, text)
	if cleaned == "" {
		return []int64{}
	}

	ids := make([]int64, 0, 8)
	for _, part := range strings.Split(cleaned, ",") {
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return models.OrderByItems(items, ids)
}

// ParsePurify decodes the JSON span contract. Only a reply that is not a JSON object falls
// back to the id list algorithm over the raw text; that fallback yields no spans and the
// second return value is false. Inside a valid object, mistyped fields and entries are
// skipped and numeric strings are accepted as ids.
func ParsePurify(text string, items []models.Item) (models.ClassificationResult, bool) {
	res := models.EmptyResult()

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &payload); err != nil || payload == nil {
		res.MatchedIDs = ParseIDList(text, items)
		return res, false
	}

	res.MatchedIDs = models.OrderByItems(items, decodeIDs(payload["filteredIds"]))
	known := models.IDSet(items)
	for key, spans := range decodeSpanMap(payload["purifyData"]) {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			continue
		}
		if _, ok := known[id]; !ok {
			continue
		}
		if len(spans) > 0 {
			res.Spans[id] = spans
		}
	}
	return res, true
}

func decodeIDs(raw json.RawMessage) []int64 {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}
	ids := make([]int64, 0, len(elems))
	for _, e := range elems {
		if id, ok := decodeID(e); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func decodeID(raw json.RawMessage) (int64, bool) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}

// decodeSpanMap accepts a list of strings or a single string per id and drops empty spans.
func decodeSpanMap(raw json.RawMessage) map[string][]string {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	out := make(map[string][]string, len(entries))
	for key, v := range entries {
		var one string
		if err := json.Unmarshal(v, &one); err == nil {
			if one != "" {
				out[key] = []string{one}
			}
			continue
		}
		var elems []json.RawMessage
		if err := json.Unmarshal(v, &elems); err != nil {
			continue
		}
		kept := make([]string, 0, len(elems))
		for _, e := range elems {
			var s string
			if err := json.Unmarshal(e, &s); err == nil && s != "" {
				kept = append(kept, s)
			}
		}
		out[key] = kept
	}
	return out
}

// Parse decodes text according to mode. Only purify mode yields spans.
func Parse(text string, items []models.Item, mode models.Mode) models.ClassificationResult {
	if mode == models.ModePurify {
		res, _ := ParsePurify(text, items)
		return res
	}
	res := models.EmptyResult()
	res.MatchedIDs = ParseIDList(text, items)
	return res
}
